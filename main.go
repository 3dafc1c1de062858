package main

import (
	"context"
	"fmt"

	"contactsapp/auth-api/api"
	"contactsapp/auth-api/aws"
	"contactsapp/auth-api/config"
	"contactsapp/auth-api/db"
	"contactsapp/auth-api/internal"
	"contactsapp/auth-api/internal/service"
	"contactsapp/auth-api/internal/store"
	"contactsapp/auth-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	gin.SetMode(gin.ReleaseMode)

	err := config.Setup()
	if err != nil {
		panic(err)
	}

	api.MakeLogger()

	database, err := db.New()
	if err != nil {
		panic(err)
	}

	accounts := store.NewGormStore(database)

	issuer, err := security.NewTokenIssuer(
		viper.GetString("jwt.secret"),
		viper.GetDuration("jwt.lifetime"),
	)
	if err != nil {
		panic(err)
	}

	var mailer service.Mailer = service.NoopMailer{}
	if viper.GetBool("mail.enabled") {
		mailer, err = service.NewSMTPMailer(service.SMTPConfig{
			Host:       viper.GetString("mail.host"),
			Port:       viper.GetInt("mail.port"),
			Sender:     viper.GetString("mail.sender"),
			Password:   viper.GetString("mail.password"),
			Domain:     viper.GetString("host.domain"),
			SSLEnabled: viper.GetBool("host.ssl.enabled"),
		})
		if err != nil {
			panic(err)
		}
	}

	deps := &internal.Deps{
		DB:       database,
		Store:    accounts,
		Sessions: service.NewSessionService(accounts, security.NewArgonHash(), issuer, mailer),
	}

	if viper.GetBool("storage.enabled") {
		s3, err := aws.NewS3(context.Background(), aws.Config{
			AccessKeyID:     viper.GetString("aws.access_key_id"),
			SecretAccessKey: viper.GetString("aws.secret_access_key"),
			Bucket:          viper.GetString("aws.bucket"),
			Region:          viper.GetString("aws.region"),
		})
		if err != nil {
			panic(err)
		}

		deps.Avatars = service.NewAvatarService(s3, accounts, viper.GetString("aws.public_url"))
	}

	if viper.GetBool("cleanup.enabled") {
		service.AccountCleanup(
			viper.GetDuration("cleanup.interval"),
			viper.GetDuration("cleanup.max_age"),
			database,
		)
	}

	a, err := api.NewRouter(deps)
	if err != nil {
		panic(err)
	}

	zap.L().Info("Server starting", zap.Int("port", viper.GetInt("host.port")))

	err = a.Router.Run(fmt.Sprintf(":%d", viper.GetInt("host.port")))
	if err != nil {
		panic(err)
	}
}
