// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

func genSecret() string {
	b := make([]byte, 64)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that.
func Setup() error {
	pflag.Parse()
	v.BindPFlags(pflag.CommandLine)

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.AutomaticEnv()

	//
	// ENVS
	//
	v.BindEnv("app.log_level", "app_log_level")

	v.BindEnv("host.port", "host_port")
	v.BindEnv("host.domain", "host_domain")
	v.BindEnv("host.ssl.enabled", "host_ssl_enabled")

	v.BindEnv("db.path", "db_path")

	v.BindEnv("jwt.secret", "jwt_secret")
	v.BindEnv("jwt.lifetime", "jwt_lifetime")

	v.BindEnv("mail.enabled", "mail_enabled")
	v.BindEnv("mail.host", "mail_host")
	v.BindEnv("mail.port", "mail_port")
	v.BindEnv("mail.sender", "mail_sender")
	v.BindEnv("mail.password", "mail_password")

	v.BindEnv("storage.enabled", "storage_enabled")
	v.BindEnv("aws.access_key_id", "aws_access_key_id")
	v.BindEnv("aws.secret_access_key", "aws_secret_access_key")
	v.BindEnv("aws.bucket", "aws_bucket")
	v.BindEnv("aws.region", "aws_region")
	v.BindEnv("aws.public_url", "aws_public_url")

	v.BindEnv("turnstile.enabled", "turnstile_enabled")
	v.BindEnv("turnstile.secret_token", "turnstile_secret_token")

	v.BindEnv("cleanup.enabled", "cleanup_enabled")
	v.BindEnv("cleanup.interval", "cleanup_interval")
	v.BindEnv("cleanup.max_age", "cleanup_max_age")

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost")
	v.SetDefault("host.ssl.enabled", false)

	v.SetDefault("db.path", "database.db")

	v.SetDefault("jwt.lifetime", "1h")

	v.SetDefault("mail.enabled", true)
	v.SetDefault("mail.port", 587)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("upload.max_avatar_size", 5)

	v.SetDefault("turnstile.enabled", false)

	v.SetDefault("cleanup.enabled", false)
	v.SetDefault("cleanup.interval", "1h")
	v.SetDefault("cleanup.max_age", "720h")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(v.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	// The signing secret gates every session token, so a missing one is
	// a startup failure rather than a first-use surprise
	if v.GetString("jwt.secret") == "" {
		fmt.Println("WARNING: You haven't set a JWT secret. Here's a freshly generated one:\n\n" + genSecret() + "\n\nPaste it into your config.toml file or set it as the JWT_SECRET environment variable.")
		return errors.New("no JWT secret provided")
	}

	if v.GetDuration("jwt.lifetime") <= 0 {
		return errors.New("jwt.lifetime must be a positive duration")
	}

	if v.GetBool("mail.enabled") {
		if v.GetString("mail.host") == "" {
			return errors.New("mail host can't be empty")
		}

		if v.GetString("mail.sender") == "" {
			return errors.New("mail sender address can't be empty")
		}
	}

	if v.GetBool("storage.enabled") {
		if v.GetString("aws.access_key_id") == "" {
			return errors.New("access key id can't be empty")
		}
		if v.GetString("aws.secret_access_key") == "" {
			return errors.New("secret access key can't be empty")
		}
		if v.GetString("aws.bucket") == "" {
			return errors.New("bucket can't be empty")
		}
		if v.GetString("aws.public_url") == "" {
			return errors.New("public url can't be empty")
		}
	}

	if v.GetInt("upload.max_avatar_size") <= 0 {
		return errors.New("max avatar size must be bigger than 0")
	}

	if v.GetBool("turnstile.enabled") && v.GetString("turnstile.secret_token") == "" {
		return errors.New("turnstile secret token is missing")
	}

	if v.GetBool("cleanup.enabled") {
		if v.GetDuration("cleanup.interval") <= 0 {
			return errors.New("cleanup.interval must be a positive duration")
		}

		if v.GetDuration("cleanup.max_age") <= 0 {
			return errors.New("cleanup.max_age must be a positive duration")
		}
	}

	v.Set("upload.max_avatar_size", v.GetInt64("upload.max_avatar_size")<<20)
	return nil
}
