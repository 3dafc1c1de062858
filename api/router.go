// Package api contains all endpoints available
package api

import (
	"time"

	"contactsapp/auth-api/internal"
	"contactsapp/auth-api/pkg/middleware"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	Router *gin.Engine
	Deps   *internal.Deps
}

func NewRouter(d *internal.Deps) (*API, error) {
	a := &API{
		Deps: d,
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 5 << 20

	auth := middleware.NewAuthMiddleware(d.Sessions)
	turnstile := middleware.NewTurnstileMiddleware()
	maxAvatarSize := viper.GetInt64("upload.max_avatar_size")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat 		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// HEAD /api/validate		-> Validates a session token
		main.HEAD("/validate", auth, a.Validate)
	}

	users := main.Group("/users", middleware.BodySizeLimiter(1<<20))
	{
		// POST /api/users/signup 	-> Registers a new user
		users.POST("/signup", turnstile, a.UserSignup)

		// POST /api/users/login 	-> Logs in a user and returns a session token
		users.POST("/login", a.UserLogin)

		// GET /api/users/logout	-> Invalidates the current session token
		users.GET("/logout", auth, a.UserLogout)

		// GET /api/users/current	-> Returns the logged in user
		users.GET("/current", auth, a.UserCurrent)

		// GET /api/users/verify/:token	-> Redeems an email verification token
		users.GET("/verify/:token", a.UserVerify)

		// POST /api/users/verify	-> Re-sends the verification email
		users.POST("/verify", turnstile, a.UserResendVerification)
	}

	// PATCH /api/users/avatars		-> Uploads a new profile picture
	main.PATCH("/users/avatars", auth, middleware.BodySizeLimiter(maxAvatarSize), a.UserAvatar)

	return a, nil
}

// MakeLogger replaces the global zap logger with one configured from
// app.log_level
func MakeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
