package api

import (
	"errors"
	"net/http"

	"contactsapp/auth-api/internal/store"
	"contactsapp/auth-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userView is the only shape in which account data ever leaves the
// API. Hashes and tokens stay inside
type userView struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

func (a *API) UserSignup(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data credentialsBody
	if err := c.ShouldBind(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if err := validators.EmailValidator(data.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	if err := validators.PasswordValidator(data.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	_, err := a.Deps.Store.FindByEmail(c.Request.Context(), data.Email)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Email in use",
			"requestID": requestID,
		})
		return
	}

	if !errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if user is registered", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	user, err := a.Deps.Sessions.Signup(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to create user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": userView{
			Email:        user.Email,
			Subscription: user.Subscription,
		},
	})
}
