package api

import (
	"errors"
	"net/http"

	"contactsapp/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) UserLogout(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if err := a.Deps.Sessions.Logout(c.Request.Context(), userID); err != nil {
		// The account can vanish between the auth check and here
		if errors.Is(err, service.ErrNotAuthorized) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authorized",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to log out user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.Status(http.StatusNoContent)
}
