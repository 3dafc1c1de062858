package api

import (
	"errors"
	"net/http"

	"contactsapp/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) UserVerify(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No verification token provided",
			"requestID": requestID,
		})
		return
	}

	if err := a.Deps.Sessions.VerifyEmail(c.Request.Context(), token); err != nil {
		// Consumed tokens are cleared on redemption, so a replay lands
		// here too
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "User not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to verify user", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification successful",
		"requestID": requestID,
	})
}
