package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) UserAvatar(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	userID := c.MustGet("userID").(string)

	if a.Deps.Avatars == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Avatar storage is not configured",
			"requestID": requestID,
		})
		return
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No avatar file provided",
			"requestID": requestID,
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Avatar must be an image",
			"requestID": requestID,
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to open uploaded avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}
	defer file.Close()

	url, err := a.Deps.Avatars.Upload(c.Request.Context(), userID, contentType, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to upload avatar", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"avatarURL": url,
	})
}
