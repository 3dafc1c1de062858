package middleware

import (
	"net/http"
	"strings"

	"contactsapp/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAuthMiddleware checks the Authorization header against the session
// service. It rejects tokens that were superseded by a newer login or
// cleared by logout, not just forged or expired ones. On success the
// resolved account lands in the context as authedUser
func NewAuthMiddleware(s *service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.MustGet("requestID").(string)

		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authorized",
				"requestID": requestID,
			})
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authorized",
				"requestID": requestID,
			})
			return
		}

		user, err := s.Authenticate(c.Request.Context(), token)
		if err != nil {
			if err != service.ErrNotAuthorized {
				zap.L().Error("Failed to authenticate request", zap.Error(err), zap.String("requestID", requestID))

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error":     "Internal server error",
					"requestID": requestID,
				})
				return
			}

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Not authorized",
				"requestID": requestID,
			})
			return
		}

		c.Set("userID", user.ID)
		c.Set("authedUser", user)
		c.Next()
	}
}
