package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Validate only runs after the auth middleware, so reaching it means
// the presented token is the live one
func (a *API) Validate(c *gin.Context) {
	c.Status(http.StatusOK)
}
