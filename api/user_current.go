package api

import (
	"net/http"

	"contactsapp/auth-api/internal/model"

	"github.com/gin-gonic/gin"
)

func (a *API) UserCurrent(c *gin.Context) {
	user := c.MustGet("authedUser").(*model.User)

	c.JSON(http.StatusOK, userView{
		Email:        user.Email,
		Subscription: user.Subscription,
	})
}
