package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *API) Logout(c *gin.Context) {
	clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
