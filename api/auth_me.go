package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthMe returns the verified claims of the current session. The upload
// PIN rides along so the dashboard can render the QR landing page
// without a second request.
func (a *API) AuthMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"admin": gin.H{
			"id":    c.MustGet("adminID").(string),
			"email": c.MustGet("adminEmail").(string),
			"name":  c.MustGet("adminName").(string),
		},
		"uploadPin": c.MustGet("uploadPin").(string),
	})
}
