package api

import (
	"net/http"
	"printdoc/document-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (a *API) DocumentList(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	adminID := c.MustGet("adminID").(string)

	// The path segment exists for the frontend's routing. It still has
	// to agree with the session, otherwise any logged-in admin could
	// read someone else's inbox
	if c.Param("adminId") != adminID {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     "Forbidden",
			"requestID": requestID,
		})
		return
	}

	entries := []model.Document{}

	err := a.DB.
		Where("admin_id = ?", adminID).
		Find(&entries).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up documents", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, entries)
}
