package api

import (
	"context"
	"net/http"
	"printdoc/document-api/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (a *API) DocumentDelete(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	adminID := c.MustGet("adminID").(string)

	fileID := c.Param("fileId")
	if fileID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "File ID is missing",
			"requestID": requestID,
		})
		return
	}

	// A path that names a different admin can't match anything this
	// session owns, which is indistinguishable from a missing file
	if c.Param("adminId") != adminID {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":     "File not found. It either doesn't exist or you don't own it",
			"requestID": requestID,
		})
		return
	}

	var doc model.Document

	err := a.DB.
		Where("admin_id = ? AND file_id = ?", adminID, fileID).
		First(&doc).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "File not found. It either doesn't exist or you don't own it",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to check if file exists", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	// Remote object goes first. If that fails the row stays, so a
	// retry can still find the document instead of leaving an orphaned
	// object behind
	err = a.Storage.Delete(context.TODO(), doc.FileID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Delete failed, please try again later",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete object from storage", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Where("admin_id = ? AND file_id = ?", adminID, fileID).
		Delete(model.Document{}).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete document row", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File deleted successfully",
		"fileId":  fileID,
	})
}
