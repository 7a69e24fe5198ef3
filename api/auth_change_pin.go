package api

import (
	"crypto/subtle"
	"net/http"
	"printdoc/document-api/model"
	"printdoc/document-api/validators"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type changePinBody struct {
	OldPin string `json:"oldPin"`
	NewPin string `json:"newPin"`
}

// ChangePin rotates the upload PIN of the logged-in admin. Proof of the
// current PIN is required even with a valid session, so a hijacked
// dashboard tab can't silently swap the PIN.
func (a *API) ChangePin(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	email := c.MustGet("adminEmail").(string)

	var data changePinBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if data.OldPin == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Old PIN field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if err := validators.PinValidator(data.NewPin); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}

	var admin model.Admin

	if err := a.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"error":     "Admin not found",
				"requestID": requestID,
			})
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to look up admin", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	storedPin, err := a.Pins.Decrypt(admin.UploadPin)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to decrypt stored PIN", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	if subtle.ConstantTimeCompare([]byte(storedPin), []byte(data.OldPin)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid PIN",
			"requestID": requestID,
		})
		return
	}

	encryptedPin, err := a.Pins.Encrypt(data.NewPin)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to encrypt new PIN", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	err = a.DB.
		Model(model.Admin{}).
		Where("id = ?", admin.ID).
		Update("upload_pin", encryptedPin).
		Error
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store new PIN", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "PIN changed successfully",
	})
}
