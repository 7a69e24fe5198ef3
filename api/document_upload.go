package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"printdoc/document-api/model"
	"printdoc/document-api/validators"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// A file that passed validation and is waiting for transfer
type pendingFile struct {
	fh   *multipart.FileHeader
	f    multipart.File
	mime string
}

// DocumentUpload accepts anonymous uploads for the admin named in the
// path. The session middleware is deliberately absent here, the upload
// PIN alone is the capability to deposit files for that admin.
func (a *API) DocumentUpload(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)
	adminID := c.Param("adminId")

	if !strings.HasPrefix(c.Request.Header.Get("Content-Type"), "multipart/form-data") {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request",
			"requestID": requestID,
		})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid multipart form",
			"requestID": requestID,
		})

		zap.L().Error("Failed to parse multipart form", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "No files provided",
			"requestID": requestID,
		})
		return
	}

	if maxBatch := viper.GetInt("upload.max_batch"); len(files) > maxBatch {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     fmt.Sprintf("At most %d files can be uploaded at once", maxBatch),
			"requestID": requestID,
		})
		return
	}

	uploadPin := c.PostForm("uploadPin")
	if uploadPin == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Upload PIN is required",
			"requestID": requestID,
		})
		return
	}

	uploaderEmail := c.PostForm("email")

	var admin model.Admin

	if err := a.DB.Where("id = ?", adminID).First(&admin).Error; err != nil {
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

	if subtle.ConstantTimeCompare([]byte(storedPin), []byte(uploadPin)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "Invalid upload PIN",
			"requestID": requestID,
		})
		return
	}

	// Validate the whole batch before moving a single byte. One bad
	// file rejects the request and nothing gets committed
	pending := make([]pendingFile, 0, len(files))

	closeAll := func() {
		for _, p := range pending {
			p.f.Close()
		}
	}

	for _, fh := range files {
		code, f, mime, err := validators.DocumentValidator(fh)
		if err != nil {
			closeAll()

			if code == http.StatusInternalServerError {
				zap.L().Error("Failed to validate file", zap.Error(err), zap.String("requestID", requestID))
				err = errors.New("internal server error")
			}

			c.AbortWithStatusJSON(code, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
			return
		}

		pending = append(pending, pendingFile{fh: fh, f: f, mime: mime})
	}
	defer closeAll()

	created := make([]model.Document, 0, len(pending))

	// An infrastructure failure halfway through the batch removes
	// whatever this request already committed. Callers retry the
	// whole batch
	rollback := func() {
		for _, d := range created {
			if err := a.Storage.Delete(context.Background(), d.FileID); err != nil {
				zap.L().Error("Failed to cleanup object after failed upload", zap.Error(err), zap.String("fileID", d.FileID))
				continue
			}

			err := a.DB.
				Where("admin_id = ? AND file_id = ?", adminID, d.FileID).
				Delete(model.Document{}).
				Error
			if err != nil {
				zap.L().Error("Failed to cleanup row after failed upload", zap.Error(err), zap.String("fileID", d.FileID))
			}
		}
	}

	for _, p := range pending {
		doc, err := a.storeDocument(c.Request.Context(), adminID, uploaderEmail, p)
		if err != nil {
			rollback()

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":     "Upload failed, please try again later",
				"requestID": requestID,
			})

			zap.L().Error("Failed to store document", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		created = append(created, *doc)
	}

	entries := make([]gin.H, 0, len(created))
	for _, d := range created {
		entries = append(entries, gin.H{
			"fileId":       d.FileID,
			"url":          d.FileURL,
			"type":         d.FileType,
			"originalName": d.OriginalName,
			"size":         d.FileSize,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Files uploaded successfully",
		"files":   entries,
	})
}

// storeDocument runs the two-phase transfer for one file: spool to a
// temporary file, push to object storage, then record the metadata row.
// The temporary file is removed on every path.
func (a *API) storeDocument(ctx context.Context, adminID, uploaderEmail string, p pendingFile) (*model.Document, error) {
	temp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file, %w", err)
	}
	defer os.Remove(temp.Name())
	defer temp.Close()

	size, err := io.Copy(temp, p.f)
	if err != nil {
		return nil, fmt.Errorf("failed to copy data to temporary file, %w", err)
	}

	if _, err := temp.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind temporary file, %w", err)
	}

	fileID, err := gonanoid.Generate(idCharset, 16)
	if err != nil {
		return nil, fmt.Errorf("failed to generate file ID, %w", err)
	}
	fileID += path.Ext(p.fh.Filename)

	url, err := a.Storage.Put(ctx, fileID, p.mime, temp, size)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to storage, %w", err)
	}

	doc := model.Document{
		AdminID:       adminID,
		FileID:        fileID,
		OriginalName:  p.fh.Filename,
		FileURL:       url,
		FileType:      p.mime,
		FileSize:      size,
		UploaderEmail: uploaderEmail,
		CreatedAt:     time.Now().Unix(),
	}

	if err := a.DB.Create(&doc).Error; err != nil {
		// Don't leave the object orphaned if the row never made it
		if derr := a.Storage.Delete(context.Background(), fileID); derr != nil {
			zap.L().Error("Failed to remove object after row insert failure", zap.Error(derr), zap.String("fileID", fileID))
		}

		return nil, fmt.Errorf("failed to save document row, %w", err)
	}

	return &doc, nil
}
