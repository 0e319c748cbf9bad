package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/internal/storage"
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

// MediaStore is the slice of storage.S3Storage the upload endpoints use.
type MediaStore interface {
	URL(key string) string
	PresignUpload(ctx context.Context, filename, contentType, folder string) (*storage.PresignedUpload, error)
	Put(ctx context.Context, folder, filename, contentType string, body io.Reader, size int64) (string, error)
	Get(ctx context.Context, key string) (*storage.Object, error)
}

type UploadController struct {
	storage       MediaStore
	maxUploadSize int64
}

func NewUploadController(storage MediaStore, maxUploadSize int64) *UploadController {
	return &UploadController{
		storage:       storage,
		maxUploadSize: maxUploadSize,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// GeneratePresignedURL issues a presigned PUT for a recipe image
// POST /api/v1/upload/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	upload, err := ctrl.storage.PresignUpload(c.Request.Context(), req.Filename, req.ContentType, service.RecipeImageFolder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.InternalError(c, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"filename": req.Filename,
		"key":      upload.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": upload.UploadURL,
		"file_url":   upload.FileURL,
		"key":        upload.Key,
	})
}

// UploadImage stores a multipart "image" file and returns its storage key
// POST /api/v1/upload/image
func (ctrl *UploadController) UploadImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	file, err := c.FormFile("image")
	if err != nil {
		apperrors.RespondWithValidationError(c, map[string][]string{
			"image": {"An image file is required."},
		})
		return
	}

	if err := storage.ValidateFileSize(file.Size, ctrl.maxUploadSize); err != nil {
		log.Warn("Upload too large", map[string]interface{}{
			"size":     file.Size,
			"max_size": ctrl.maxUploadSize,
		})
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}

	contentType := file.Header.Get("Content-Type")
	if err := storage.ValidateContentType(contentType, allowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": contentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	body, err := file.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read uploaded file")
		return
	}
	defer body.Close()

	key, err := ctrl.storage.Put(c.Request.Context(), service.RecipeImageFolder, file.Filename, contentType, body, file.Size)
	if err != nil {
		log.Error("Failed to store uploaded file", err, map[string]interface{}{
			"filename": file.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to store uploaded file")
		return
	}

	log.Info("Image uploaded", map[string]interface{}{
		"key":  key,
		"size": file.Size,
	})
	c.JSON(http.StatusCreated, gin.H{
		"key": key,
		"url": ctrl.storage.URL(key),
	})
}

// ServeMedia streams a stored recipe image; other bucket keys read as missing
// GET /media/*key
func (ctrl *UploadController) ServeMedia(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	key := strings.TrimPrefix(c.Param("key"), "/")
	if !service.IsRecipeImageKey(key) {
		apperrors.NotFound(c, apperrors.MediaNotFound, "Media not found")
		return
	}

	object, err := ctrl.storage.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			apperrors.NotFound(c, apperrors.MediaNotFound, "Media not found")
			return
		}
		log.Error("Failed to read media", err, map[string]interface{}{
			"key": key,
		})
		apperrors.InternalError(c, "")
		return
	}
	defer object.Body.Close()

	contentType := object.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, object.ContentLength, contentType, object.Body, nil)
}
