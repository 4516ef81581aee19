package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/fyyur-backend/internal/errors"
	"github.com/ikkim/fyyur-backend/internal/middleware"
	"github.com/ikkim/fyyur-backend/internal/storage"
	"github.com/ikkim/fyyur-backend/internal/validation"
)

type UploadController struct {
	uploader storage.ImageUploader
}

// NewUploadController accepts a nil uploader when object storage is not
// configured; requests are then answered with 503.
func NewUploadController(uploader storage.ImageUploader) *UploadController {
	return &UploadController{
		uploader: uploader,
	}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" form:"filename" binding:"required"`
	ContentType string `json:"content_type" form:"content_type" binding:"required"`
	Folder      string `json:"folder" form:"folder" binding:"required"` // venues or artists
}

// GeneratePresignedURL issues a presigned PUT URL for a listing image.
// POST /uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.uploader == nil {
		log.Warn("Image upload requested but storage is not configured", nil)
		apperrors.ServiceUnavailable(c, apperrors.UploadUnavailable, "Image uploads are not available")
		return
	}

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, validation.FieldErrors(err))
		return
	}

	response, err := ctrl.uploader.PresignImageUpload(c.Request.Context(), req.Folder, req.Filename, req.ContentType)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrContentTypeNotAllowed):
			log.Warn("Invalid content type", map[string]interface{}{
				"content_type": req.ContentType,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		case errors.Is(err, storage.ErrFolderNotAllowed):
			log.Warn("Invalid upload folder", map[string]interface{}{
				"folder": req.Folder,
			})
			apperrors.BadRequest(c, apperrors.UploadInvalidFolder, err.Error())
		default:
			log.Error("Failed to generate presigned URL", err, map[string]interface{}{
				"filename":     req.Filename,
				"content_type": req.ContentType,
				"folder":       req.Folder,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate upload URL")
		}
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"folder": req.Folder,
		"key":    response.Key,
	})

	c.JSON(http.StatusOK, response)
}
