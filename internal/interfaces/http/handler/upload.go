package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	mediaapp "github.com/TreasureUzoma/idolomerch/internal/application/media"
	"github.com/TreasureUzoma/idolomerch/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// ImageUploader stores product images
type ImageUploader interface {
	UploadImage(ctx context.Context, data []byte) (*mediaapp.UploadResult, error)
	MaxBytes() int64
}

// UploadHandler accepts admin media uploads
type UploadHandler struct {
	BaseHandler
	uploads ImageUploader
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploads ImageUploader) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// multipartOverhead leaves room for boundaries and part headers
const multipartOverhead = 64 << 10

// Upload godoc
// @Summary      Upload image
// @Description  Accepts a JPEG, PNG, WebP or GIF image in the "file" form field. The type is detected from the content.
// @Tags         admin-media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image"
// @Success      201 {object} APIResponse[mediaapp.UploadResult]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	limit := h.uploads.MaxBytes()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.HandleError(c, mediaapp.ErrFileTooLarge)
			return
		}
		h.HandleError(c, mediaapp.ErrEmptyFile)
		return
	}
	if fh.Size > limit {
		h.HandleError(c, mediaapp.ErrFileTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Unable to read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Unable to read uploaded file")
		return
	}

	result, err := h.uploads.UploadImage(c.Request.Context(), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
