package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/malabro/eshop-backend/utils"
	"github.com/sirupsen/logrus"
)

const maxImageSize = 1 << 20 // 1MB

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type UploadHandler struct {
	Store utils.ImageStore
}

func NewUploadHandler(store utils.ImageStore) *UploadHandler {
	return &UploadHandler{Store: store}
}

// UploadImage handles POST /api/v1/admin/products/upload-image. The caller is
// already authenticated as admin; size and content type are checked here before
// the file is streamed to storage.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	// leave headroom for the multipart envelope
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageSize+64<<10)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("No file provided or file too large (Max 1MB)"))
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("File too large (Max 1MB)"))
		return
	}

	// Magic number check on the first 512 bytes
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to read file for validation"))
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Failed to read file"))
		return
	}

	contentType := http.DetectContentType(buffer[:n])
	ext, allowed := imageExtensions[contentType]
	if !allowed {
		c.JSON(http.StatusBadRequest, utils.ErrorResponse("Unsupported file type. Please upload JPG, PNG or WEBP"))
		return
	}

	safeFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	imageURL, err := h.Store.Upload(ctx, file, safeFilename)
	if errors.Is(err, utils.ErrImageStoreDisabled) {
		c.JSON(http.StatusServiceUnavailable, utils.ErrorResponse("Image storage is not configured"))
		return
	}
	if err != nil {
		logrus.WithError(err).Error("Image upload failed")
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Image upload failed"))
		return
	}

	c.JSON(http.StatusOK, utils.SuccessResponse("Image uploaded successfully", gin.H{
		"url":  imageURL,
		"size": header.Size,
		"type": contentType,
	}))
}
