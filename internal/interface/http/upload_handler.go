package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anycompany/carmarket/internal/application"
	"github.com/anycompany/carmarket/pkg/apperror"
)

const uploadKind = "uploads"

type UploadHandler struct {
	Images *application.ImageStore
	Logger *logrus.Logger
}

func NewUploadHandler(images *application.ImageStore, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{Images: images, Logger: logger}
}

// Upload POST /upload (auth, multipart "file") answers {url}.
func (h *UploadHandler) Upload(c *gin.Context) {
	f, closeAll, err := formFile(c, "file")
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer closeAll()
	if f == nil {
		fail(c, h.Logger, apperror.Validation("file is required"))
		return
	}
	url, err := h.Images.Put(c.Request.Context(), uploadKind, f)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
