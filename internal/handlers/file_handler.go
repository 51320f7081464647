package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"hiring_backend/internal/logger"
	"hiring_backend/internal/storage"
	"hiring_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FileHandler отдает загруженные фото и резюме по имени файла
type FileHandler struct {
	*BaseHandler
	storage storage.Storage
}

func NewFileHandler(base *BaseHandler, storage storage.Storage) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     storage,
	}
}

// RegisterRoutes вешается на корень роутера: /uploads/:filename
func (h *FileHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/uploads/:filename", h.ServeFile)
	r.HEAD("/uploads/:filename", h.ServeFile)
}

func (h *FileHandler) ServeFile(c *gin.Context) {
	key, err := storage.CleanKey(c.Param("filename"))
	if err != nil {
		apperrors.HandleError(c, apperrors.ErrFileNotFound)
		return
	}

	obj, err := h.storage.Open(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			apperrors.HandleError(c, apperrors.ErrFileNotFound)
			return
		}
		h.HandleServiceError(c, err)
		return
	}
	defer obj.Body.Close()

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	if obj.Size > 0 {
		c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	c.Header("Cache-Control", "public, max-age=86400")
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, key))
	} else {
		c.Header("Content-Disposition", "inline")
	}
	c.Status(http.StatusOK)

	if c.Request.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(c.Writer, obj.Body); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to stream file", err, "key", key)
	}
}
