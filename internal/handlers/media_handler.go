package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/storage"
	"sermonforge_backend/pkg/apperrors"
)

// MediaHandler accepts sermon media uploads and hands back the stored URL,
// which the client then attaches to a sermon.
type MediaHandler struct {
	*BaseHandler
	store storage.Storage
	cfg   *config.Config
}

func NewMediaHandler(base *BaseHandler, store storage.Storage, cfg *config.Config) *MediaHandler {
	return &MediaHandler{BaseHandler: base, store: store, cfg: cfg}
}

func (h *MediaHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/media", h.Upload)
}

// RegisterPublicRoutes serves locally stored files. Only wired when the
// storage backend is local; S3 and R2 serve their own URLs.
func (h *MediaHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/files/*path", h.Serve)
}

func (h *MediaHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing 'file' field"))
		return
	}

	if file.Size > h.cfg.Upload.MaxSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !h.allowedType(contentType) {
		apperrors.HandleError(c, apperrors.ErrInvalidFileType)
		return
	}

	src, err := file.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer src.Close()

	key := fmt.Sprintf("media/%s/%s/%s%s",
		userID,
		time.Now().Format("2006/01"),
		uuid.NewString(),
		filepath.Ext(file.Filename),
	)

	url, err := h.store.Upload(c.Request.Context(), key, src, file.Size, contentType)
	if err != nil {
		h.HandleServiceError(c, apperrors.UpstreamError(err, "storage"))
		return
	}

	logger.CtxInfo(c.Request.Context(), "Media uploaded",
		"key", key, "size", file.Size, "content_type", contentType)
	c.JSON(http.StatusCreated, gin.H{"url": url, "key": key})
}

func (h *MediaHandler) Serve(c *gin.Context) {
	key := c.Param("path")
	rc, err := h.store.Download(c.Request.Context(), key)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewNotFoundError("media", "File not found"))
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", rc, nil)
}

func (h *MediaHandler) allowedType(contentType string) bool {
	for _, t := range h.cfg.Upload.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
