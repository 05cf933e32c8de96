package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/services"
	"sermonforge_backend/pkg/apperrors"
)

type SettingsHandler struct {
	*BaseHandler
	settingsService services.SettingsService
}

func NewSettingsHandler(base *BaseHandler, settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, settingsService: settingsService}
}

func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/settings")
	{
		settings.GET("", h.Get)
		settings.PATCH("/profile", h.UpdateProfile)
		settings.POST("/profile/avatar", h.UploadAvatar)
		settings.PATCH("/branding", h.UpdateBranding)
		settings.POST("/branding/logo", h.UploadLogo)
		settings.PATCH("/notifications", h.UpdateNotifications)
		settings.PATCH("/onboarding", h.UpdateOnboarding)
		settings.PATCH("/account", h.UpdateAccount)
		settings.POST("/account/deletion-request", h.RequestDeletion)
		settings.POST("/account/export-request", h.RequestDataExport)
	}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.settingsService.Get(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.settingsService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) UpdateBranding(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateBrandingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.settingsService.UpdateBranding(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	h.uploadImage(c, "logo", "logo_url", h.settingsService.UploadLogo)
}

func (h *SettingsHandler) UploadAvatar(c *gin.Context) {
	h.uploadImage(c, "avatar", "avatar_url", h.settingsService.UploadAvatar)
}

// uploadImage handles a single-file multipart upload for logos and avatars.
func (h *SettingsHandler) uploadImage(c *gin.Context, field, responseKey string,
	upload func(ctx context.Context, userID string, reader io.Reader, size int64, contentType string) (string, error)) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	file, err := c.FormFile(field)
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing '"+field+"' file field"))
		return
	}

	// Images have a tighter cap than sermon media.
	const maxImageSize = 5 * 1024 * 1024
	if file.Size > maxImageSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}

	src, err := file.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}
	defer src.Close()

	url, err := upload(c.Request.Context(), userID, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{responseKey: url})
}

func (h *SettingsHandler) UpdateAccount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateAccountRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.settingsService.UpdateAccount(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) RequestDeletion(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.settingsService.RequestDeletion(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

func (h *SettingsHandler) RequestDataExport(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.settingsService.RequestDataExport(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, resp)
}

func (h *SettingsHandler) UpdateNotifications(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateNotificationsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.settingsService.UpdateNotifications(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SettingsHandler) UpdateOnboarding(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateOnboardingRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.settingsService.UpdateOnboarding(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
