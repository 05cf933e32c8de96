package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/services"
	"sermonforge_backend/pkg/apperrors"
)

type ContentHandler struct {
	*BaseHandler
	contentService services.ContentService
}

func NewContentHandler(base *BaseHandler, contentService services.ContentService) *ContentHandler {
	return &ContentHandler{BaseHandler: base, contentService: contentService}
}

func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sermons/:id/content", h.List)
	rg.GET("/sermons/:id/content/:type", h.Get)
	rg.PUT("/sermons/:id/content/:type", h.Update)
}

func (h *ContentHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	contents, err := h.contentService.List(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contents": contents})
}

func (h *ContentHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	typeParam := c.Param("type")
	if !models.ValidContentType(typeParam) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown content type: "+typeParam))
		return
	}

	content, err := h.contentService.Get(c.Request.Context(), userID, c.Param("id"), models.ContentType(typeParam))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}

func (h *ContentHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	typeParam := c.Param("type")
	if !models.ValidContentType(typeParam) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown content type: "+typeParam))
		return
	}

	var req dto.UpdateContentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	content, err := h.contentService.Update(c.Request.Context(), userID, c.Param("id"),
		models.ContentType(typeParam), req.Content)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}
