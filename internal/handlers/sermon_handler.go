package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/services"
)

type SermonHandler struct {
	*BaseHandler
	sermonService services.SermonService
}

func NewSermonHandler(base *BaseHandler, sermonService services.SermonService) *SermonHandler {
	return &SermonHandler{BaseHandler: base, sermonService: sermonService}
}

func (h *SermonHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sermons := rg.Group("/sermons")
	{
		sermons.POST("", h.Create)
		sermons.GET("", h.List)
		sermons.GET("/:id", h.Get)
		sermons.PATCH("/:id", h.Update)
		sermons.DELETE("/:id", h.Delete)
		sermons.GET("/:id/transcript", h.GetTranscript)
		sermons.POST("/:id/process", h.TriggerProcessing)
		sermons.POST("/:id/generate", h.Regenerate)
		sermons.POST("/:id/retry", h.Retry)
	}
}

func (h *SermonHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSermonRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sermon, err := h.sermonService.CreateSermon(c.Request.Context(), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToSermonResponse(sermon))
}

func (h *SermonHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, perPage := ParsePagination(c)
	sermons, total, err := h.sermonService.ListSermons(userID, page, perPage)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	resp := dto.SermonListResponse{
		Sermons: make([]dto.SermonResponse, 0, len(sermons)),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	for i := range sermons {
		resp.Sermons = append(resp.Sermons, dto.ToSermonResponse(&sermons[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SermonHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	sermon, err := h.sermonService.GetSermon(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSermonResponse(sermon))
}

func (h *SermonHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSermonRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sermon, err := h.sermonService.UpdateSermon(userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSermonResponse(sermon))
}

func (h *SermonHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.sermonService.DeleteSermon(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Sermon deleted"})
}

func (h *SermonHandler) GetTranscript(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	transcript, err := h.sermonService.GetTranscript(userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transcript": transcript})
}

func (h *SermonHandler) TriggerProcessing(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	// The body is optional: an empty one requests all content types.
	var req dto.TriggerProcessingRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	types := make([]models.ContentType, 0, len(req.ContentTypes))
	for _, ct := range req.ContentTypes {
		types = append(types, models.ContentType(ct))
	}

	sermon, err := h.sermonService.TriggerProcessing(c.Request.Context(), userID, c.Param("id"), types)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.ToSermonResponse(sermon))
}

func (h *SermonHandler) Regenerate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.TriggerProcessingRequest
	if c.Request.ContentLength > 0 && !h.BindJSON(c, &req) {
		return
	}

	types := make([]models.ContentType, 0, len(req.ContentTypes))
	for _, ct := range req.ContentTypes {
		types = append(types, models.ContentType(ct))
	}

	sermon, err := h.sermonService.RegenerateContent(c.Request.Context(), userID, c.Param("id"), types)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, dto.ToSermonResponse(sermon))
}

func (h *SermonHandler) Retry(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	sermon, err := h.sermonService.RetrySermon(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToSermonResponse(sermon))
}
