package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/services"
	"sermonforge_backend/pkg/apperrors"
)

type ExportHandler struct {
	*BaseHandler
	exportService services.ExportService
}

func NewExportHandler(base *BaseHandler, exportService services.ExportService) *ExportHandler {
	return &ExportHandler{BaseHandler: base, exportService: exportService}
}

func (h *ExportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sermons/:id/content/:type/export", h.Export)
}

// Export streams the requested content type in the requested format.
// Format comes from the ?format= query param and defaults to pdf.
func (h *ExportHandler) Export(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	typeParam := c.Param("type")
	if !models.ValidContentType(typeParam) {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Unknown content type: "+typeParam))
		return
	}

	format := services.ExportFormat(c.DefaultQuery("format", "pdf"))

	result, err := h.exportService.Export(c.Request.Context(), userID, c.Param("id"),
		models.ContentType(typeParam), format)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
