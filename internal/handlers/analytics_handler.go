package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/services"
)

type AnalyticsHandler struct {
	*BaseHandler
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(base *BaseHandler, analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{BaseHandler: base, analyticsService: analyticsService}
}

func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	analytics := rg.Group("/analytics")
	{
		analytics.POST("/events", h.RecordEvent)
		analytics.GET("/summary", h.Summary)
		analytics.GET("/export", h.ExportCSV)
	}
}

// RecordEvent accepts client-side events. Recording is best effort, so this
// always returns 202 once the request parses.
func (h *AnalyticsHandler) RecordEvent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RecordEventRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.analyticsService.Record(c.Request.Context(), userID,
		models.AnalyticsEventType(req.EventType), req.SermonID, req.Metadata)
	c.JSON(http.StatusAccepted, gin.H{"recorded": true})
}

func (h *AnalyticsHandler) Summary(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	days := ParseQueryInt(c, "days", 30)
	summary, err := h.analyticsService.Summary(userID, days)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AnalyticsSummaryResponse{
		SermonsCreated:   summary.SermonsCreated,
		ContentGenerated: summary.ContentGenerated,
		ContentExported:  summary.ContentExported,
		DevotionalViews:  summary.DevotionalViews,
		ByContentType:    summary.ByContentType,
		PeriodDays:       summary.PeriodDays,
	})
}

func (h *AnalyticsHandler) ExportCSV(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	from, to, err := ParseQueryDateRange(c, 90)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	data, err := h.analyticsService.ExportCSV(userID, from, to)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	filename := "analytics_" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
