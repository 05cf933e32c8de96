package dto

type RecordEventRequest struct {
	EventType string         `json:"event_type" binding:"required,max=40"`
	SermonID  string         `json:"sermon_id" binding:"omitempty,uuid"`
	Metadata  map[string]any `json:"metadata"`
}

type AnalyticsSummaryResponse struct {
	SermonsCreated   int64            `json:"sermons_created"`
	ContentGenerated int64            `json:"content_generated"`
	ContentExported  int64            `json:"content_exported"`
	DevotionalViews  int64            `json:"devotional_views"`
	ByContentType    map[string]int64 `json:"by_content_type"`
	PeriodDays       int              `json:"period_days"`
}
