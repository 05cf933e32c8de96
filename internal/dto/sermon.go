package dto

import (
	"encoding/json"
	"time"

	"sermonforge_backend/internal/models"
)

type CreateSermonRequest struct {
	Title         string `json:"title" binding:"required,max=200"`
	Speaker       string `json:"speaker" binding:"max=120"`
	ScriptureRefs string `json:"scripture_refs" binding:"max=300"`
	SermonDate    string `json:"sermon_date" binding:"omitempty,datetime=2006-01-02"`
	InputType     string `json:"input_type" binding:"required,is-input-type"`
	MediaURL      string `json:"media_url" binding:"omitempty,url"`
	YouTubeURL    string `json:"youtube_url" binding:"omitempty,url"`
	DocumentURL   string `json:"document_url" binding:"omitempty,url"`
	Transcript    string `json:"transcript"`
}

type UpdateSermonRequest struct {
	Title         *string `json:"title" binding:"omitempty,max=200"`
	Speaker       *string `json:"speaker" binding:"omitempty,max=120"`
	ScriptureRefs *string `json:"scripture_refs" binding:"omitempty,max=300"`
	SermonDate    *string `json:"sermon_date" binding:"omitempty,datetime=2006-01-02"`
	Transcript    *string `json:"transcript"`
}

type UpdateContentRequest struct {
	Content json.RawMessage `json:"content" binding:"required"`
}

type TriggerProcessingRequest struct {
	// ContentTypes limits generation to a subset. Empty means all types.
	ContentTypes []string `json:"content_types" binding:"omitempty,dive,is-content-type"`
}

type SermonResponse struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Speaker       string                 `json:"speaker,omitempty"`
	ScriptureRefs string                 `json:"scripture_refs,omitempty"`
	SermonDate    *time.Time             `json:"sermon_date,omitempty"`
	InputType     models.SermonInputType `json:"input_type"`
	Status        models.SermonStatus    `json:"status"`
	StatusMessage string                 `json:"status_message,omitempty"`
	MediaURL      string                 `json:"media_url,omitempty"`
	YouTubeURL    string                 `json:"youtube_url,omitempty"`
	DocumentURL   string                 `json:"document_url,omitempty"`
	HasTranscript bool                   `json:"has_transcript"`
	DurationSec   int                    `json:"duration_sec,omitempty"`
	ProcessedAt   *time.Time             `json:"processed_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToSermonResponse maps a model to its API shape. The transcript itself is
// served by a dedicated endpoint because it can be hundreds of kilobytes.
func ToSermonResponse(s *models.Sermon) SermonResponse {
	return SermonResponse{
		ID:            s.ID,
		Title:         s.Title,
		Speaker:       s.Speaker,
		ScriptureRefs: s.ScriptureRefs,
		SermonDate:    s.SermonDate,
		InputType:     s.InputType,
		Status:        s.Status,
		StatusMessage: s.StatusMessage,
		MediaURL:      s.MediaURL,
		YouTubeURL:    s.YouTubeURL,
		DocumentURL:   s.DocumentURL,
		HasTranscript: s.HasSufficientTranscript(),
		DurationSec:   s.DurationSec,
		ProcessedAt:   s.ProcessedAt,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

type SermonListResponse struct {
	Sermons []SermonResponse `json:"sermons"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
}
