package models

import "time"

// MinTranscriptLength is the shortest transcript that can drive content
// generation. Anything shorter is treated as no transcript.
const MinTranscriptLength = 100

type Sermon struct {
	BaseModel
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Title          string          `gorm:"not null" json:"title"`
	Speaker        string          `json:"speaker"`
	ScriptureRefs  string          `json:"scripture_refs"`
	SermonDate     *time.Time      `json:"sermon_date,omitempty"`
	InputType      SermonInputType `gorm:"type:varchar(20);not null" json:"input_type"`
	Status         SermonStatus    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	StatusMessage  string          `json:"status_message"`

	// Exactly one source is set depending on InputType.
	MediaURL    string `json:"media_url"`
	YouTubeURL  string `json:"youtube_url"`
	DocumentURL string `json:"document_url"`

	Transcript   string     `gorm:"type:text" json:"transcript"`
	TranscriptID string     `json:"transcript_id"` // upstream provider id
	DurationSec  int        `json:"duration_sec"`
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`

	Contents []GeneratedContent `gorm:"foreignKey:SermonID" json:"contents,omitempty"`
}

// HasSufficientTranscript reports whether the sermon already carries enough
// transcript text to skip the transcription stage.
func (s *Sermon) HasSufficientTranscript() bool {
	return len(s.Transcript) >= MinTranscriptLength
}

// HasMediaSource reports whether the sermon has any source that can be
// transcribed or extracted.
func (s *Sermon) HasMediaSource() bool {
	return s.MediaURL != "" || s.YouTubeURL != "" || s.DocumentURL != ""
}

// IsProcessing reports whether the sermon is in any in-flight pipeline state.
func (s *Sermon) IsProcessing() bool {
	switch s.Status {
	case SermonStatusProcessing, SermonStatusTranscribing, SermonStatusGenerating:
		return true
	}
	return false
}
