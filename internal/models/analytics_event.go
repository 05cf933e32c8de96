package models

import "gorm.io/datatypes"

// AnalyticsEvent is an append-only usage event. Recording is best effort:
// a failed insert never fails the request that produced it.
type AnalyticsEvent struct {
	BaseModel
	UserID    string             `gorm:"type:uuid;not null;index" json:"user_id"`
	EventType AnalyticsEventType `gorm:"type:varchar(40);not null;index" json:"event_type"`
	SermonID  string             `gorm:"type:uuid;index" json:"sermon_id,omitempty"`
	Metadata  datatypes.JSON     `json:"metadata,omitempty"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics_events"
}
