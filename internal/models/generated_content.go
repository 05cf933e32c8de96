package models

import "gorm.io/datatypes"

// GeneratedContent stores one AI-generated derivative of a sermon.
// The (sermon_id, content_type) pair is unique: regeneration updates the
// existing row in place instead of inserting a second one.
type GeneratedContent struct {
	BaseModel
	SermonID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_content_sermon_type" json:"sermon_id"`
	ContentType ContentType    `gorm:"type:varchar(30);not null;uniqueIndex:idx_content_sermon_type" json:"content_type"`
	Content     datatypes.JSON `gorm:"not null" json:"content"`
}
