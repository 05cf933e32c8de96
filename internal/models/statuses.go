package models

type UserStatus string
type SermonStatus string
type SermonInputType string
type ContentType string
type SubscriptionStatus string
type AnalyticsEventType string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	SermonStatusDraft        SermonStatus = "draft"
	SermonStatusProcessing   SermonStatus = "processing"
	SermonStatusTranscribing SermonStatus = "transcribing"
	SermonStatusGenerating   SermonStatus = "generating"
	SermonStatusComplete     SermonStatus = "complete"
	SermonStatusError        SermonStatus = "error"

	InputTypeAudio     SermonInputType = "audio"
	InputTypeVideo     SermonInputType = "video"
	InputTypePDF       SermonInputType = "pdf"
	InputTypeYouTube   SermonInputType = "youtube"
	InputTypeTextPaste SermonInputType = "text_paste"

	ContentTypeSermonNotes     ContentType = "sermon_notes"
	ContentTypeDevotional      ContentType = "devotional"
	ContentTypeDiscussionGuide ContentType = "discussion_guide"
	ContentTypeSocialMedia     ContentType = "social_media"
	ContentTypeKidsVersion     ContentType = "kids_version"

	SubscriptionStatusIncomplete SubscriptionStatus = "incomplete"
	SubscriptionStatusTrialing   SubscriptionStatus = "trialing"
	SubscriptionStatusActive     SubscriptionStatus = "active"
	SubscriptionStatusPastDue    SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled   SubscriptionStatus = "canceled"

	EventSermonCreated    AnalyticsEventType = "sermon_created"
	EventContentGenerated AnalyticsEventType = "content_generated"
	EventContentExported  AnalyticsEventType = "content_exported"
	EventDevotionalViewed AnalyticsEventType = "devotional_viewed"
)

// AllContentTypes lists every derivative content type in generation order.
// Sermon notes come first: they are the primary type that completes a sermon.
var AllContentTypes = []ContentType{
	ContentTypeSermonNotes,
	ContentTypeDevotional,
	ContentTypeDiscussionGuide,
	ContentTypeSocialMedia,
	ContentTypeKidsVersion,
}

// ValidContentType reports whether s names a known content type.
func ValidContentType(s string) bool {
	for _, ct := range AllContentTypes {
		if string(ct) == s {
			return true
		}
	}
	return false
}

// ContentTypeLabel returns the human-readable name used in error messages
// and exported documents.
func ContentTypeLabel(ct ContentType) string {
	switch ct {
	case ContentTypeSermonNotes:
		return "Sermon notes"
	case ContentTypeDevotional:
		return "Devotional"
	case ContentTypeDiscussionGuide:
		return "Discussion guide"
	case ContentTypeSocialMedia:
		return "Social media posts"
	case ContentTypeKidsVersion:
		return "Kids' version"
	default:
		return string(ct)
	}
}
