package models

import "time"

// UserMetadata holds per-user profile, branding and preference data.
// One row per user, created lazily on first access.
type UserMetadata struct {
	BaseModel
	UserID string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	// Profile
	DisplayName       string `json:"display_name"`
	ChurchName        string `json:"church_name"`
	ChurchWebsite     string `json:"church_website"`
	Denomination      string `json:"denomination"`
	CongregationSize  string `json:"congregation_size"`
	Role              string `json:"role"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Timezone          string `json:"timezone"`

	// Branding applied to exported documents
	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `gorm:"default:'#1F2937'" json:"primary_color"`
	SecondaryColor string `gorm:"default:'#6B7280'" json:"secondary_color"`
	FontPreference string `gorm:"default:'serif'" json:"font_preference"`

	// Notification preferences
	NotifySermonReady   bool `gorm:"default:true" json:"notify_sermon_ready"`
	NotifySermonFailed  bool `gorm:"default:true" json:"notify_sermon_failed"`
	NotifyUsageWarning  bool `gorm:"default:true" json:"notify_usage_warning"`
	NotifyBilling       bool `gorm:"default:true" json:"notify_billing"`
	NotifyProductUpdate bool `gorm:"default:false" json:"notify_product_update"`

	// Onboarding progress, steps 0 through 4
	OnboardingStep      int        `gorm:"default:0" json:"onboarding_step"`
	OnboardingCompleted bool       `gorm:"default:false" json:"onboarding_completed"`
	OnboardingDoneAt    *time.Time `json:"onboarding_done_at,omitempty"`

	// Account lifecycle
	TwoFactorEnabled    bool       `gorm:"default:false" json:"two_factor_enabled"`
	DeletionRequestedAt *time.Time `json:"deletion_requested_at,omitempty"`
	ExportRequestedAt   *time.Time `json:"export_requested_at,omitempty"`
}

// OnboardingStepCount is the number of steps in the onboarding flow.
const OnboardingStepCount = 4
