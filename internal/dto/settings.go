package dto

import "time"

type UpdateProfileRequest struct {
	DisplayName      *string `json:"display_name" binding:"omitempty,max=120"`
	ChurchName       *string `json:"church_name" binding:"omitempty,max=200"`
	ChurchWebsite    *string `json:"church_website" binding:"omitempty,url"`
	Denomination     *string `json:"denomination" binding:"omitempty,max=120"`
	CongregationSize *string `json:"congregation_size" binding:"omitempty,max=40"`
	Role             *string `json:"role" binding:"omitempty,max=120"`
	Timezone         *string `json:"timezone" binding:"omitempty,max=64"`
}

type UpdateBrandingRequest struct {
	PrimaryColor   *string `json:"primary_color" binding:"omitempty,is-hex-color"`
	SecondaryColor *string `json:"secondary_color" binding:"omitempty,is-hex-color"`
	FontPreference *string `json:"font_preference" binding:"omitempty,is-font-preference"`
}

type UpdateNotificationsRequest struct {
	NotifySermonReady   *bool `json:"notify_sermon_ready"`
	NotifySermonFailed  *bool `json:"notify_sermon_failed"`
	NotifyUsageWarning  *bool `json:"notify_usage_warning"`
	NotifyBilling       *bool `json:"notify_billing"`
	NotifyProductUpdate *bool `json:"notify_product_update"`
}

type UpdateAccountRequest struct {
	TwoFactorEnabled *bool `json:"two_factor_enabled"`
}

type UpdateOnboardingRequest struct {
	Step      *int  `json:"step" binding:"omitempty,min=0,max=4"`
	Completed *bool `json:"completed"`
}

type SettingsResponse struct {
	DisplayName       string `json:"display_name"`
	ChurchName        string `json:"church_name"`
	ChurchWebsite     string `json:"church_website"`
	Denomination      string `json:"denomination"`
	CongregationSize  string `json:"congregation_size"`
	Role              string `json:"role"`
	ProfilePictureURL string `json:"profile_picture_url"`
	Timezone          string `json:"timezone"`

	LogoURL        string `json:"logo_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	FontPreference string `json:"font_preference"`

	NotifySermonReady   bool `json:"notify_sermon_ready"`
	NotifySermonFailed  bool `json:"notify_sermon_failed"`
	NotifyUsageWarning  bool `json:"notify_usage_warning"`
	NotifyBilling       bool `json:"notify_billing"`
	NotifyProductUpdate bool `json:"notify_product_update"`

	OnboardingStep      int        `json:"onboarding_step"`
	OnboardingCompleted bool       `json:"onboarding_completed"`
	OnboardingDoneAt    *time.Time `json:"onboarding_done_at,omitempty"`

	TwoFactorEnabled    bool       `json:"two_factor_enabled"`
	DeletionRequestedAt *time.Time `json:"deletion_requested_at,omitempty"`
	ExportRequestedAt   *time.Time `json:"export_requested_at,omitempty"`
}
