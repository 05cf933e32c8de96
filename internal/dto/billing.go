package dto

import "time"

type CheckoutRequest struct {
	PlanID string `json:"plan_id" binding:"required,oneof=starter pro unlimited"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PortalResponse struct {
	URL string `json:"url"`
}

type SubscriptionResponse struct {
	PlanID             string     `json:"plan_id"`
	PlanName           string     `json:"plan_name"`
	Status             string     `json:"status"`
	SermonLimit        int        `json:"sermon_limit"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `json:"cancel_at_period_end"`
}

type UsageResponse struct {
	CurrentUsage   int        `json:"current_usage"`
	Limit          int        `json:"limit"`
	Remaining      int        `json:"remaining"`
	PercentUsed    int        `json:"percent_used"`
	Unlimited      bool       `json:"unlimited"`
	Allowed        bool       `json:"allowed"`
	PlanID         string     `json:"plan_id"`
	PlanName       string     `json:"plan_name"`
	Status         string     `json:"status"`
	Trialing       bool       `json:"trialing"`
	WarningMessage string     `json:"warning_message,omitempty"`
	PeriodStart    time.Time  `json:"period_start"`
	PeriodEnd      *time.Time `json:"period_end,omitempty"`
	DaysRemaining  int        `json:"days_remaining"`
}

type InvoiceResponse struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	PaidAt      time.Time `json:"paid_at"`
	PDFURL      string    `json:"pdf_url"`
}

type ProrationPreviewRequest struct {
	NewPlanID string `json:"new_plan_id" binding:"required,oneof=starter pro unlimited"`
}

type ProrationPreviewResponse struct {
	CurrentPlanID   string `json:"current_plan_id"`
	NewPlanID       string `json:"new_plan_id"`
	DaysRemaining   int    `json:"days_remaining"`
	CreditCents     int64  `json:"credit_cents"`
	ChargeCents     int64  `json:"charge_cents"`
	AmountDueCents  int64  `json:"amount_due_cents"`
	Description     string `json:"description"`
}

type TrialStatusResponse struct {
	Eligible    bool       `json:"eligible"`
	Active      bool       `json:"active"`
	TrialEnd    *time.Time `json:"trial_end,omitempty"`
	SermonLimit int        `json:"sermon_limit"`
}
