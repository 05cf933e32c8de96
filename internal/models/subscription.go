package models

import "time"

type Subscription struct {
	BaseModel
	UserID string `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	PlanID string             `gorm:"type:varchar(20);not null" json:"plan_id"`
	Status SubscriptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	StripeCustomerID     string `gorm:"index" json:"-"`
	StripeSubscriptionID string `gorm:"index" json:"-"`

	// Trial state. HadTrial stays true forever once a trial was started so a
	// user cannot trial twice.
	HadTrial         bool       `gorm:"default:false" json:"had_trial"`
	TrialEnd         *time.Time `json:"trial_end,omitempty"`
	TrialSermonLimit int        `gorm:"default:0" json:"trial_sermon_limit"`

	CurrentPeriodStart *time.Time `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool       `gorm:"default:false" json:"cancel_at_period_end"`
	CanceledAt         *time.Time `json:"canceled_at,omitempty"`
}

// IsTrialing reports whether the subscription is in an unexpired trial.
func (s *Subscription) IsTrialing() bool {
	return s.Status == SubscriptionStatusTrialing &&
		s.TrialEnd != nil && time.Now().Before(*s.TrialEnd)
}

// IsUsable reports whether the subscription grants access to processing.
// past_due keeps access until Stripe gives up and cancels.
func (s *Subscription) IsUsable() bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusPastDue:
		return true
	case SubscriptionStatusTrialing:
		return s.IsTrialing()
	}
	return false
}

// PeriodStart returns the start of the current usage window. Falls back to
// the calendar month when Stripe has not reported period bounds yet.
func (s *Subscription) PeriodStart(now time.Time) time.Time {
	if s.CurrentPeriodStart != nil {
		return *s.CurrentPeriodStart
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
