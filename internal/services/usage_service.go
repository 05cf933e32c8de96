package services

import (
	"errors"
	"fmt"
	"time"

	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
)

// UsageReport is the single source of truth for "can this user create
// another sermon". Every gate and every usage endpoint goes through it.
type UsageReport struct {
	CurrentUsage  int
	Limit         int
	Remaining     int
	PercentUsed   int
	Unlimited     bool
	Allowed       bool
	PlanID        string
	PlanName      string
	Status        string
	Trialing      bool
	Warning       string
	PeriodStart   time.Time
	PeriodEnd     *time.Time
	DaysRemaining int
}

type UsageService interface {
	GetUsageReport(userID string) (*UsageReport, error)
}

type usageService struct {
	sermonRepo repositories.SermonRepository
	subRepo    repositories.SubscriptionRepository
}

func NewUsageService(sermonRepo repositories.SermonRepository, subRepo repositories.SubscriptionRepository) UsageService {
	return &usageService{sermonRepo: sermonRepo, subRepo: subRepo}
}

func (s *usageService) GetUsageReport(userID string) (*UsageReport, error) {
	now := time.Now()

	sub, err := s.subRepo.FindByUser(userID)
	if err != nil && !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, err
	}

	report := &UsageReport{}

	switch {
	case sub == nil:
		// No subscription yet: the trial allowance applies so new users can
		// try the product before checkout.
		report.PlanID = ""
		report.PlanName = "Trial"
		report.Status = "none"
		report.Limit = models.DefaultTrialSermonLimit
		report.PeriodStart = calendarMonthStart(now)

	case sub.IsTrialing():
		report.PlanID = sub.PlanID
		report.PlanName = "Trial"
		if plan, ok := models.PlanByID(sub.PlanID); ok {
			report.PlanName = plan.Name
		}
		report.Status = string(sub.Status)
		report.Trialing = true
		report.Limit = sub.TrialSermonLimit
		if report.Limit == 0 {
			report.Limit = models.DefaultTrialSermonLimit
		}
		report.PeriodStart = sub.PeriodStart(now)
		report.PeriodEnd = sub.TrialEnd

	case sub.IsUsable():
		plan, ok := models.PlanByID(sub.PlanID)
		if !ok {
			return nil, fmt.Errorf("subscription references unknown plan %q", sub.PlanID)
		}
		report.PlanID = sub.PlanID
		report.PlanName = plan.Name
		report.Status = string(sub.Status)
		report.Limit = plan.SermonLimit
		report.PeriodStart = sub.PeriodStart(now)
		report.PeriodEnd = sub.CurrentPeriodEnd

	default:
		// Canceled or expired: no creation allowance at all.
		report.PlanID = sub.PlanID
		if plan, ok := models.PlanByID(sub.PlanID); ok {
			report.PlanName = plan.Name
		}
		report.Status = string(sub.Status)
		report.Limit = 0
		report.PeriodStart = calendarMonthStart(now)
	}

	report.Unlimited = report.Limit == models.UnlimitedSermons

	count, err := s.sermonRepo.CountByUserSince(userID, report.PeriodStart)
	if err != nil {
		return nil, err
	}
	report.CurrentUsage = int(count)

	if report.PeriodEnd != nil {
		if d := int(time.Until(*report.PeriodEnd).Hours() / 24); d > 0 {
			report.DaysRemaining = d
		}
	}

	if report.Unlimited {
		report.Allowed = true
		report.Remaining = models.UnlimitedSermons
		return report, nil
	}

	report.Allowed = report.CurrentUsage < report.Limit
	report.Remaining = report.Limit - report.CurrentUsage
	if report.Remaining < 0 {
		report.Remaining = 0
	}

	report.PercentUsed = 100
	if report.Limit > 0 {
		report.PercentUsed = report.CurrentUsage * 100 / report.Limit
		if report.PercentUsed > 100 {
			report.PercentUsed = 100
		}
	}

	switch {
	case !report.Allowed:
		report.Warning = "You've reached your sermon limit for this billing period. Upgrade your plan to create more sermons."
	case report.PercentUsed >= 80:
		report.Warning = fmt.Sprintf(
			"You've used %d of %d sermons this billing period.",
			report.CurrentUsage, report.Limit)
	}

	return report, nil
}

func calendarMonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
