package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
)

func newUsageService(db *gorm.DB) UsageService {
	return NewUsageService(
		repositories.NewSermonRepository(db),
		repositories.NewSubscriptionRepository(db),
	)
}

func TestUsageReportWithoutSubscription(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "new@example.com")

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.True(t, report.Allowed)
	assert.Equal(t, 0, report.CurrentUsage)
	assert.Equal(t, models.DefaultTrialSermonLimit, report.Limit)
	assert.False(t, report.Unlimited)
}

func TestUsageReportCountsEveryCreatedSermon(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "pastor@example.com")
	createActiveSubscription(t, db, user.ID, models.PlanStarter)

	createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	createTestSermon(t, db, user.ID, models.SermonStatusProcessing)
	// Drafts count too: quota is consumed at creation.
	createTestSermon(t, db, user.ID, models.SermonStatusDraft)

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, report.CurrentUsage)
	assert.Equal(t, 5, report.Limit)
	assert.Equal(t, 2, report.Remaining)
	assert.Equal(t, 60, report.PercentUsed)
	assert.True(t, report.Allowed)
	assert.Equal(t, "Starter", report.PlanName)
	assert.Equal(t, string(models.SubscriptionStatusActive), report.Status)
	assert.Equal(t, 19, report.DaysRemaining)
}

func TestUsageReportBlocksAtLimit(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "busy@example.com")
	createActiveSubscription(t, db, user.ID, models.PlanStarter)

	for i := 0; i < 5; i++ {
		createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	}

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.False(t, report.Allowed)
	assert.Equal(t, 0, report.Remaining)
	assert.Equal(t, 100, report.PercentUsed)
	assert.Contains(t, report.Warning, "reached your sermon limit")
}

func TestUsageReportPercentCapsAtHundred(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "over@example.com")
	createActiveSubscription(t, db, user.ID, models.PlanStarter)

	// Usage beyond the limit, e.g. after a downgrade mid-period.
	for i := 0; i < 8; i++ {
		createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	}

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 8, report.CurrentUsage)
	assert.Equal(t, 100, report.PercentUsed)
	assert.Equal(t, 0, report.Remaining)
	assert.False(t, report.Allowed)
}

func TestUsageReportWarningAtEightyPercent(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "warn@example.com")
	createActiveSubscription(t, db, user.ID, models.PlanStarter)

	for i := 0; i < 4; i++ {
		createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	}

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.True(t, report.Allowed)
	assert.Equal(t, 80, report.PercentUsed)
	assert.NotEmpty(t, report.Warning)
}

func TestUsageReportUnlimitedPlan(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "network@example.com")
	createActiveSubscription(t, db, user.ID, models.PlanUnlimited)

	for i := 0; i < 40; i++ {
		createTestSermon(t, db, user.ID, models.SermonStatusComplete)
	}

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.True(t, report.Unlimited)
	assert.True(t, report.Allowed)
}

func TestUsageReportTrialing(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "trial@example.com")

	now := time.Now()
	start := now.AddDate(0, 0, -2)
	trialEnd := now.AddDate(0, 0, 12)
	sub := &models.Subscription{
		UserID:             user.ID,
		PlanID:             models.PlanPro,
		Status:             models.SubscriptionStatusTrialing,
		HadTrial:           true,
		TrialEnd:           &trialEnd,
		TrialSermonLimit:   models.DefaultTrialSermonLimit,
		CurrentPeriodStart: &start,
	}
	require.NoError(t, db.Create(sub).Error)

	createTestSermon(t, db, user.ID, models.SermonStatusComplete)

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.True(t, report.Trialing)
	assert.Equal(t, models.DefaultTrialSermonLimit, report.Limit)
	assert.Equal(t, 1, report.CurrentUsage)
	assert.True(t, report.Allowed)
}

func TestUsageReportCanceledSubscription(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "gone@example.com")

	sub := &models.Subscription{
		UserID: user.ID,
		PlanID: models.PlanPro,
		Status: models.SubscriptionStatusCanceled,
	}
	require.NoError(t, db.Create(sub).Error)

	report, err := newUsageService(db).GetUsageReport(user.ID)
	require.NoError(t, err)

	assert.False(t, report.Allowed)
	assert.Equal(t, 0, report.Limit)
}
