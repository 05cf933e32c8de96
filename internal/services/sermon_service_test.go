package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sermonforge_backend/internal/ai"
	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/internal/transcription"
	"sermonforge_backend/pkg/apperrors"
)

type fakeDispatcher struct {
	transcribes []string
	generates   []string
	forgotten   []string
}

func (d *fakeDispatcher) EnqueueTranscribe(sermonID string) error {
	d.transcribes = append(d.transcribes, sermonID)
	return nil
}

func (d *fakeDispatcher) EnqueueGenerate(sermonID string, types []models.ContentType) error {
	d.generates = append(d.generates, sermonID)
	return nil
}

func (d *fakeDispatcher) ForgetSermonTasks(sermonID string) error {
	d.forgotten = append(d.forgotten, sermonID)
	return nil
}

type stubTranscriber struct {
	text string
}

func (s *stubTranscriber) Transcribe(ctx context.Context, mediaURL string) (*transcription.Result, error) {
	return &transcription.Result{
		TranscriptID: "tr_123",
		Text:         s.text,
		DurationSec:  1800,
	}, nil
}

type stubGenerator struct {
	calls []models.ContentType
}

func (s *stubGenerator) Generate(ctx context.Context, info ai.SermonInfo, ct models.ContentType) (json.RawMessage, error) {
	s.calls = append(s.calls, ct)
	return json.RawMessage(`{"title":"Generated"}`), nil
}

type stubNotifier struct {
	ready    []string
	failed   []string
	warnings int
}

func (s *stubNotifier) SendSermonReady(to, title string) error {
	s.ready = append(s.ready, title)
	return nil
}

func (s *stubNotifier) SendSermonFailed(to, title, reason string) error {
	s.failed = append(s.failed, title)
	return nil
}

func (s *stubNotifier) SendUsageWarning(to string, used, limit int) error {
	s.warnings++
	return nil
}

type sermonTestEnv struct {
	svc        SermonService
	db         *gorm.DB
	dispatcher *fakeDispatcher
	generator  *stubGenerator
	notifier   *stubNotifier
}

func newSermonTestEnv(t *testing.T) *sermonTestEnv {
	db := setupTestDB(t)

	sermonRepo := repositories.NewSermonRepository(db)
	contentRepo := repositories.NewContentRepository(db)
	userRepo := repositories.NewUserRepository(db)
	metaRepo := repositories.NewMetadataRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	analyticsRepo := repositories.NewAnalyticsRepository(db)

	dispatcher := &fakeDispatcher{}
	generator := &stubGenerator{}
	notifier := &stubNotifier{}

	svc := NewSermonService(
		sermonRepo, contentRepo, userRepo, metaRepo,
		NewUsageService(sermonRepo, subRepo),
		dispatcher,
		&stubTranscriber{text: strings.Repeat("preach ", 50)},
		generator,
		NewAnalyticsService(analyticsRepo),
		notifier,
	)

	return &sermonTestEnv{svc: svc, db: db, dispatcher: dispatcher, generator: generator, notifier: notifier}
}

func TestTriggerProcessingRequiresSourceOrTranscript(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")

	sermon := &models.Sermon{
		UserID:    user.ID,
		Title:     "Empty Sermon",
		InputType: models.InputTypeTextPaste,
		Status:    models.SermonStatusDraft,
	}
	require.NoError(t, env.db.Create(sermon).Error)

	_, err := env.svc.TriggerProcessing(context.Background(), user.ID, sermon.ID, nil)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
	assert.Contains(t, appErr.Message, "no audio source and no transcript")
}

func TestTriggerProcessingWithTranscriptSkipsTranscribing(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")

	sermon := &models.Sermon{
		UserID:     user.ID,
		Title:      "Pasted Sermon",
		InputType:  models.InputTypeTextPaste,
		Status:     models.SermonStatusDraft,
		Transcript: strings.Repeat("word ", 30),
	}
	require.NoError(t, env.db.Create(sermon).Error)

	updated, err := env.svc.TriggerProcessing(context.Background(), user.ID, sermon.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SermonStatusProcessing, updated.Status)
	assert.Equal(t, []string{sermon.ID}, env.dispatcher.generates)
	assert.Empty(t, env.dispatcher.transcribes)
}

func TestTriggerProcessingWithMediaEnqueuesTranscription(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusDraft)

	updated, err := env.svc.TriggerProcessing(context.Background(), user.ID, sermon.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SermonStatusTranscribing, updated.Status)
	assert.Equal(t, []string{sermon.ID}, env.dispatcher.transcribes)
	assert.Empty(t, env.dispatcher.generates)
}

func TestTriggerProcessingIsIdempotentWhileInFlight(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusDraft)

	_, err := env.svc.TriggerProcessing(context.Background(), user.ID, sermon.ID, nil)
	require.NoError(t, err)

	// Second trigger returns the current state without enqueueing again.
	updated, err := env.svc.TriggerProcessing(context.Background(), user.ID, sermon.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, models.SermonStatusTranscribing, updated.Status)
	assert.Len(t, env.dispatcher.transcribes, 1)
}

func TestCreateSermonEnforcesSermonLimit(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	createActiveSubscription(t, env.db, user.ID, models.PlanStarter)

	for i := 0; i < 5; i++ {
		createTestSermon(t, env.db, user.ID, models.SermonStatusComplete)
	}

	_, err := env.svc.CreateSermon(context.Background(), user.ID, &dto.CreateSermonRequest{
		Title:     "One Too Many",
		InputType: string(models.InputTypeAudio),
		MediaURL:  "https://example.com/sermon.mp3",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrSermonLimit)

	var count int64
	require.NoError(t, env.db.Model(&models.Sermon{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(5), count)
}

func TestCreateSermonLimitCountsDrafts(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")

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
	require.NoError(t, env.db.Create(sub).Error)

	// Drafts consume quota at creation, so three drafts exhaust the trial.
	for i := 0; i < models.DefaultTrialSermonLimit; i++ {
		createTestSermon(t, env.db, user.ID, models.SermonStatusDraft)
	}

	_, err := env.svc.CreateSermon(context.Background(), user.ID, &dto.CreateSermonRequest{
		Title:     "Fourth Draft",
		InputType: string(models.InputTypeAudio),
		MediaURL:  "https://example.com/sermon.mp3",
	})
	assert.ErrorIs(t, err, apperrors.ErrSermonLimit)
}

func TestCreateSermonSendsUsageWarningNearLimit(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	createActiveSubscription(t, env.db, user.ID, models.PlanStarter)

	for i := 0; i < 3; i++ {
		createTestSermon(t, env.db, user.ID, models.SermonStatusComplete)
	}

	// The fourth sermon pushes usage to 80% of the Starter limit.
	_, err := env.svc.CreateSermon(context.Background(), user.ID, &dto.CreateSermonRequest{
		Title:     "Almost There",
		InputType: string(models.InputTypeAudio),
		MediaURL:  "https://example.com/sermon.mp3",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, env.notifier.warnings)
}

func TestTriggerProcessingAllowedAtLimit(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	createActiveSubscription(t, env.db, user.ID, models.PlanStarter)

	for i := 0; i < 4; i++ {
		createTestSermon(t, env.db, user.ID, models.SermonStatusComplete)
	}
	// The fifth sermon fills the quota, but it was already paid for at
	// creation so processing it still goes through.
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusDraft)

	updated, err := env.svc.TriggerProcessing(context.Background(), user.ID, sermon.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.SermonStatusTranscribing, updated.Status)
	assert.Equal(t, []string{sermon.ID}, env.dispatcher.transcribes)
}

func TestTriggerProcessingUnknownSermon(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")

	_, err := env.svc.TriggerProcessing(context.Background(), user.ID, "does-not-exist", nil)
	assert.ErrorIs(t, err, repositories.ErrSermonNotFound)
}

func TestTriggerProcessingOtherUsersSermonIsNotFound(t *testing.T) {
	env := newSermonTestEnv(t)
	owner := createTestUser(t, env.db, "owner@example.com")
	intruder := createTestUser(t, env.db, "intruder@example.com")
	sermon := createTestSermon(t, env.db, owner.ID, models.SermonStatusDraft)

	_, err := env.svc.TriggerProcessing(context.Background(), intruder.ID, sermon.ID, nil)
	assert.ErrorIs(t, err, repositories.ErrSermonNotFound)
}

func TestRetrySermonResetsErrorToDraft(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusError)

	updated, err := env.svc.RetrySermon(context.Background(), user.ID, sermon.ID)
	require.NoError(t, err)

	assert.Equal(t, models.SermonStatusDraft, updated.Status)
	assert.Empty(t, updated.StatusMessage)
	assert.Equal(t, []string{sermon.ID}, env.dispatcher.forgotten)
}

func TestRegenerateContentQueuesGeneration(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")

	sermon := &models.Sermon{
		UserID:     user.ID,
		Title:      "Living Water",
		InputType:  models.InputTypeAudio,
		Status:     models.SermonStatusComplete,
		Transcript: strings.Repeat("water ", 40),
	}
	require.NoError(t, env.db.Create(sermon).Error)

	updated, err := env.svc.RegenerateContent(context.Background(), user.ID, sermon.ID,
		[]models.ContentType{models.ContentTypeDevotional})
	require.NoError(t, err)

	assert.Equal(t, models.SermonStatusProcessing, updated.Status)
	assert.Equal(t, []string{sermon.ID}, env.dispatcher.generates)
	assert.Equal(t, []string{sermon.ID}, env.dispatcher.forgotten)
}

func TestRegenerateContentRequiresTranscript(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusComplete)

	_, err := env.svc.RegenerateContent(context.Background(), user.ID, sermon.ID, nil)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestRetrySermonRejectsNonErrorStates(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusComplete)

	_, err := env.svc.RetrySermon(context.Background(), user.ID, sermon.ID)
	require.Error(t, err)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.HTTPCode)
}

func TestRunGenerationCompletesSermon(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")

	sermon := &models.Sermon{
		UserID:     user.ID,
		Title:      "Faith Like a Mustard Seed",
		InputType:  models.InputTypeAudio,
		Status:     models.SermonStatusProcessing,
		Transcript: strings.Repeat("faith ", 40),
	}
	require.NoError(t, env.db.Create(sermon).Error)

	err := env.svc.RunGeneration(context.Background(), sermon.ID, models.AllContentTypes)
	require.NoError(t, err)

	var reloaded models.Sermon
	require.NoError(t, env.db.First(&reloaded, "id = ?", sermon.ID).Error)
	assert.Equal(t, models.SermonStatusComplete, reloaded.Status)
	assert.NotNil(t, reloaded.ProcessedAt)

	var count int64
	require.NoError(t, env.db.Model(&models.GeneratedContent{}).
		Where("sermon_id = ?", sermon.ID).Count(&count).Error)
	assert.Equal(t, int64(len(models.AllContentTypes)), count)

	assert.Equal(t, []string{"Faith Like a Mustard Seed"}, env.notifier.ready)
}

func TestRunGenerationWithoutTranscriptFails(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")

	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusProcessing)

	err := env.svc.RunGeneration(context.Background(), sermon.ID, nil)
	require.NoError(t, err)

	var reloaded models.Sermon
	require.NoError(t, env.db.First(&reloaded, "id = ?", sermon.ID).Error)
	assert.Equal(t, models.SermonStatusError, reloaded.Status)
	assert.Len(t, env.notifier.failed, 1)
}

func TestRunTranscriptionStoresTranscriptAndChains(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusTranscribing)

	err := env.svc.RunTranscription(context.Background(), sermon.ID)
	require.NoError(t, err)

	var reloaded models.Sermon
	require.NoError(t, env.db.First(&reloaded, "id = ?", sermon.ID).Error)
	assert.Equal(t, models.SermonStatusProcessing, reloaded.Status)
	assert.Equal(t, "tr_123", reloaded.TranscriptID)
	assert.GreaterOrEqual(t, len(reloaded.Transcript), models.MinTranscriptLength)
	assert.Equal(t, []string{sermon.ID}, env.dispatcher.generates)
}

func TestDeleteSermonRemovesContent(t *testing.T) {
	env := newSermonTestEnv(t)
	user := createTestUser(t, env.db, "p@example.com")
	sermon := createTestSermon(t, env.db, user.ID, models.SermonStatusComplete)

	require.NoError(t, env.db.Create(&models.GeneratedContent{
		SermonID:    sermon.ID,
		ContentType: models.ContentTypeSermonNotes,
		Content:     []byte(`{"title":"x"}`),
	}).Error)

	require.NoError(t, env.svc.DeleteSermon(context.Background(), user.ID, sermon.ID))

	var count int64
	require.NoError(t, env.db.Model(&models.GeneratedContent{}).
		Where("sermon_id = ?", sermon.ID).Count(&count).Error)
	assert.Zero(t, count)
}
