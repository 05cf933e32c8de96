package services

import (
	"context"
	"time"

	"sermonforge_backend/internal/ai"
	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/jobs"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/internal/transcription"
	"sermonforge_backend/pkg/apperrors"
)

// SermonService owns the sermon lifecycle:
//
//	draft -> processing -> transcribing -> processing -> generating -> complete
//	                          (any in-flight stage) -> error -> draft (retry)
//
// Sermons with a sufficient transcript skip the transcribing stage.
type SermonService interface {
	CreateSermon(ctx context.Context, userID string, req *dto.CreateSermonRequest) (*models.Sermon, error)
	GetSermon(userID, sermonID string) (*models.Sermon, error)
	ListSermons(userID string, page, perPage int) ([]models.Sermon, int64, error)
	UpdateSermon(userID, sermonID string, req *dto.UpdateSermonRequest) (*models.Sermon, error)
	DeleteSermon(ctx context.Context, userID, sermonID string) error
	GetTranscript(userID, sermonID string) (string, error)

	TriggerProcessing(ctx context.Context, userID, sermonID string, contentTypes []models.ContentType) (*models.Sermon, error)
	RegenerateContent(ctx context.Context, userID, sermonID string, contentTypes []models.ContentType) (*models.Sermon, error)
	RetrySermon(ctx context.Context, userID, sermonID string) (*models.Sermon, error)

	// Worker entry points
	RunTranscription(ctx context.Context, sermonID string) error
	RunGeneration(ctx context.Context, sermonID string, types []models.ContentType) error
	MarkFailed(ctx context.Context, sermonID, reason string)
}

// Notifier is the slice of the email sender the pipeline uses.
type Notifier interface {
	SendSermonReady(to, sermonTitle string) error
	SendSermonFailed(to, sermonTitle, reason string) error
	SendUsageWarning(to string, used, limit int) error
}

type sermonService struct {
	sermonRepo  repositories.SermonRepository
	contentRepo repositories.ContentRepository
	userRepo    repositories.UserRepository
	metaRepo    repositories.MetadataRepository
	usage       UsageService
	dispatcher  jobs.Dispatcher
	transcriber transcription.Transcriber
	generator   ai.Generator
	analytics   AnalyticsService
	notifier    Notifier
}

func NewSermonService(
	sermonRepo repositories.SermonRepository,
	contentRepo repositories.ContentRepository,
	userRepo repositories.UserRepository,
	metaRepo repositories.MetadataRepository,
	usage UsageService,
	dispatcher jobs.Dispatcher,
	transcriber transcription.Transcriber,
	generator ai.Generator,
	analytics AnalyticsService,
	notifier Notifier,
) SermonService {
	return &sermonService{
		sermonRepo:  sermonRepo,
		contentRepo: contentRepo,
		userRepo:    userRepo,
		metaRepo:    metaRepo,
		usage:       usage,
		dispatcher:  dispatcher,
		transcriber: transcriber,
		generator:   generator,
		analytics:   analytics,
		notifier:    notifier,
	}
}

// CreateSermon checks the usage gate before anything is written: a user at
// their limit cannot create another sermon this billing period.
func (s *sermonService) CreateSermon(ctx context.Context, userID string, req *dto.CreateSermonRequest) (*models.Sermon, error) {
	report, err := s.usage.GetUsageReport(userID)
	if err != nil {
		return nil, err
	}
	if !report.Allowed {
		return nil, apperrors.ErrSermonLimit
	}

	sermon := &models.Sermon{
		UserID:        userID,
		Title:         req.Title,
		Speaker:       req.Speaker,
		ScriptureRefs: req.ScriptureRefs,
		InputType:     models.SermonInputType(req.InputType),
		Status:        models.SermonStatusDraft,
		MediaURL:      req.MediaURL,
		YouTubeURL:    req.YouTubeURL,
		DocumentURL:   req.DocumentURL,
		Transcript:    req.Transcript,
	}
	if req.SermonDate != "" {
		if d, err := time.Parse("2006-01-02", req.SermonDate); err == nil {
			sermon.SermonDate = &d
		}
	}

	if err := s.sermonRepo.Create(sermon); err != nil {
		return nil, err
	}

	s.analytics.Record(ctx, userID, models.EventSermonCreated, sermon.ID, map[string]any{
		"input_type": sermon.InputType,
	})

	// Re-read the report so the warning reflects the sermon just created.
	if updated, err := s.usage.GetUsageReport(userID); err == nil && updated.Warning != "" {
		logger.CtxInfo(ctx, "Usage warning threshold reached", "user_id", userID, "warning", updated.Warning)
		s.notifyUsageWarning(ctx, userID, updated)
	}

	logger.CtxInfo(ctx, "Sermon created", "sermon_id", sermon.ID, "input_type", sermon.InputType)
	return sermon, nil
}

func (s *sermonService) GetSermon(userID, sermonID string) (*models.Sermon, error) {
	return s.sermonRepo.FindByIDForUser(sermonID, userID)
}

func (s *sermonService) ListSermons(userID string, page, perPage int) ([]models.Sermon, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return s.sermonRepo.ListByUser(userID, page, perPage)
}

func (s *sermonService) UpdateSermon(userID, sermonID string, req *dto.UpdateSermonRequest) (*models.Sermon, error) {
	sermon, err := s.sermonRepo.FindByIDForUser(sermonID, userID)
	if err != nil {
		return nil, err
	}
	if sermon.IsProcessing() {
		return nil, apperrors.ErrInvalidStatus("sermon", "Sermon cannot be edited while it is processing")
	}

	if req.Title != nil {
		sermon.Title = *req.Title
	}
	if req.Speaker != nil {
		sermon.Speaker = *req.Speaker
	}
	if req.ScriptureRefs != nil {
		sermon.ScriptureRefs = *req.ScriptureRefs
	}
	if req.SermonDate != nil {
		if d, err := time.Parse("2006-01-02", *req.SermonDate); err == nil {
			sermon.SermonDate = &d
		}
	}
	if req.Transcript != nil {
		sermon.Transcript = *req.Transcript
	}

	if err := s.sermonRepo.Update(sermon); err != nil {
		return nil, err
	}
	return sermon, nil
}

func (s *sermonService) DeleteSermon(ctx context.Context, userID, sermonID string) error {
	sermon, err := s.sermonRepo.FindByIDForUser(sermonID, userID)
	if err != nil {
		return err
	}
	if sermon.IsProcessing() {
		return apperrors.ErrInvalidStatus("sermon", "Sermon cannot be deleted while it is processing")
	}

	if err := s.contentRepo.DeleteBySermon(sermonID); err != nil {
		return err
	}
	if err := s.sermonRepo.Delete(sermonID, userID); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Sermon deleted", "sermon_id", sermonID)
	return nil
}

func (s *sermonService) GetTranscript(userID, sermonID string) (string, error) {
	sermon, err := s.sermonRepo.FindByIDForUser(sermonID, userID)
	if err != nil {
		return "", err
	}
	return sermon.Transcript, nil
}

// TriggerProcessing moves a draft into the pipeline. No usage gate runs
// here: the sermon already consumed quota when it was created.
func (s *sermonService) TriggerProcessing(ctx context.Context, userID, sermonID string, contentTypes []models.ContentType) (*models.Sermon, error) {
	sermon, err := s.sermonRepo.FindByIDForUser(sermonID, userID)
	if err != nil {
		return nil, err
	}

	// Re-triggering an in-flight or finished sermon is a no-op so a double
	// click on the client never double-processes.
	if sermon.IsProcessing() || sermon.Status == models.SermonStatusComplete {
		return sermon, nil
	}
	if sermon.Status == models.SermonStatusError {
		return nil, apperrors.ErrInvalidStatus("sermon",
			"Sermon is in an error state. Retry it first to move it back to draft.")
	}

	if !sermon.HasMediaSource() && !sermon.HasSufficientTranscript() {
		return nil, apperrors.ErrInvalidOperation("sermon",
			"Sermon has no audio source and no transcript. Upload media or paste a transcript before processing.")
	}

	if len(contentTypes) == 0 {
		contentTypes = models.AllContentTypes
	}

	if sermon.HasSufficientTranscript() {
		// Transcript already present: skip straight to generation.
		if err := s.sermonRepo.UpdateStatus(sermon.ID, models.SermonStatusProcessing, "Preparing content generation"); err != nil {
			return nil, err
		}
		if err := s.dispatcher.EnqueueGenerate(sermon.ID, contentTypes); err != nil {
			s.MarkFailed(ctx, sermon.ID, "Could not queue content generation")
			return nil, apperrors.InternalError(err)
		}
	} else {
		if err := s.sermonRepo.UpdateStatus(sermon.ID, models.SermonStatusTranscribing, "Transcribing audio"); err != nil {
			return nil, err
		}
		if err := s.dispatcher.EnqueueTranscribe(sermon.ID); err != nil {
			s.MarkFailed(ctx, sermon.ID, "Could not queue transcription")
			return nil, apperrors.InternalError(err)
		}
	}

	return s.sermonRepo.FindByIDForUser(sermonID, userID)
}

// RegenerateContent re-runs the generation stage for a sermon that already
// has a transcript, typically to refresh a subset of content types after an
// edit. Regeneration does not consume quota; the sermon was already counted
// when it was created.
func (s *sermonService) RegenerateContent(ctx context.Context, userID, sermonID string, contentTypes []models.ContentType) (*models.Sermon, error) {
	sermon, err := s.sermonRepo.FindByIDForUser(sermonID, userID)
	if err != nil {
		return nil, err
	}

	if sermon.IsProcessing() {
		return sermon, nil
	}
	if !sermon.HasSufficientTranscript() {
		return nil, apperrors.ErrInvalidOperation("sermon",
			"Sermon has no transcript to regenerate content from. Process it first.")
	}

	if len(contentTypes) == 0 {
		contentTypes = models.AllContentTypes
	}

	// A finished task from the previous run can still hold the task ID.
	if err := s.dispatcher.ForgetSermonTasks(sermon.ID); err != nil {
		logger.CtxWarn(ctx, "Could not clear previous pipeline tasks", "sermon_id", sermonID, "error", err.Error())
	}

	if err := s.sermonRepo.UpdateStatus(sermon.ID, models.SermonStatusProcessing, "Regenerating content"); err != nil {
		return nil, err
	}
	if err := s.dispatcher.EnqueueGenerate(sermon.ID, contentTypes); err != nil {
		s.MarkFailed(ctx, sermon.ID, "Could not queue content generation")
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Content regeneration queued", "sermon_id", sermonID)
	return s.sermonRepo.FindByIDForUser(sermonID, userID)
}

// RetrySermon moves a failed sermon back to draft so the user can fix the
// input and trigger processing again.
func (s *sermonService) RetrySermon(ctx context.Context, userID, sermonID string) (*models.Sermon, error) {
	sermon, err := s.sermonRepo.FindByIDForUser(sermonID, userID)
	if err != nil {
		return nil, err
	}
	if sermon.Status != models.SermonStatusError {
		return nil, apperrors.ErrInvalidStatus("sermon", "Only failed sermons can be retried")
	}

	// The failed run's archived task still holds the task ID; clear it so the
	// next trigger can enqueue.
	if err := s.dispatcher.ForgetSermonTasks(sermonID); err != nil {
		logger.CtxWarn(ctx, "Could not clear previous pipeline tasks", "sermon_id", sermonID, "error", err.Error())
	}

	if err := s.sermonRepo.UpdateStatus(sermonID, models.SermonStatusDraft, ""); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Sermon reset for retry", "sermon_id", sermonID)
	return s.sermonRepo.FindByIDForUser(sermonID, userID)
}

// RunTranscription executes the transcribing stage inside a worker.
func (s *sermonService) RunTranscription(ctx context.Context, sermonID string) error {
	sermon, err := s.sermonRepo.FindByID(sermonID)
	if err != nil {
		return err
	}

	mediaURL := sermon.MediaURL
	if mediaURL == "" {
		mediaURL = sermon.YouTubeURL
	}
	if mediaURL == "" {
		mediaURL = sermon.DocumentURL
	}
	if mediaURL == "" {
		s.MarkFailed(ctx, sermonID, "Sermon has no media source to transcribe")
		return nil
	}

	result, err := s.transcriber.Transcribe(ctx, mediaURL)
	if err != nil {
		return err
	}
	if len(result.Text) < models.MinTranscriptLength {
		s.MarkFailed(ctx, sermonID, "Transcription produced too little text to generate content from")
		return nil
	}

	if err := s.sermonRepo.UpdateTranscript(sermonID, result.Text, result.TranscriptID, result.DurationSec); err != nil {
		return err
	}
	if err := s.sermonRepo.UpdateStatus(sermonID, models.SermonStatusProcessing, "Transcription complete"); err != nil {
		return err
	}

	return s.dispatcher.EnqueueGenerate(sermonID, models.AllContentTypes)
}

// RunGeneration executes the generating stage inside a worker. Each content
// type is generated and upserted independently; one bad type fails the run
// only after the others have been saved.
func (s *sermonService) RunGeneration(ctx context.Context, sermonID string, types []models.ContentType) error {
	sermon, err := s.sermonRepo.FindByID(sermonID)
	if err != nil {
		return err
	}
	if !sermon.HasSufficientTranscript() {
		s.MarkFailed(ctx, sermonID, "Sermon has no transcript to generate content from")
		return nil
	}

	if err := s.sermonRepo.UpdateStatus(sermonID, models.SermonStatusGenerating, "Generating content"); err != nil {
		return err
	}

	if len(types) == 0 {
		types = models.AllContentTypes
	}

	info := ai.SermonInfo{
		Title:         sermon.Title,
		Speaker:       sermon.Speaker,
		ScriptureRefs: sermon.ScriptureRefs,
		Transcript:    sermon.Transcript,
	}

	var firstErr error
	for _, ct := range types {
		payload, err := s.generator.Generate(ctx, info, ct)
		if err != nil {
			logger.CtxWithError(ctx, "Content generation failed", err,
				"sermon_id", sermonID, "content_type", ct)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if err := s.contentRepo.Upsert(&models.GeneratedContent{
			SermonID:    sermonID,
			ContentType: ct,
			Content:     []byte(payload),
		}); err != nil {
			logger.CtxWithError(ctx, "Content save failed", err,
				"sermon_id", sermonID, "content_type", ct)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		s.analytics.Record(ctx, sermon.UserID, models.EventContentGenerated, sermonID, map[string]any{
			"content_type": ct,
		})
	}

	if firstErr != nil {
		// Returning the error hands control to asynq's retry schedule. Types
		// that already saved will be upserted again harmlessly on retry.
		return firstErr
	}

	if err := s.sermonRepo.UpdateStatus(sermonID, models.SermonStatusComplete, ""); err != nil {
		return err
	}

	s.notifyReady(ctx, sermon)
	logger.CtxInfo(ctx, "Sermon pipeline complete", "sermon_id", sermonID)
	return nil
}

// MarkFailed moves a sermon to the error state. Used by workers after retry
// exhaustion and by dispatch failures.
func (s *sermonService) MarkFailed(ctx context.Context, sermonID, reason string) {
	if err := s.sermonRepo.UpdateStatus(sermonID, models.SermonStatusError, reason); err != nil {
		logger.CtxWithError(ctx, "Failed to mark sermon as failed", err, "sermon_id", sermonID)
		return
	}

	sermon, err := s.sermonRepo.FindByID(sermonID)
	if err != nil {
		return
	}
	s.notifyFailed(ctx, sermon, reason)
	logger.CtxWarn(ctx, "Sermon marked as failed", "sermon_id", sermonID, "reason", reason)
}

func (s *sermonService) notifyReady(ctx context.Context, sermon *models.Sermon) {
	meta, err := s.metaRepo.GetOrCreate(sermon.UserID)
	if err != nil || !meta.NotifySermonReady {
		return
	}
	user, err := s.userRepo.FindByID(sermon.UserID)
	if err != nil {
		return
	}
	if err := s.notifier.SendSermonReady(user.Email, sermon.Title); err != nil {
		logger.CtxWarn(ctx, "Failed to send ready notification", "error", err.Error())
	}
}

func (s *sermonService) notifyUsageWarning(ctx context.Context, userID string, report *UsageReport) {
	meta, err := s.metaRepo.GetOrCreate(userID)
	if err != nil || !meta.NotifyUsageWarning {
		return
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return
	}
	if err := s.notifier.SendUsageWarning(user.Email, report.CurrentUsage, report.Limit); err != nil {
		logger.CtxWarn(ctx, "Failed to send usage warning", "error", err.Error())
	}
}

func (s *sermonService) notifyFailed(ctx context.Context, sermon *models.Sermon, reason string) {
	meta, err := s.metaRepo.GetOrCreate(sermon.UserID)
	if err != nil || !meta.NotifySermonFailed {
		return
	}
	user, err := s.userRepo.FindByID(sermon.UserID)
	if err != nil {
		return
	}
	if err := s.notifier.SendSermonFailed(user.Email, sermon.Title, reason); err != nil {
		logger.CtxWarn(ctx, "Failed to send failure notification", "error", err.Error())
	}
}
