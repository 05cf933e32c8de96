package jobs

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
)

// Task types. The "sermon:" prefix namespaces the pipeline tasks.
const (
	TaskSermonTranscribe = "sermon:transcribe"
	TaskSermonGenerate   = "sermon:generate"
)

type TranscribePayload struct {
	SermonID string `json:"sermon_id"`
}

type GeneratePayload struct {
	SermonID     string               `json:"sermon_id"`
	ContentTypes []models.ContentType `json:"content_types"`
}

// Dispatcher enqueues pipeline work. Services depend on this interface so
// tests can swap in a fake.
type Dispatcher interface {
	EnqueueTranscribe(sermonID string) error
	EnqueueGenerate(sermonID string, types []models.ContentType) error
	// ForgetSermonTasks removes any finished or archived task still holding
	// the sermon's task IDs, so a retry or regeneration can enqueue again.
	ForgetSermonTasks(sermonID string) error
}

// AsynqDispatcher enqueues tasks onto Redis via asynq.
type AsynqDispatcher struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

func NewAsynqDispatcher(redisURL string) (*AsynqDispatcher, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}
	return &AsynqDispatcher{
		client:    asynq.NewClient(opt),
		inspector: asynq.NewInspector(opt),
	}, nil
}

func (d *AsynqDispatcher) Close() error {
	if err := d.inspector.Close(); err != nil {
		logger.Warn("Failed to close asynq inspector", "error", err.Error())
	}
	return d.client.Close()
}

func (d *AsynqDispatcher) ForgetSermonTasks(sermonID string) error {
	for _, id := range []string{"sermon:transcribe:" + sermonID, "sermon:generate:" + sermonID} {
		err := d.inspector.DeleteTask("default", id)
		if err != nil && !errors.Is(err, asynq.ErrTaskNotFound) && !errors.Is(err, asynq.ErrQueueNotFound) {
			return err
		}
	}
	return nil
}

// EnqueueTranscribe schedules transcription. The task ID makes re-triggering
// a sermon already in flight a no-op instead of a duplicate job.
func (d *AsynqDispatcher) EnqueueTranscribe(sermonID string) error {
	payload, err := json.Marshal(TranscribePayload{SermonID: sermonID})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskSermonTranscribe, payload)
	info, err := d.client.Enqueue(task,
		asynq.TaskID("sermon:transcribe:"+sermonID),
		asynq.MaxRetry(3),
		asynq.Timeout(45*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Info("Transcription already queued", "sermon_id", sermonID)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("Transcription enqueued", "sermon_id", sermonID, "task_id", info.ID, "queue", info.Queue)
	return nil
}

func (d *AsynqDispatcher) EnqueueGenerate(sermonID string, types []models.ContentType) error {
	payload, err := json.Marshal(GeneratePayload{SermonID: sermonID, ContentTypes: types})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TaskSermonGenerate, payload)
	info, err := d.client.Enqueue(task,
		asynq.TaskID("sermon:generate:"+sermonID),
		asynq.MaxRetry(3),
		asynq.Timeout(20*time.Minute),
		asynq.Retention(24*time.Hour),
	)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Info("Generation already queued", "sermon_id", sermonID)
		return nil
	}
	if err != nil {
		return err
	}

	logger.Info("Generation enqueued", "sermon_id", sermonID, "task_id", info.ID, "queue", info.Queue)
	return nil
}
