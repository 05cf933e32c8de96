package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
)

// Pipeline is the part of the sermon service the worker drives. Defined here
// so the worker does not depend on the services package directly.
type Pipeline interface {
	RunTranscription(ctx context.Context, sermonID string) error
	RunGeneration(ctx context.Context, sermonID string, types []models.ContentType) error
	MarkFailed(ctx context.Context, sermonID, reason string)
}

// Worker consumes pipeline tasks from Redis.
type Worker struct {
	server   *asynq.Server
	pipeline Pipeline
}

func NewWorker(redisURL string, pipeline Pipeline, concurrency int) (*Worker, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{"default": 1},
		Logger:      &slogAdapter{l: logger.GetLogger()},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			logger.Error("Task failed",
				"type", task.Type(),
				"error", err.Error(),
				"retried", retried,
				"max_retry", maxRetry,
			)
		}),
	})

	return &Worker{server: server, pipeline: pipeline}, nil
}

// Run blocks serving tasks until Shutdown is called.
func (w *Worker) Run() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskSermonTranscribe, w.handleTranscribe)
	mux.HandleFunc(TaskSermonGenerate, w.handleGenerate)
	return w.server.Run(mux)
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

func (w *Worker) handleTranscribe(ctx context.Context, task *asynq.Task) error {
	var payload TranscribePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("bad transcribe payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.pipeline.RunTranscription(ctx, payload.SermonID); err != nil {
		if isRetryExhausted(ctx) {
			w.pipeline.MarkFailed(ctx, payload.SermonID, "Transcription failed after multiple attempts")
		}
		return err
	}
	return nil
}

func (w *Worker) handleGenerate(ctx context.Context, task *asynq.Task) error {
	var payload GeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("bad generate payload: %v: %w", err, asynq.SkipRetry)
	}

	if err := w.pipeline.RunGeneration(ctx, payload.SermonID, payload.ContentTypes); err != nil {
		if isRetryExhausted(ctx) {
			w.pipeline.MarkFailed(ctx, payload.SermonID, "Content generation failed after multiple attempts")
		}
		return err
	}
	return nil
}

// isRetryExhausted reports whether the current attempt is the last one.
func isRetryExhausted(ctx context.Context) bool {
	retried, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	return ok1 && ok2 && retried >= maxRetry
}

// slogAdapter bridges asynq's logger interface onto slog.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(args ...interface{}) { a.l.Debug(fmt.Sprint(args...)) }
func (a *slogAdapter) Info(args ...interface{})  { a.l.Info(fmt.Sprint(args...)) }
func (a *slogAdapter) Warn(args ...interface{})  { a.l.Warn(fmt.Sprint(args...)) }
func (a *slogAdapter) Error(args ...interface{}) { a.l.Error(fmt.Sprint(args...)) }
func (a *slogAdapter) Fatal(args ...interface{}) {
	a.l.Error(fmt.Sprint(args...))
}
