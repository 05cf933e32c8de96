package main

import (
	"os"
	"os/signal"
	"syscall"

	"sermonforge_backend/internal/app"
	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/database"
	"sermonforge_backend/internal/jobs"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/storage"
)

// The worker process consumes transcription and generation tasks. It shares
// the service graph with the API server but serves no HTTP.
func main() {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err.Error())
	}

	store, err := storage.New(cfg)
	if err != nil {
		logger.Fatal("Failed to init storage", "error", err.Error())
	}

	dispatcher, err := jobs.NewAsynqDispatcher(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Failed to init job dispatcher", "error", err.Error())
	}
	defer dispatcher.Close()

	sc := app.BuildServices(db, cfg, store, dispatcher)

	worker, err := jobs.NewWorker(cfg.Redis.URL, sc.Sermons, 4)
	if err != nil {
		logger.Fatal("Failed to init worker", "error", err.Error())
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		logger.Info("Worker shutting down", "signal", sig.String())
		worker.Shutdown()
	}()

	logger.Info("Worker started", "queues", "default")
	if err := worker.Run(); err != nil {
		logger.Fatal("Worker exited with error", "error", err.Error())
	}
}
