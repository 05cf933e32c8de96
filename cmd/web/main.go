package main

import (
	"sermonforge_backend/internal/app"
	"sermonforge_backend/internal/logger"
)

func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("Server exited with error", "error", err.Error())
	}
}
