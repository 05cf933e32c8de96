package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"sermonforge_backend/internal/logger"
)

// Init registers custom validation rules with gin's binding validator.
// Called once at startup.
func Init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		logger.Fatal("Failed to get validator engine")
		return
	}

	registerRules(v)
	logger.Info("Custom validation rules registered")
}
