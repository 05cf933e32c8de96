package handlers

import (
	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/services"
	"sermonforge_backend/internal/storage"
)

// AppHandlers bundles every HTTP handler for route registration.
type AppHandlers struct {
	Auth      *AuthHandler
	Sermons   *SermonHandler
	Content   *ContentHandler
	Export    *ExportHandler
	Billing   *BillingHandler
	Settings  *SettingsHandler
	Analytics *AnalyticsHandler
	Media     *MediaHandler
}

func NewAppHandlers(sc *services.ServiceContainer, store storage.Storage, cfg *config.Config) *AppHandlers {
	base := NewBaseHandler()
	return &AppHandlers{
		Auth:      NewAuthHandler(base, sc.Auth),
		Sermons:   NewSermonHandler(base, sc.Sermons),
		Content:   NewContentHandler(base, sc.Content),
		Export:    NewExportHandler(base, sc.Export),
		Billing:   NewBillingHandler(base, sc.Billing, sc.Usage),
		Settings:  NewSettingsHandler(base, sc.Settings),
		Analytics: NewAnalyticsHandler(base, sc.Analytics),
		Media:     NewMediaHandler(base, store, cfg),
	}
}
