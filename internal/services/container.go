package services

// ServiceContainer bundles every service for injection into handlers.
type ServiceContainer struct {
	Auth      AuthService
	Sermons   SermonService
	Content   ContentService
	Usage     UsageService
	Billing   BillingService
	Settings  SettingsService
	Analytics AnalyticsService
	Export    ExportService
}
