package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/services"
	"sermonforge_backend/pkg/apperrors"
)

type BillingHandler struct {
	*BaseHandler
	billingService services.BillingService
	usageService   services.UsageService
}

func NewBillingHandler(base *BaseHandler, billingService services.BillingService, usageService services.UsageService) *BillingHandler {
	return &BillingHandler{
		BaseHandler:    base,
		billingService: billingService,
		usageService:   usageService,
	}
}

func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billing := rg.Group("/billing")
	{
		billing.GET("/plans", h.ListPlans)
		billing.GET("/subscription", h.GetSubscription)
		billing.GET("/usage", h.GetUsage)
		billing.POST("/checkout", h.CreateCheckout)
		billing.POST("/portal", h.CreatePortal)
		billing.GET("/invoices", h.ListInvoices)
		billing.POST("/proration-preview", h.PreviewProration)
		billing.POST("/trial", h.StartTrial)
		billing.GET("/trial", h.GetTrialStatus)
	}
}

// RegisterWebhookRoutes registers the unauthenticated Stripe callback.
func (h *BillingHandler) RegisterWebhookRoutes(rg *gin.RouterGroup) {
	rg.POST("/billing/webhook", h.Webhook)
}

func (h *BillingHandler) ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": models.Plans})
}

func (h *BillingHandler) GetSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.billingService.GetSubscription(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BillingHandler) GetUsage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	report, err := h.usageService.GetUsageReport(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UsageResponse{
		CurrentUsage:   report.CurrentUsage,
		Limit:          report.Limit,
		Remaining:      report.Remaining,
		PercentUsed:    report.PercentUsed,
		Unlimited:      report.Unlimited,
		Allowed:        report.Allowed,
		PlanID:         report.PlanID,
		PlanName:       report.PlanName,
		Status:         report.Status,
		Trialing:       report.Trialing,
		WarningMessage: report.Warning,
		PeriodStart:    report.PeriodStart,
		PeriodEnd:      report.PeriodEnd,
		DaysRemaining:  report.DaysRemaining,
	})
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	url, err := h.billingService.CreateCheckoutSession(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{URL: url})
}

func (h *BillingHandler) CreatePortal(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	url, err := h.billingService.CreatePortalSession(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PortalResponse{URL: url})
}

func (h *BillingHandler) ListInvoices(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	invoices, err := h.billingService.ListInvoices(c.Request.Context(), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices})
}

func (h *BillingHandler) PreviewProration(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ProrationPreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	preview, err := h.billingService.PreviewProration(userID, req.NewPlanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *BillingHandler) StartTrial(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.billingService.StartTrial(c.Request.Context(), userID, req.PlanID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *BillingHandler) GetTrialStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.billingService.GetTrialStatus(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Webhook handles Stripe event callbacks. Signature verification happens in
// the service; the raw body must be read unmodified.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Could not read webhook body"))
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.billingService.HandleWebhook(c.Request.Context(), payload, sig); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
