package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	stripe "github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/invoice"
	"github.com/stripe/stripe-go/v79/webhook"

	"sermonforge_backend/internal/config"
	"sermonforge_backend/internal/dto"
	"sermonforge_backend/internal/logger"
	"sermonforge_backend/internal/models"
	"sermonforge_backend/internal/repositories"
	"sermonforge_backend/pkg/apperrors"
)

type BillingService interface {
	CreateCheckoutSession(ctx context.Context, userID, planID string) (string, error)
	CreatePortalSession(ctx context.Context, userID string) (string, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	GetSubscription(userID string) (*dto.SubscriptionResponse, error)
	ListInvoices(ctx context.Context, userID string) ([]dto.InvoiceResponse, error)
	PreviewProration(userID, newPlanID string) (*dto.ProrationPreviewResponse, error)
	StartTrial(ctx context.Context, userID, planID string) (*dto.SubscriptionResponse, error)
	GetTrialStatus(userID string) (*dto.TrialStatusResponse, error)
}

type billingService struct {
	subRepo  repositories.SubscriptionRepository
	userRepo repositories.UserRepository
	cfg      *config.Config
}

func NewBillingService(subRepo repositories.SubscriptionRepository, userRepo repositories.UserRepository, cfg *config.Config) BillingService {
	stripe.Key = cfg.Stripe.SecretKey
	return &billingService{subRepo: subRepo, userRepo: userRepo, cfg: cfg}
}

// ensureCustomer returns the Stripe customer ID for the user, creating both
// the customer and a local subscription shell on first contact.
func (s *billingService) ensureCustomer(userID string) (string, *models.Subscription, error) {
	sub, err := s.subRepo.FindByUser(userID)
	if err != nil && !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return "", nil, err
	}
	if sub != nil && sub.StripeCustomerID != "" {
		return sub.StripeCustomerID, sub, nil
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return "", nil, err
	}

	cust, err := customer.New(&stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Params: stripe.Params{
			Metadata: map[string]string{"user_id": userID},
		},
	})
	if err != nil {
		return "", nil, apperrors.UpstreamError(err, "stripe")
	}

	if sub == nil {
		sub = &models.Subscription{
			UserID: userID,
			Status: models.SubscriptionStatusIncomplete,
		}
		sub.StripeCustomerID = cust.ID
		if err := s.subRepo.Create(sub); err != nil {
			return "", nil, err
		}
	} else {
		sub.StripeCustomerID = cust.ID
		if err := s.subRepo.Update(sub); err != nil {
			return "", nil, err
		}
	}
	return cust.ID, sub, nil
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, userID, planID string) (string, error) {
	if _, ok := models.PlanByID(planID); !ok {
		return "", apperrors.NewBadRequestError("Unknown plan: " + planID)
	}
	priceID, ok := s.cfg.Stripe.PriceIDs[planID]
	if !ok {
		return "", apperrors.InternalError(fmt.Errorf("no Stripe price configured for plan %s", planID))
	}

	customerID, sub, err := s.ensureCustomer(userID)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Customer:   stripe.String(customerID),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(s.cfg.Stripe.SuccessURL),
		CancelURL:  stripe.String(s.cfg.Stripe.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{"user_id": userID, "plan_id": planID},
		},
	}
	// First-time subscribers get the trial through Stripe so the trial and
	// the paid period share one subscription object.
	if !sub.HadTrial {
		params.SubscriptionData.TrialPeriodDays = stripe.Int64(models.TrialDays)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return "", apperrors.UpstreamError(err, "stripe")
	}

	logger.CtxInfo(ctx, "Checkout session created", "user_id", userID, "plan_id", planID)
	return sess.URL, nil
}

func (s *billingService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	sub, err := s.subRepo.FindByUser(userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return "", apperrors.NewNotFoundError("subscription", "No subscription found for this account")
	}
	if err != nil {
		return "", err
	}
	if sub.StripeCustomerID == "" {
		return "", apperrors.NewNotFoundError("subscription", "No billing account found")
	}

	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(sub.StripeCustomerID),
		ReturnURL: stripe.String(s.cfg.Stripe.PortalReturnURL),
	})
	if err != nil {
		return "", apperrors.UpstreamError(err, "stripe")
	}
	return sess.URL, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEvent(payload, signature, s.cfg.Stripe.WebhookSecret)
	if err != nil {
		return apperrors.NewBadRequestError("Invalid webhook signature")
	}

	logger.CtxInfo(ctx, "Stripe webhook received", "type", event.Type, "event_id", event.ID)

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return apperrors.NewBadRequestError("Malformed checkout.session.completed payload")
		}
		return s.onCheckoutCompleted(ctx, &sess)

	case "customer.subscription.created", "customer.subscription.updated":
		var stripeSub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
			return apperrors.NewBadRequestError("Malformed subscription payload")
		}
		return s.onSubscriptionChanged(ctx, &stripeSub)

	case "customer.subscription.deleted":
		var stripeSub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &stripeSub); err != nil {
			return apperrors.NewBadRequestError("Malformed subscription payload")
		}
		return s.onSubscriptionDeleted(ctx, &stripeSub)

	case "invoice.paid":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return apperrors.NewBadRequestError("Malformed invoice payload")
		}
		return s.onInvoiceStatus(ctx, &inv, models.SubscriptionStatusActive)

	case "invoice.payment_failed":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			return apperrors.NewBadRequestError("Malformed invoice payload")
		}
		return s.onInvoiceStatus(ctx, &inv, models.SubscriptionStatusPastDue)
	}

	// Unhandled event types are acknowledged so Stripe stops retrying them.
	return nil
}

func (s *billingService) onCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	if sess.Customer == nil {
		return nil
	}
	sub, err := s.subRepo.FindByStripeCustomer(sess.Customer.ID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		logger.CtxWarn(ctx, "Checkout completed for unknown customer", "customer_id", sess.Customer.ID)
		return nil
	}
	if err != nil {
		return err
	}

	if sess.Subscription != nil {
		sub.StripeSubscriptionID = sess.Subscription.ID
	}
	if err := s.subRepo.Update(sub); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Checkout completed", "user_id", sub.UserID)
	return nil
}

func (s *billingService) onSubscriptionChanged(ctx context.Context, stripeSub *stripe.Subscription) error {
	sub, err := s.findLocal(stripeSub)
	if err != nil || sub == nil {
		return err
	}

	sub.StripeSubscriptionID = stripeSub.ID
	sub.Status = mapStripeStatus(stripeSub.Status)
	sub.CancelAtPeriodEnd = stripeSub.CancelAtPeriodEnd

	if planID := s.planFromSubscription(stripeSub); planID != "" {
		sub.PlanID = planID
	}
	if stripeSub.CurrentPeriodStart > 0 {
		t := time.Unix(stripeSub.CurrentPeriodStart, 0)
		sub.CurrentPeriodStart = &t
	}
	if stripeSub.CurrentPeriodEnd > 0 {
		t := time.Unix(stripeSub.CurrentPeriodEnd, 0)
		sub.CurrentPeriodEnd = &t
	}
	if stripeSub.TrialEnd > 0 {
		t := time.Unix(stripeSub.TrialEnd, 0)
		sub.TrialEnd = &t
		sub.HadTrial = true
		if sub.TrialSermonLimit == 0 {
			sub.TrialSermonLimit = models.DefaultTrialSermonLimit
		}
	}

	if err := s.subRepo.Update(sub); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Subscription synced",
		"user_id", sub.UserID, "plan_id", sub.PlanID, "status", sub.Status)
	return nil
}

func (s *billingService) onSubscriptionDeleted(ctx context.Context, stripeSub *stripe.Subscription) error {
	sub, err := s.findLocal(stripeSub)
	if err != nil || sub == nil {
		return err
	}

	now := time.Now()
	sub.Status = models.SubscriptionStatusCanceled
	sub.CanceledAt = &now
	if err := s.subRepo.Update(sub); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Subscription canceled", "user_id", sub.UserID)
	return nil
}

func (s *billingService) onInvoiceStatus(ctx context.Context, inv *stripe.Invoice, status models.SubscriptionStatus) error {
	if inv.Customer == nil {
		return nil
	}
	sub, err := s.subRepo.FindByStripeCustomer(inv.Customer.ID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	// A paid invoice never demotes a trialing subscription.
	if status == models.SubscriptionStatusActive && sub.IsTrialing() {
		return nil
	}

	sub.Status = status
	if err := s.subRepo.Update(sub); err != nil {
		return err
	}

	logger.CtxInfo(ctx, "Subscription status updated from invoice",
		"user_id", sub.UserID, "status", status)
	return nil
}

// findLocal resolves a Stripe subscription to the local row, trying the
// subscription ID first and the customer second.
func (s *billingService) findLocal(stripeSub *stripe.Subscription) (*models.Subscription, error) {
	sub, err := s.subRepo.FindByStripeSubscription(stripeSub.ID)
	if err == nil {
		return sub, nil
	}
	if !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, err
	}
	if stripeSub.Customer == nil {
		return nil, nil
	}
	sub, err = s.subRepo.FindByStripeCustomer(stripeSub.Customer.ID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, nil
	}
	return sub, err
}

// planFromSubscription reverse-maps the Stripe price ID onto a plan ID.
func (s *billingService) planFromSubscription(stripeSub *stripe.Subscription) string {
	if planID := stripeSub.Metadata["plan_id"]; planID != "" {
		return planID
	}
	if stripeSub.Items == nil || len(stripeSub.Items.Data) == 0 || stripeSub.Items.Data[0].Price == nil {
		return ""
	}
	priceID := stripeSub.Items.Data[0].Price.ID
	for planID, pid := range s.cfg.Stripe.PriceIDs {
		if pid == priceID {
			return planID
		}
	}
	return ""
}

func mapStripeStatus(status stripe.SubscriptionStatus) models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusTrialing:
		return models.SubscriptionStatusTrialing
	case stripe.SubscriptionStatusActive:
		return models.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusUnpaid:
		return models.SubscriptionStatusPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusIncompleteExpired:
		return models.SubscriptionStatusCanceled
	default:
		return models.SubscriptionStatusIncomplete
	}
}

func (s *billingService) GetSubscription(userID string) (*dto.SubscriptionResponse, error) {
	sub, err := s.subRepo.FindByUser(userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.NewNotFoundError("subscription", "No subscription found for this account")
	}
	if err != nil {
		return nil, err
	}

	resp := &dto.SubscriptionResponse{
		PlanID:             sub.PlanID,
		Status:             string(sub.Status),
		TrialEnd:           sub.TrialEnd,
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		CancelAtPeriodEnd:  sub.CancelAtPeriodEnd,
	}
	if plan, ok := models.PlanByID(sub.PlanID); ok {
		resp.PlanName = plan.Name
		resp.SermonLimit = plan.SermonLimit
	}
	if sub.IsTrialing() {
		resp.SermonLimit = sub.TrialSermonLimit
	}
	return resp, nil
}

func (s *billingService) ListInvoices(ctx context.Context, userID string) ([]dto.InvoiceResponse, error) {
	sub, err := s.subRepo.FindByUser(userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) || (err == nil && sub.StripeCustomerID == "") {
		return []dto.InvoiceResponse{}, nil
	}
	if err != nil {
		return nil, err
	}

	params := &stripe.InvoiceListParams{
		Customer: stripe.String(sub.StripeCustomerID),
	}
	params.Limit = stripe.Int64(24)

	var out []dto.InvoiceResponse
	iter := invoice.List(params)
	for iter.Next() {
		inv := iter.Invoice()
		out = append(out, dto.InvoiceResponse{
			ID:          inv.ID,
			Number:      inv.Number,
			AmountCents: inv.AmountPaid,
			Currency:    string(inv.Currency),
			Status:      string(inv.Status),
			PaidAt:      time.Unix(inv.Created, 0),
			PDFURL:      inv.InvoicePDF,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.UpstreamError(err, "stripe")
	}
	if out == nil {
		out = []dto.InvoiceResponse{}
	}
	return out, nil
}

// PreviewProration estimates the charge for switching plans mid-period.
// Computed locally from the plan catalog: unused time on the current plan is
// credited pro rata against the new plan's price for the same days.
func (s *billingService) PreviewProration(userID, newPlanID string) (*dto.ProrationPreviewResponse, error) {
	newPlan, ok := models.PlanByID(newPlanID)
	if !ok {
		return nil, apperrors.NewBadRequestError("Unknown plan: " + newPlanID)
	}

	sub, err := s.subRepo.FindByUser(userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, apperrors.NewNotFoundError("subscription", "No subscription found for this account")
	}
	if err != nil {
		return nil, err
	}
	if sub.PlanID == newPlanID {
		return nil, apperrors.NewBadRequestError("Already subscribed to this plan")
	}

	currentPlan, ok := models.PlanByID(sub.PlanID)
	if !ok || sub.CurrentPeriodEnd == nil {
		return nil, apperrors.ErrInvalidOperation("subscription",
			"Proration preview requires an active billing period")
	}

	now := time.Now()
	daysRemaining := int(time.Until(*sub.CurrentPeriodEnd).Hours() / 24)
	if daysRemaining < 0 {
		daysRemaining = 0
	}

	periodDays := int(sub.CurrentPeriodEnd.Sub(sub.PeriodStart(now)).Hours() / 24)
	if periodDays <= 0 {
		periodDays = 30
	}

	credit := currentPlan.PriceCents * int64(daysRemaining) / int64(periodDays)
	charge := newPlan.PriceCents * int64(daysRemaining) / int64(periodDays)
	due := charge - credit
	if due < 0 {
		due = 0
	}

	return &dto.ProrationPreviewResponse{
		CurrentPlanID:  sub.PlanID,
		NewPlanID:      newPlanID,
		DaysRemaining:  daysRemaining,
		CreditCents:    credit,
		ChargeCents:    charge,
		AmountDueCents: due,
		Description: fmt.Sprintf(
			"Switching from %s to %s with %d days left in the current period.",
			currentPlan.Name, newPlan.Name, daysRemaining),
	}, nil
}

// StartTrial begins a card-free trial tracked locally. Checkout later
// converts it to a paid Stripe subscription.
func (s *billingService) StartTrial(ctx context.Context, userID, planID string) (*dto.SubscriptionResponse, error) {
	if _, ok := models.PlanByID(planID); !ok {
		return nil, apperrors.NewBadRequestError("Unknown plan: " + planID)
	}

	sub, err := s.subRepo.FindByUser(userID)
	if err != nil && !errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return nil, err
	}
	if sub != nil && sub.HadTrial {
		return nil, apperrors.ErrTrialAlreadyUsed
	}

	now := time.Now()
	trialEnd := now.AddDate(0, 0, models.TrialDays)

	if sub == nil {
		sub = &models.Subscription{UserID: userID}
	}
	sub.PlanID = planID
	sub.Status = models.SubscriptionStatusTrialing
	sub.HadTrial = true
	sub.TrialEnd = &trialEnd
	sub.TrialSermonLimit = models.DefaultTrialSermonLimit
	sub.CurrentPeriodStart = &now
	sub.CurrentPeriodEnd = &trialEnd

	if sub.ID == "" {
		err = s.subRepo.Create(sub)
	} else {
		err = s.subRepo.Update(sub)
	}
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Trial started", "user_id", userID, "plan_id", planID, "trial_end", trialEnd)
	return s.GetSubscription(userID)
}

func (s *billingService) GetTrialStatus(userID string) (*dto.TrialStatusResponse, error) {
	sub, err := s.subRepo.FindByUser(userID)
	if errors.Is(err, repositories.ErrSubscriptionNotFound) {
		return &dto.TrialStatusResponse{
			Eligible:    true,
			SermonLimit: models.DefaultTrialSermonLimit,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &dto.TrialStatusResponse{
		Eligible:    !sub.HadTrial,
		Active:      sub.IsTrialing(),
		TrialEnd:    sub.TrialEnd,
		SermonLimit: sub.TrialSermonLimit,
	}, nil
}
