package service

import (
	"context"
	"errors"
	"fmt"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
	"memberhub-backend/internal/payment"
	"memberhub-backend/internal/repository"
)

type paymentService struct {
	appRepo    repository.ApplicationRepository
	planRepo   repository.PlanRepository
	provider   payment.Provider
	successURL string
	cancelURL  string
}

// NewPaymentService wires the checkout helper. A nil provider means payments are not configured
// and paid plans degrade to manual follow-up.
func NewPaymentService(appRepo repository.ApplicationRepository, planRepo repository.PlanRepository, provider payment.Provider, successURL, cancelURL string) PaymentService {
	return &paymentService{
		appRepo:    appRepo,
		planRepo:   planRepo,
		provider:   provider,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

func (s *paymentService) StartCheckout(ctx context.Context, applicationID, successURL, cancelURL string) (*domain.CheckoutResult, error) {
	logger.EnterMethod("paymentService.StartCheckout", "applicationID", applicationID)

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		logger.ExitMethodWithError("paymentService.StartCheckout", err, "applicationID", applicationID)
		return nil, err
	}
	result := &domain.CheckoutResult{ApplicationID: app.ID, PaymentStatus: app.PaymentStatus}

	plan, err := s.planRepo.GetByID(ctx, app.PlanID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		logger.ExitMethod("paymentService.StartCheckout", "applicationID", app.ID, "required", false, "reason", "plan missing")
		return result, nil
	case err != nil:
		logger.ExitMethodWithError("paymentService.StartCheckout", err, "planID", app.PlanID)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	case plan.IsFree():
		logger.ExitMethod("paymentService.StartCheckout", "applicationID", app.ID, "required", false)
		return result, nil
	}
	result.Required = true

	if app.PaymentStatus == domain.PaymentStatusPaid {
		result.Available = true
		logger.ExitMethod("paymentService.StartCheckout", "applicationID", app.ID, "alreadyPaid", true)
		return result, nil
	}
	if s.provider == nil {
		logger.Info("Payment provider not configured, application left for manual follow-up", "applicationID", app.ID)
		return result, nil
	}

	if successURL == "" {
		successURL = s.successURL
	}
	if cancelURL == "" {
		cancelURL = s.cancelURL
	}
	session, err := s.provider.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		ApplicationID: app.ID,
		PlanID:        plan.ID,
		PlanName:      plan.Name,
		AmountCents:   plan.PriceCents,
		Currency:      plan.Currency,
		CustomerEmail: app.Email,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
	})
	if err != nil {
		metrics.SideEffectFailed("checkout_create")
		logger.SideEffectFailed("checkout_create", err, "applicationID", app.ID)
		return result, nil
	}

	if err := s.appRepo.UpdatePayment(ctx, app.ID, domain.PaymentStatusPending, session.ID); err != nil {
		logger.ExitMethodWithError("paymentService.StartCheckout", err, "applicationID", app.ID)
		return nil, fmt.Errorf("failed to record checkout session: %w", err)
	}

	result.Available = true
	result.SessionID = session.ID
	result.RedirectURL = session.URL
	result.PaymentStatus = domain.PaymentStatusPending
	logger.ExitMethod("paymentService.StartCheckout", "applicationID", app.ID, "sessionID", session.ID)
	return result, nil
}

// VerifyCheckout asks the provider whether the session was paid. An empty sessionID means the one
// recorded by StartCheckout.
func (s *paymentService) VerifyCheckout(ctx context.Context, applicationID, sessionID string) (*domain.CheckoutResult, error) {
	logger.EnterMethod("paymentService.VerifyCheckout", "applicationID", applicationID, "sessionID", sessionID)

	app, err := s.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		logger.ExitMethodWithError("paymentService.VerifyCheckout", err, "applicationID", applicationID)
		return nil, err
	}
	if sessionID == "" {
		sessionID = app.PaymentSessionID
	}
	if sessionID == "" {
		err := fmt.Errorf("%w: no checkout session for application", domain.ErrValidation)
		logger.ExitMethodWithError("paymentService.VerifyCheckout", err, "applicationID", applicationID)
		return nil, err
	}

	result := &domain.CheckoutResult{
		ApplicationID: app.ID,
		Required:      true,
		SessionID:     sessionID,
		PaymentStatus: app.PaymentStatus,
	}
	if app.PaymentStatus == domain.PaymentStatusPaid {
		result.Available = true
		return result, nil
	}
	if s.provider == nil {
		return result, nil
	}
	result.Available = true

	paid, err := s.provider.VerifyPayment(ctx, sessionID)
	if err != nil {
		metrics.SideEffectFailed("checkout_verify")
		logger.SideEffectFailed("checkout_verify", err, "applicationID", app.ID)
		result.PaymentStatus = domain.PaymentStatusPending
		return result, nil
	}

	status := domain.PaymentStatusFailed
	if paid {
		status = domain.PaymentStatusPaid
	}
	if err := s.appRepo.UpdatePayment(ctx, app.ID, status, sessionID); err != nil {
		logger.ExitMethodWithError("paymentService.VerifyCheckout", err, "applicationID", app.ID)
		return nil, fmt.Errorf("failed to record payment status: %w", err)
	}
	metrics.RecordBusinessEvent("payment_verified", paid)

	result.PaymentStatus = status
	logger.ExitMethod("paymentService.VerifyCheckout", "applicationID", app.ID, "paymentStatus", status)
	return result, nil
}
