package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"
)

type planService struct {
	planRepo repository.PlanRepository
}

func NewPlanService(planRepo repository.PlanRepository) PlanService {
	return &planService{planRepo: planRepo}
}

func (s *planService) ListPlans(ctx context.Context) ([]domain.MembershipPlan, error) {
	return s.planRepo.List(ctx)
}

func (s *planService) GetPlan(ctx context.Context, id string) (*domain.MembershipPlan, error) {
	return s.planRepo.GetByID(ctx, id)
}

func (s *planService) CreatePlan(ctx context.Context, plan *domain.MembershipPlan) error {
	logger.EnterMethod("planService.CreatePlan", "planID", plan.ID)
	if err := validatePlan(plan); err != nil {
		logger.ExitMethodWithError("planService.CreatePlan", err)
		return err
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		logger.ExitMethodWithError("planService.CreatePlan", err, "planID", plan.ID)
		return fmt.Errorf("failed to create plan: %w", err)
	}
	logger.ExitMethod("planService.CreatePlan", "planID", plan.ID)
	return nil
}

func (s *planService) UpdatePlan(ctx context.Context, plan *domain.MembershipPlan) error {
	logger.EnterMethod("planService.UpdatePlan", "planID", plan.ID)
	if err := validatePlan(plan); err != nil {
		logger.ExitMethodWithError("planService.UpdatePlan", err)
		return err
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		logger.ExitMethodWithError("planService.UpdatePlan", err, "planID", plan.ID)
		return fmt.Errorf("failed to update plan: %w", err)
	}
	logger.ExitMethod("planService.UpdatePlan", "planID", plan.ID)
	return nil
}

// DeletePlan removes a plan. Members and applications keep the dangling ID and fall back to yearly terms.
func (s *planService) DeletePlan(ctx context.Context, id string) error {
	return s.planRepo.Delete(ctx, id)
}

// SeedDefaultPlans inserts any default plan whose ID is not yet stored and returns how many were added.
func (s *planService) SeedDefaultPlans(ctx context.Context, currency string) (int, error) {
	if currency == "" {
		currency = "USD"
	}
	added := 0
	for _, p := range domain.DefaultPlans(currency) {
		_, err := s.planRepo.GetByID(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return added, fmt.Errorf("failed to check plan %s: %w", p.ID, err)
		}
		plan := p
		if err := s.planRepo.Create(ctx, &plan); err != nil {
			return added, fmt.Errorf("failed to seed plan %s: %w", p.ID, err)
		}
		added++
	}
	if added > 0 {
		logger.Info("Seeded default membership plans", "count", added)
	}
	return added, nil
}

func validatePlan(plan *domain.MembershipPlan) error {
	plan.ID = strings.TrimSpace(plan.ID)
	plan.Name = strings.TrimSpace(plan.Name)
	switch {
	case plan.ID == "":
		return fmt.Errorf("%w: plan id is required", domain.ErrValidation)
	case plan.Name == "":
		return fmt.Errorf("%w: plan name is required", domain.ErrValidation)
	case plan.PriceCents < 0:
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	case !plan.Interval.Valid():
		return fmt.Errorf("%w: unknown interval %q", domain.ErrValidation, plan.Interval)
	}
	plan.Currency = strings.ToUpper(strings.TrimSpace(plan.Currency))
	if plan.Currency == "" {
		plan.Currency = "USD"
	}
	return nil
}
