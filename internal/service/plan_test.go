package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/service"
)

func TestPlanService_CreatePlan(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		plan domain.MembershipPlan
	}{
		{"missing id", domain.MembershipPlan{Name: "Gold", Interval: domain.PlanIntervalYearly}},
		{"missing name", domain.MembershipPlan{ID: "gold", Interval: domain.PlanIntervalYearly}},
		{"negative price", domain.MembershipPlan{ID: "gold", Name: "Gold", PriceCents: -1, Interval: domain.PlanIntervalYearly}},
		{"unknown interval", domain.MembershipPlan{ID: "gold", Name: "Gold", Interval: "weekly"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockPlanRepo)
			svc := service.NewPlanService(repo)
			plan := tt.plan
			err := svc.CreatePlan(ctx, &plan)
			assert.ErrorIs(t, err, domain.ErrValidation)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}

	t.Run("Normalizes currency", func(t *testing.T) {
		repo := new(MockPlanRepo)
		svc := service.NewPlanService(repo)
		repo.On("Create", ctx, mock.MatchedBy(func(p *domain.MembershipPlan) bool {
			return p.ID == "gold" && p.Currency == "EUR"
		})).Return(nil).Once()

		err := svc.CreatePlan(ctx, &domain.MembershipPlan{ID: " gold ", Name: "Gold", Currency: "eur", Interval: domain.PlanIntervalMonthly})
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestPlanService_SeedDefaultPlans(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPlanRepo)
	svc := service.NewPlanService(repo)

	defaults := domain.DefaultPlans("GBP")
	existing := defaults[0]
	repo.On("GetByID", ctx, existing.ID).Return(&existing, nil).Once()
	for _, p := range defaults[1:] {
		repo.On("GetByID", ctx, p.ID).Return(nil, domain.ErrNotFound).Once()
	}
	repo.On("Create", ctx, mock.MatchedBy(func(p *domain.MembershipPlan) bool {
		return p.Currency == "GBP" && p.ID != existing.ID
	})).Return(nil).Times(len(defaults) - 1)

	added, err := svc.SeedDefaultPlans(ctx, "GBP")
	require.NoError(t, err)
	assert.Equal(t, len(defaults)-1, added)
	repo.AssertExpectations(t)
}
