package firestore

import (
	"context"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

type planDoc struct {
	Name        string    `firestore:"name"`
	PriceCents  int64     `firestore:"priceCents"`
	Currency    string    `firestore:"currency"`
	Interval    string    `firestore:"interval"`
	Description string    `firestore:"description"`
	Features    []string  `firestore:"features"`
	IsPopular   bool      `firestore:"isPopular"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func toPlanDoc(p *domain.MembershipPlan) planDoc {
	return planDoc{
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		Interval:    string(p.Interval),
		Description: p.Description,
		Features:    p.Features,
		IsPopular:   p.IsPopular,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d planDoc) toDomain(id string) *domain.MembershipPlan {
	return &domain.MembershipPlan{
		ID:          id,
		Name:        d.Name,
		PriceCents:  d.PriceCents,
		Currency:    d.Currency,
		Interval:    domain.PlanInterval(d.Interval),
		Description: d.Description,
		Features:    d.Features,
		IsPopular:   d.IsPopular,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type planRepository struct {
	col *fs.CollectionRef
}

func NewPlanRepository(client *fs.Client) repository.PlanRepository {
	return &planRepository{col: client.Collection(plansCollection)}
}

func (r *planRepository) Create(ctx context.Context, p *domain.MembershipPlan) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.col.Doc(p.ID).Create(ctx, toPlanDoc(p))
	return err
}

func (r *planRepository) GetByID(ctx context.Context, id string) (*domain.MembershipPlan, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	var d planDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.toDomain(snap.Ref.ID), nil
}

func (r *planRepository) List(ctx context.Context) ([]domain.MembershipPlan, error) {
	snaps, err := r.col.OrderBy("priceCents", fs.Asc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	plans := make([]domain.MembershipPlan, 0, len(snaps))
	for _, snap := range snaps {
		var d planDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, err
		}
		plans = append(plans, *d.toDomain(snap.Ref.ID))
	}
	return plans, nil
}

func (r *planRepository) Update(ctx context.Context, p *domain.MembershipPlan) error {
	p.UpdatedAt = time.Now().UTC()
	_, err := r.col.Doc(p.ID).Update(ctx, []fs.Update{
		{Path: "name", Value: p.Name},
		{Path: "priceCents", Value: p.PriceCents},
		{Path: "currency", Value: p.Currency},
		{Path: "interval", Value: string(p.Interval)},
		{Path: "description", Value: p.Description},
		{Path: "features", Value: p.Features},
		{Path: "isPopular", Value: p.IsPopular},
		{Path: "updatedAt", Value: p.UpdatedAt},
	})
	return mapError(err)
}

func (r *planRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx, fs.Exists)
	return mapError(err)
}
