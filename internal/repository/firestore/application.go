package firestore

import (
	"context"
	"errors"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"
)

type applicationDoc struct {
	Profile          profileDoc `firestore:"profile"`
	PlanID           string     `firestore:"planId"`
	Status           string     `firestore:"status"`
	PaymentStatus    string     `firestore:"paymentStatus"`
	PaymentSessionID string     `firestore:"paymentSessionId"`
	SubmittedAt      time.Time  `firestore:"submittedAt"`
	ReviewedAt       *time.Time `firestore:"reviewedAt"`
	ReviewedBy       string     `firestore:"reviewedBy"`
	Notes            string     `firestore:"notes"`
}

func toApplicationDoc(a *domain.MembershipApplication) applicationDoc {
	return applicationDoc{
		Profile:          toProfileDoc(a.ApplicantProfile),
		PlanID:           a.PlanID,
		Status:           string(a.Status),
		PaymentStatus:    string(a.PaymentStatus),
		PaymentSessionID: a.PaymentSessionID,
		SubmittedAt:      a.SubmittedAt,
		ReviewedAt:       a.ReviewedAt,
		ReviewedBy:       a.ReviewedBy,
		Notes:            a.Notes,
	}
}

func (d applicationDoc) toDomain(id string) *domain.MembershipApplication {
	return &domain.MembershipApplication{
		ID:               id,
		ApplicantProfile: d.Profile.toDomain(),
		PlanID:           d.PlanID,
		Status:           domain.ApplicationStatus(d.Status),
		PaymentStatus:    domain.PaymentStatus(d.PaymentStatus),
		PaymentSessionID: d.PaymentSessionID,
		SubmittedAt:      d.SubmittedAt,
		ReviewedAt:       d.ReviewedAt,
		ReviewedBy:       d.ReviewedBy,
		Notes:            d.Notes,
	}
}

type applicationRepository struct {
	client *fs.Client
	col    *fs.CollectionRef
}

func NewApplicationRepository(client *fs.Client) repository.ApplicationRepository {
	return &applicationRepository{client: client, col: client.Collection(applicationsCollection)}
}

func (r *applicationRepository) Create(ctx context.Context, a *domain.MembershipApplication) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now().UTC()
	}
	logger.ExternalServiceCall("firestore", "create", "collection", applicationsCollection, "id", a.ID)
	_, err := r.col.Doc(a.ID).Create(ctx, toApplicationDoc(a))
	logger.ExternalServiceResult("firestore", "create", err, "id", a.ID)
	return err
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.MembershipApplication, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return decodeApplication(snap)
}

func (r *applicationRepository) List(ctx context.Context, filter domain.ApplicationFilter) ([]domain.MembershipApplication, error) {
	q := r.col.Query
	if filter.Status != "" {
		q = q.Where("status", "==", string(filter.Status))
	}
	snaps, err := q.OrderBy("submittedAt", fs.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	apps := make([]domain.MembershipApplication, 0, len(snaps))
	for _, snap := range snaps {
		a, err := decodeApplication(snap)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, nil
}

func (r *applicationRepository) UpdateReview(ctx context.Context, id string, expected domain.ApplicationStatus, review domain.Review) error {
	ref := r.col.Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := snap.DataAt("status")
		if err != nil {
			return err
		}
		if current != string(expected) {
			return errStatusMismatch
		}
		return tx.Update(ref, []fs.Update{
			{Path: "status", Value: string(review.Status)},
			{Path: "reviewedAt", Value: review.ReviewedAt},
			{Path: "reviewedBy", Value: review.ReviewedBy},
			{Path: "notes", Value: review.Notes},
		})
	})
	if errors.Is(err, errStatusMismatch) {
		return domain.ErrConflict
	}
	return mapError(err)
}

func (r *applicationRepository) UpdatePayment(ctx context.Context, id string, status domain.PaymentStatus, sessionID string) error {
	_, err := r.col.Doc(id).Update(ctx, []fs.Update{
		{Path: "paymentStatus", Value: string(status)},
		{Path: "paymentSessionId", Value: sessionID},
	})
	return mapError(err)
}

func (r *applicationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx, fs.Exists)
	return mapError(err)
}

func decodeApplication(snap *fs.DocumentSnapshot) (*domain.MembershipApplication, error) {
	var d applicationDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.toDomain(snap.Ref.ID), nil
}
