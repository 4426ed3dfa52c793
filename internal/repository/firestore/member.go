package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	fs "cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/repository"
)

type memberDoc struct {
	SourceApplicationID string            `firestore:"sourceApplicationId"`
	Profile             profileDoc        `firestore:"profile"`
	EmailLower          string            `firestore:"emailLower"`
	Bio                 string            `firestore:"bio"`
	Social              map[string]string `firestore:"social"`
	MembershipPlanID    string            `firestore:"membershipPlanId"`
	MembershipStatus    string            `firestore:"membershipStatus"`
	JoinedDate          time.Time         `firestore:"joinedDate"`
	ExpiryDate          *time.Time        `firestore:"expiryDate"`
	UpdatedAt           time.Time         `firestore:"updatedAt"`
}

func toMemberDoc(m *domain.Member) memberDoc {
	return memberDoc{
		SourceApplicationID: m.SourceApplicationID,
		Profile:             toProfileDoc(m.ApplicantProfile),
		EmailLower:          strings.ToLower(m.Email),
		Bio:                 m.Bio,
		Social:              m.Social,
		MembershipPlanID:    m.MembershipPlanID,
		MembershipStatus:    string(m.MembershipStatus),
		JoinedDate:          m.JoinedDate,
		ExpiryDate:          m.ExpiryDate,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (d memberDoc) toDomain(id string) *domain.Member {
	social := d.Social
	if social == nil {
		social = map[string]string{}
	}
	return &domain.Member{
		ID:                  id,
		SourceApplicationID: d.SourceApplicationID,
		ApplicantProfile:    d.Profile.toDomain(),
		Bio:                 d.Bio,
		Social:              social,
		MembershipPlanID:    d.MembershipPlanID,
		MembershipStatus:    domain.MembershipStatus(d.MembershipStatus),
		JoinedDate:          d.JoinedDate,
		ExpiryDate:          d.ExpiryDate,
		UpdatedAt:           d.UpdatedAt,
	}
}

type memberRepository struct {
	client *fs.Client
	col    *fs.CollectionRef
}

func NewMemberRepository(client *fs.Client) repository.MemberRepository {
	return &memberRepository{client: client, col: client.Collection(membersCollection)}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC()
	}
	logger.ExternalServiceCall("firestore", "create", "collection", membersCollection, "id", m.ID)
	_, err := r.col.Doc(m.ID).Create(ctx, toMemberDoc(m))
	logger.ExternalServiceResult("firestore", "create", err, "id", m.ID)
	return err
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	snap, err := r.col.Doc(id).Get(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return decodeMember(snap)
}

func (r *memberRepository) List(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	q := r.col.Query
	if filter.Email != "" {
		q = q.Where("emailLower", "==", strings.ToLower(filter.Email))
	}
	if filter.Status != "" {
		q = q.Where("membershipStatus", "==", string(filter.Status))
	}
	if filter.SourceApplicationID != "" {
		q = q.Where("sourceApplicationId", "==", filter.SourceApplicationID)
	}
	snaps, err := q.OrderBy("joinedDate", fs.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	members := make([]domain.Member, 0, len(snaps))
	for _, snap := range snaps {
		m, err := decodeMember(snap)
		if err != nil {
			return nil, err
		}
		members = append(members, *m)
	}
	return members, nil
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	m.UpdatedAt = time.Now().UTC()
	ref := r.col.Doc(m.ID)
	// Set replaces the whole document, so check existence first.
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		if _, err := tx.Get(ref); err != nil {
			return err
		}
		return tx.Set(ref, toMemberDoc(m))
	})
	return mapError(err)
}

func (r *memberRepository) UpdateStatus(ctx context.Context, id string, expected, next domain.MembershipStatus) error {
	ref := r.col.Doc(id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *fs.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		current, err := snap.DataAt("membershipStatus")
		if err != nil {
			return err
		}
		if current != string(expected) {
			return errStatusMismatch
		}
		return tx.Update(ref, []fs.Update{
			{Path: "membershipStatus", Value: string(next)},
			{Path: "updatedAt", Value: time.Now().UTC()},
		})
	})
	if errors.Is(err, errStatusMismatch) {
		return domain.ErrConflict
	}
	return mapError(err)
}

func (r *memberRepository) Delete(ctx context.Context, id string) error {
	_, err := r.col.Doc(id).Delete(ctx, fs.Exists)
	return mapError(err)
}

func decodeMember(snap *fs.DocumentSnapshot) (*domain.Member, error) {
	var d memberDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, err
	}
	return d.toDomain(snap.Ref.ID), nil
}
