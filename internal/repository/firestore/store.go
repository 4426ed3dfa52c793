// Package firestore stores membership data in Cloud Firestore collections.
package firestore

import (
	"errors"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/repository"
)

const (
	plansCollection        = "membershipPlans"
	applicationsCollection = "membershipApplications"
	membersCollection      = "members"
	mailCollection         = "mail"
)

type Store struct {
	client       *fs.Client
	plans        repository.PlanRepository
	applications repository.ApplicationRepository
	members      repository.MemberRepository
	mail         repository.MailRepository
}

func NewStore(client *fs.Client) *Store {
	return &Store{
		client:       client,
		plans:        NewPlanRepository(client),
		applications: NewApplicationRepository(client),
		members:      NewMemberRepository(client),
		mail:         NewMailRepository(client),
	}
}

func (s *Store) Plans() repository.PlanRepository               { return s.plans }
func (s *Store) Applications() repository.ApplicationRepository { return s.applications }
func (s *Store) Members() repository.MemberRepository           { return s.members }
func (s *Store) Mail() repository.MailRepository                { return s.mail }
func (s *Store) Close() error                                   { return s.client.Close() }

// mapError translates gRPC NotFound from the Firestore client into domain.ErrNotFound.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return domain.ErrNotFound
	}
	return err
}

// errStatusMismatch aborts a transaction whose precondition failed.
var errStatusMismatch = errors.New("status mismatch")
