package service

import (
	"context"
	"fmt"
	"strings"

	"memberhub-backend/internal/domain"
	"memberhub-backend/internal/logger"
	"memberhub-backend/internal/metrics"
	"memberhub-backend/internal/repository"
)

type memberService struct {
	memberRepo repository.MemberRepository
}

func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) GetMember(ctx context.Context, id string) (*domain.Member, error) {
	return s.memberRepo.GetByID(ctx, id)
}

func (s *memberService) ListMembers(ctx context.Context, filter domain.MemberFilter) ([]domain.Member, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown membership status %q", domain.ErrValidation, filter.Status)
	}
	return s.memberRepo.List(ctx, filter)
}

// FindByEmail matches case-insensitively. When several members share an email the most recently joined wins.
func (s *memberService) FindByEmail(ctx context.Context, email string) (*domain.Member, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	members, err := s.memberRepo.List(ctx, domain.MemberFilter{Email: email})
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, domain.ErrNotFound
	}
	return &members[0], nil
}

// UpdateMember is the admin edit. The stored record is loaded first so fields the
// request leaves out keep their values.
func (s *memberService) UpdateMember(ctx context.Context, id string, update domain.MemberUpdate) (*domain.Member, error) {
	logger.EnterMethod("memberService.UpdateMember", "memberID", id)

	if err := validateMemberUpdate(update); err != nil {
		logger.ExitMethodWithError("memberService.UpdateMember", err, "memberID", id)
		return nil, err
	}

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("memberService.UpdateMember", err, "memberID", id)
		return nil, err
	}
	update.Apply(member)
	if member.Social == nil {
		member.Social = map[string]string{}
	}
	if err := s.memberRepo.Update(ctx, member); err != nil {
		logger.ExitMethodWithError("memberService.UpdateMember", err, "memberID", id)
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	logger.ExitMethod("memberService.UpdateMember", "memberID", id)
	return member, nil
}

func validateMemberUpdate(u domain.MemberUpdate) error {
	if u.Email != nil && strings.TrimSpace(*u.Email) == "" {
		return fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
	}
	if u.MembershipStatus != nil && !u.MembershipStatus.Valid() {
		return fmt.Errorf("%w: unknown membership status %q", domain.ErrValidation, *u.MembershipStatus)
	}
	if u.MembershipPlanID != nil && strings.TrimSpace(*u.MembershipPlanID) == "" {
		return fmt.Errorf("%w: membership plan cannot be empty", domain.ErrValidation)
	}
	if u.NoExpiry && u.ExpiryDate != nil {
		return fmt.Errorf("%w: expiry_date and no_expiry are mutually exclusive", domain.ErrValidation)
	}
	return nil
}

func (s *memberService) UpdateOwnProfile(ctx context.Context, email string, update domain.ProfileUpdate) (*domain.Member, error) {
	logger.EnterMethod("memberService.UpdateOwnProfile", "email", email)

	member, err := s.FindByEmail(ctx, email)
	if err != nil {
		logger.ExitMethodWithError("memberService.UpdateOwnProfile", err, "email", email)
		return nil, err
	}
	update.Apply(member)
	if err := s.memberRepo.Update(ctx, member); err != nil {
		logger.ExitMethodWithError("memberService.UpdateOwnProfile", err, "memberID", member.ID)
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	logger.ExitMethod("memberService.UpdateOwnProfile", "memberID", member.ID)
	return member, nil
}

func (s *memberService) CancelMembership(ctx context.Context, id string) (*domain.Member, error) {
	logger.EnterMethod("memberService.CancelMembership", "memberID", id)

	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("memberService.CancelMembership", err, "memberID", id)
		return nil, err
	}
	if member.MembershipStatus == domain.MembershipStatusCancelled {
		logger.ExitMethod("memberService.CancelMembership", "memberID", id, "alreadyCancelled", true)
		return member, nil
	}
	if err := s.memberRepo.UpdateStatus(ctx, id, member.MembershipStatus, domain.MembershipStatusCancelled); err != nil {
		metrics.RecordBusinessEvent("membership_cancelled", false)
		logger.ExitMethodWithError("memberService.CancelMembership", err, "memberID", id)
		return nil, fmt.Errorf("failed to cancel membership: %w", err)
	}
	member.MembershipStatus = domain.MembershipStatusCancelled
	metrics.RecordBusinessEvent("membership_cancelled", true)

	logger.ExitMethod("memberService.CancelMembership", "memberID", id)
	return member, nil
}

func (s *memberService) DeleteMember(ctx context.Context, id string) error {
	return s.memberRepo.Delete(ctx, id)
}
