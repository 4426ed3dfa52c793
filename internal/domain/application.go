package domain

import (
	"strings"
	"time"
)

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusApproved, ApplicationStatusRejected:
		return true
	}
	return false
}

// IsTerminal is true for approved and rejected. Resubmission needs a new application.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

// CanTransition allows only pending -> approved and pending -> rejected.
func CanTransition(from, to ApplicationStatus) bool {
	return from == ApplicationStatusPending && to.IsTerminal()
}

type PaymentStatus string

const (
	PaymentStatusUnset   PaymentStatus = ""
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ApplicantProfile is the set of profile fields captured on the application form
// and copied onto the member record at approval.
type ApplicantProfile struct {
	Email              string `json:"email"`
	FullName           string `json:"full_name,omitempty"`
	FirstName          string `json:"first_name,omitempty"`
	LastName           string `json:"last_name,omitempty"`
	Gender             string `json:"gender,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Country            string `json:"country,omitempty"`
	Organization       string `json:"organization,omitempty"`
	AcademicStatus     string `json:"academic_status,omitempty"`
	ProfessionalStatus string `json:"professional_status,omitempty"`
	ResearchInterest   string `json:"research_interest,omitempty"`
	Motivation         string `json:"motivation,omitempty"`
	Experience         string `json:"experience,omitempty"`
	Comments           string `json:"comments,omitempty"`
}

// DisplayName prefers the full name, then first+last, then "Applicant".
func (p ApplicantProfile) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	if name := strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName)); name != "" {
		return name
	}
	return "Applicant"
}

type MembershipApplication struct {
	ID string `json:"id"`
	ApplicantProfile
	PlanID           string            `json:"plan_id"`
	Status           ApplicationStatus `json:"status"`
	PaymentStatus    PaymentStatus     `json:"payment_status,omitempty"`
	PaymentSessionID string            `json:"payment_session_id,omitempty"`
	SubmittedAt      time.Time         `json:"submitted_at"`
	ReviewedAt       *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy       string            `json:"reviewed_by,omitempty"`
	Notes            string            `json:"notes,omitempty"`
}

// Review carries the fields written once by the approve/reject transition.
type Review struct {
	Status     ApplicationStatus
	ReviewedAt time.Time
	ReviewedBy string
	Notes      string
}

type ApplicationFilter struct {
	Status ApplicationStatus
}
