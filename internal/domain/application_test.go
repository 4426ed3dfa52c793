package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplicantProfile_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		profile  ApplicantProfile
		expected string
	}{
		{"Full name", ApplicantProfile{FullName: "Ada Lovelace", FirstName: "A", LastName: "L"}, "Ada Lovelace"},
		{"First and last", ApplicantProfile{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"First only", ApplicantProfile{FirstName: "Ada"}, "Ada"},
		{"Last only", ApplicantProfile{LastName: "Lovelace"}, "Lovelace"},
		{"Blank", ApplicantProfile{FullName: "  "}, "Applicant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.profile.DisplayName())
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(ApplicationStatusPending, ApplicationStatusApproved))
	assert.True(t, CanTransition(ApplicationStatusPending, ApplicationStatusRejected))
	assert.False(t, CanTransition(ApplicationStatusPending, ApplicationStatusPending))
	assert.False(t, CanTransition(ApplicationStatusApproved, ApplicationStatusRejected))
	assert.False(t, CanTransition(ApplicationStatusRejected, ApplicationStatusApproved))
	assert.False(t, CanTransition(ApplicationStatusApproved, ApplicationStatusApproved))
}

func TestNewMemberFromApplication(t *testing.T) {
	joined := time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)
	expiry := joined.AddDate(1, 0, 0)
	app := &MembershipApplication{
		ID:               "app-1",
		ApplicantProfile: ApplicantProfile{Email: "ada@example.org", FullName: "Ada Lovelace", Country: "UK"},
		PlanID:           "full",
		Status:           ApplicationStatusApproved,
	}

	m := NewMemberFromApplication(app, joined, &expiry)

	assert.Equal(t, "app-1", m.SourceApplicationID)
	assert.Equal(t, app.ApplicantProfile, m.ApplicantProfile)
	assert.Equal(t, "full", m.MembershipPlanID)
	assert.Equal(t, MembershipStatusActive, m.MembershipStatus)
	assert.Equal(t, joined, m.JoinedDate)
	assert.Equal(t, &expiry, m.ExpiryDate)
	assert.Empty(t, m.ID)
}

func TestProfileUpdate_Apply(t *testing.T) {
	bio := "Researcher"
	phone := ""
	m := &Member{ApplicantProfile: ApplicantProfile{Email: "a@b.c", Phone: "123", Country: "NZ"}}

	ProfileUpdate{Bio: &bio, Phone: &phone, Social: map[string]string{"github": "ada"}}.Apply(m)

	assert.Equal(t, "Researcher", m.Bio)
	assert.Equal(t, "", m.Phone)
	assert.Equal(t, "NZ", m.Country)
	assert.Equal(t, "a@b.c", m.Email)
	assert.Equal(t, "ada", m.Social["github"])
}
