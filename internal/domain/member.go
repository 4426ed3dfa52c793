package domain

import "time"

type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusPending   MembershipStatus = "pending"
	MembershipStatusExpired   MembershipStatus = "expired"
	MembershipStatusCancelled MembershipStatus = "cancelled"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case MembershipStatusActive, MembershipStatusPending, MembershipStatusExpired, MembershipStatusCancelled:
		return true
	}
	return false
}

type Member struct {
	ID                  string `json:"id"`
	SourceApplicationID string `json:"source_application_id,omitempty"`
	ApplicantProfile
	Bio              string            `json:"bio,omitempty"`
	Social           map[string]string `json:"social,omitempty"`
	MembershipPlanID string            `json:"membership_plan_id"`
	MembershipStatus MembershipStatus  `json:"membership_status"`
	JoinedDate       time.Time         `json:"joined_date"`
	ExpiryDate       *time.Time        `json:"expiry_date,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// NewMemberFromApplication copies the applicant profile into a fresh active member.
func NewMemberFromApplication(app *MembershipApplication, joined time.Time, expiry *time.Time) *Member {
	return &Member{
		SourceApplicationID: app.ID,
		ApplicantProfile:    app.ApplicantProfile,
		Social:              map[string]string{},
		MembershipPlanID:    app.PlanID,
		MembershipStatus:    MembershipStatusActive,
		JoinedDate:          joined,
		ExpiryDate:          expiry,
		UpdatedAt:           joined,
	}
}

// MemberUpdate is the admin edit. Nil fields keep the stored value. The ID, source
// application and join date are never changed; the expiry date changes only when
// ExpiryDate is set or NoExpiry clears it.
type MemberUpdate struct {
	ProfileUpdate
	Email            *string           `json:"email,omitempty"`
	Gender           *string           `json:"gender,omitempty"`
	MembershipPlanID *string           `json:"membership_plan_id,omitempty"`
	MembershipStatus *MembershipStatus `json:"membership_status,omitempty"`
	ExpiryDate       *time.Time        `json:"expiry_date,omitempty"`
	NoExpiry         bool              `json:"no_expiry,omitempty"`
}

// Apply copies the set fields of u onto m.
func (u MemberUpdate) Apply(m *Member) {
	u.ProfileUpdate.Apply(m)
	if u.Email != nil {
		m.Email = *u.Email
	}
	if u.Gender != nil {
		m.Gender = *u.Gender
	}
	if u.MembershipPlanID != nil {
		m.MembershipPlanID = *u.MembershipPlanID
	}
	if u.MembershipStatus != nil {
		m.MembershipStatus = *u.MembershipStatus
	}
	switch {
	case u.NoExpiry:
		m.ExpiryDate = nil
	case u.ExpiryDate != nil:
		expiry := u.ExpiryDate.UTC()
		m.ExpiryDate = &expiry
	}
}

type MemberFilter struct {
	Email               string
	Status              MembershipStatus
	SourceApplicationID string
}

// ProfileUpdate is what a member may change on their own record.
type ProfileUpdate struct {
	FullName           *string           `json:"full_name,omitempty"`
	FirstName          *string           `json:"first_name,omitempty"`
	LastName           *string           `json:"last_name,omitempty"`
	Phone              *string           `json:"phone,omitempty"`
	Country            *string           `json:"country,omitempty"`
	Organization       *string           `json:"organization,omitempty"`
	AcademicStatus     *string           `json:"academic_status,omitempty"`
	ProfessionalStatus *string           `json:"professional_status,omitempty"`
	ResearchInterest   *string           `json:"research_interest,omitempty"`
	Bio                *string           `json:"bio,omitempty"`
	Social             map[string]string `json:"social,omitempty"`
}

// Apply copies the non-nil fields of u onto m.
func (u ProfileUpdate) Apply(m *Member) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&m.FullName, u.FullName)
	set(&m.FirstName, u.FirstName)
	set(&m.LastName, u.LastName)
	set(&m.Phone, u.Phone)
	set(&m.Country, u.Country)
	set(&m.Organization, u.Organization)
	set(&m.AcademicStatus, u.AcademicStatus)
	set(&m.ProfessionalStatus, u.ProfessionalStatus)
	set(&m.ResearchInterest, u.ResearchInterest)
	set(&m.Bio, u.Bio)
	if u.Social != nil {
		m.Social = u.Social
	}
}
