package domain

import "time"

type PlanInterval string

const (
	PlanIntervalMonthly  PlanInterval = "monthly"
	PlanIntervalYearly   PlanInterval = "yearly"
	PlanIntervalLifetime PlanInterval = "lifetime"
)

// Valid reports whether i is one of the known intervals.
func (i PlanInterval) Valid() bool {
	switch i {
	case PlanIntervalMonthly, PlanIntervalYearly, PlanIntervalLifetime:
		return true
	}
	return false
}

// Normalize maps unknown or empty intervals to yearly.
func (i PlanInterval) Normalize() PlanInterval {
	if i.Valid() {
		return i
	}
	return PlanIntervalYearly
}

type MembershipPlan struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	PriceCents  int64        `json:"price_cents"`
	Currency    string       `json:"currency"`
	Interval    PlanInterval `json:"interval"`
	Description string       `json:"description"`
	Features    []string     `json:"features"`
	IsPopular   bool         `json:"is_popular"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (p *MembershipPlan) IsFree() bool {
	return p.PriceCents == 0
}

// DefaultPlans is the catalog seeded into an empty store.
func DefaultPlans(currency string) []MembershipPlan {
	return []MembershipPlan{
		{
			ID:          "associate",
			Name:        "Associate Member",
			PriceCents:  0,
			Currency:    currency,
			Interval:    PlanIntervalYearly,
			Description: "Stay connected with the community and receive our newsletter.",
			Features:    []string{"Newsletter", "Community events", "Member directory listing"},
		},
		{
			ID:          "student",
			Name:        "Student Member",
			PriceCents:  2000,
			Currency:    currency,
			Interval:    PlanIntervalYearly,
			Description: "Discounted membership for students enrolled in a degree programme.",
			Features:    []string{"All associate benefits", "Reduced conference fees", "Mentoring programme"},
		},
		{
			ID:          "full",
			Name:        "Full Member",
			PriceCents:  5000,
			Currency:    currency,
			Interval:    PlanIntervalYearly,
			Description: "Full voting membership for professionals and researchers.",
			Features:    []string{"All student benefits", "Voting rights", "Working group participation"},
			IsPopular:   true,
		},
		{
			ID:          "lifetime",
			Name:        "Lifetime Member",
			PriceCents:  50000,
			Currency:    currency,
			Interval:    PlanIntervalLifetime,
			Description: "One payment, membership for life.",
			Features:    []string{"All full member benefits", "Never expires"},
		},
	}
}
