package postgres

import "memberhub-backend/internal/domain"

// Profile columns shared by membership_applications and members, in scan order.
const profileColumns = `email, full_name, first_name, last_name, gender, phone, country, organization,
	academic_status, professional_status, research_interest, motivation, experience, comments`

func profileArgs(p *domain.ApplicantProfile) []any {
	return []any{
		p.Email, p.FullName, p.FirstName, p.LastName, p.Gender, p.Phone, p.Country, p.Organization,
		p.AcademicStatus, p.ProfessionalStatus, p.ResearchInterest, p.Motivation, p.Experience, p.Comments,
	}
}

func profileDest(p *domain.ApplicantProfile) []any {
	return []any{
		&p.Email, &p.FullName, &p.FirstName, &p.LastName, &p.Gender, &p.Phone, &p.Country, &p.Organization,
		&p.AcademicStatus, &p.ProfessionalStatus, &p.ResearchInterest, &p.Motivation, &p.Experience, &p.Comments,
	}
}
