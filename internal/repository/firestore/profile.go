package firestore

import "memberhub-backend/internal/domain"

// profileDoc is embedded in application and member documents.
type profileDoc struct {
	Email              string `firestore:"email"`
	FullName           string `firestore:"fullName"`
	FirstName          string `firestore:"firstName"`
	LastName           string `firestore:"lastName"`
	Gender             string `firestore:"gender"`
	Phone              string `firestore:"phone"`
	Country            string `firestore:"country"`
	Organization       string `firestore:"organization"`
	AcademicStatus     string `firestore:"academicStatus"`
	ProfessionalStatus string `firestore:"professionalStatus"`
	ResearchInterest   string `firestore:"researchInterest"`
	Motivation         string `firestore:"motivation"`
	Experience         string `firestore:"experience"`
	Comments           string `firestore:"comments"`
}

func toProfileDoc(p domain.ApplicantProfile) profileDoc {
	return profileDoc(p)
}

func (d profileDoc) toDomain() domain.ApplicantProfile {
	return domain.ApplicantProfile(d)
}
