package clinic

import (
	domain "clinic-service/internal/domain/clinic"
	"clinic-service/internal/domain/user"
)

// SubmitSymptomRequest represents the symptom upload form.
type SubmitSymptomRequest struct {
	Symptoms string `form:"symptoms" validate:"required"`
}

// BookAppointmentRequest represents the booking form. DoctorID stays a string
// so a malformed value is reported as an invalid doctor rather than a bind error.
type BookAppointmentRequest struct {
	DoctorID string `form:"doctor_id" validate:"required"`
	Date     string `form:"date" validate:"required"`
}

// AddRecommendationRequest represents the recommendation form.
type AddRecommendationRequest struct {
	Text      string `form:"text" validate:"required"`
	SymptomID string `form:"symptom_id" validate:"required"`
}

// Doctor is an entry of the booking roster.
type Doctor struct {
	ID   int64
	Name string
}

// Dashboard is the role-specific landing view.
// Patient dashboards fill Symptoms and Recommendations; doctor dashboards fill AllSymptoms.
type Dashboard struct {
	Identity        *user.Identity
	Symptoms        []domain.Symptom
	Recommendations []domain.RecommendationWithSymptom
	AllSymptoms     []domain.SymptomWithPatient
	Appointments    []domain.AppointmentWithName
}
