package clinic

import (
	"context"

	domain "clinic-service/internal/domain/clinic"
	"clinic-service/internal/domain/user"
)

// Usecase defines the clinic operations available to logged-in identities.
type Usecase interface {
	SubmitSymptom(ctx context.Context, who *user.Identity, in SubmitSymptomRequest) (*domain.Symptom, error)
	ListDoctors(ctx context.Context, who *user.Identity) ([]Doctor, error)
	BookAppointment(ctx context.Context, who *user.Identity, in BookAppointmentRequest) (*domain.Appointment, error)
	AddRecommendation(ctx context.Context, who *user.Identity, in AddRecommendationRequest) (*domain.Recommendation, error)
	Dashboard(ctx context.Context, who *user.Identity) (*Dashboard, error)
}
