package clinic

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "clinic-service/internal/domain/clinic"
	"clinic-service/internal/domain/user"
	"clinic-service/internal/usecase"
	pkgerrors "clinic-service/pkg/errors"
)

// UserReader looks up accounts referenced by clinic records.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*user.User, error) // nil, nil when absent
	ListByRole(ctx context.Context, role user.Role) ([]user.User, error)
}

// SymptomRepository persists symptom reports.
type SymptomRepository interface {
	Create(ctx context.Context, s *domain.Symptom) error
	GetByID(ctx context.Context, id int64) (*domain.Symptom, error) // nil, nil when absent
	ListByUser(ctx context.Context, userID int64) ([]domain.Symptom, error)
	ListAllWithPatient(ctx context.Context) ([]domain.SymptomWithPatient, error)
}

// RecommendationRepository persists doctor recommendations.
type RecommendationRepository interface {
	Create(ctx context.Context, r *domain.Recommendation) error
	ListForUser(ctx context.Context, userID int64) ([]domain.RecommendationWithSymptom, error)
}

// AppointmentRepository persists appointment bookings.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	ListForPatient(ctx context.Context, patientID int64) ([]domain.AppointmentWithName, error)
	ListForDoctor(ctx context.Context, doctorID int64) ([]domain.AppointmentWithName, error)
}

// Repositories groups the stores the clinic service depends on.
type Repositories struct {
	Users           UserReader
	Symptoms        SymptomRepository
	Recommendations RecommendationRepository
	Appointments    AppointmentRepository
}

// Service implements Usecase.
type Service struct {
	users           UserReader
	symptoms        SymptomRepository
	recommendations RecommendationRepository
	appointments    AppointmentRepository
	log             *zap.Logger
	validate        *validator.Validate
	now             func() time.Time
}

// New creates a clinic service over the given repositories.
func New(repos Repositories, log *zap.Logger) *Service {
	return &Service{
		users:           repos.Users,
		symptoms:        repos.Symptoms,
		recommendations: repos.Recommendations,
		appointments:    repos.Appointments,
		log:             log,
		validate:        usecase.NewValidator(),
		now:             time.Now,
	}
}

// SubmitSymptom records a symptom report owned by the calling patient.
func (s *Service) SubmitSymptom(ctx context.Context, who *user.Identity, in SubmitSymptomRequest) (*domain.Symptom, error) {
	if !who.IsPatient() {
		return nil, pkgerrors.ErrForbidden
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	symptom := &domain.Symptom{
		Description: in.Symptoms,
		CreatedAt:   s.now(),
		UserID:      who.ID,
	}
	if err := s.symptoms.Create(ctx, symptom); err != nil {
		s.log.Error("failed to submit symptom", zap.Int64("user_id", who.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("symptom submitted", zap.Int64("id", symptom.ID), zap.Int64("user_id", who.ID))
	return symptom, nil
}

// ListDoctors returns every doctor a patient can book.
func (s *Service) ListDoctors(ctx context.Context, who *user.Identity) ([]Doctor, error) {
	if !who.IsPatient() {
		return nil, pkgerrors.ErrForbidden
	}

	users, err := s.users.ListByRole(ctx, user.RoleDoctor)
	if err != nil {
		s.log.Error("failed to list doctors", zap.Error(err))
		return nil, err
	}

	doctors := make([]Doctor, 0, len(users))
	for _, u := range users {
		doctors = append(doctors, Doctor{ID: u.ID, Name: u.Name})
	}
	return doctors, nil
}

// BookAppointment books the calling patient with a doctor on the given date.
// The date is stored as submitted.
func (s *Service) BookAppointment(ctx context.Context, who *user.Identity, in BookAppointmentRequest) (*domain.Appointment, error) {
	if !who.IsPatient() {
		return nil, pkgerrors.ErrForbidden
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	doctorID, err := parseID(in.DoctorID)
	if err != nil {
		return nil, pkgerrors.ErrInvalidDoctorID
	}
	doctor, err := s.users.GetByID(ctx, doctorID)
	if err != nil {
		s.log.Error("failed to load doctor", zap.Int64("doctor_id", doctorID), zap.Error(err))
		return nil, err
	}
	if doctor == nil || doctor.Role != user.RoleDoctor {
		s.log.Warn("booking with unknown doctor", zap.Int64("doctor_id", doctorID), zap.Int64("patient_id", who.ID))
		return nil, pkgerrors.ErrInvalidDoctorID
	}

	appt := &domain.Appointment{
		Date:      in.Date,
		PatientID: who.ID,
		DoctorID:  doctor.ID,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		s.log.Error("failed to book appointment", zap.Int64("patient_id", who.ID), zap.Error(err))
		return nil, err
	}

	s.log.Info("appointment booked",
		zap.Int64("id", appt.ID),
		zap.Int64("patient_id", who.ID),
		zap.Int64("doctor_id", doctor.ID),
	)
	return appt, nil
}

// AddRecommendation stores a doctor's answer to a symptom. The recommendation is
// addressed to the symptom's owner; the client never picks the recipient.
func (s *Service) AddRecommendation(ctx context.Context, who *user.Identity, in AddRecommendationRequest) (*domain.Recommendation, error) {
	if !who.IsDoctor() {
		return nil, pkgerrors.ErrForbidden
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	symptomID, err := parseID(in.SymptomID)
	if err != nil {
		return nil, pkgerrors.ErrInvalidSymptomID
	}
	symptom, err := s.symptoms.GetByID(ctx, symptomID)
	if err != nil {
		s.log.Error("failed to load symptom", zap.Int64("symptom_id", symptomID), zap.Error(err))
		return nil, err
	}
	if symptom == nil {
		s.log.Warn("recommendation for unknown symptom", zap.Int64("symptom_id", symptomID))
		return nil, pkgerrors.ErrInvalidSymptomID
	}

	rec := &domain.Recommendation{
		Text:      in.Text,
		CreatedAt: s.now(),
		UserID:    symptom.UserID,
		SymptomID: symptom.ID,
	}
	if err := s.recommendations.Create(ctx, rec); err != nil {
		s.log.Error("failed to add recommendation", zap.Int64("symptom_id", symptomID), zap.Error(err))
		return nil, err
	}

	s.log.Info("recommendation added",
		zap.Int64("id", rec.ID),
		zap.Int64("symptom_id", symptom.ID),
		zap.Int64("doctor_id", who.ID),
	)
	return rec, nil
}

// Dashboard loads the landing view for the calling identity.
func (s *Service) Dashboard(ctx context.Context, who *user.Identity) (*Dashboard, error) {
	switch {
	case who.IsPatient():
		return s.patientDashboard(ctx, who)
	case who.IsDoctor():
		return s.doctorDashboard(ctx, who)
	default:
		return nil, pkgerrors.ErrForbidden
	}
}

func (s *Service) patientDashboard(ctx context.Context, who *user.Identity) (*Dashboard, error) {
	d := &Dashboard{Identity: who}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.Symptoms, err = s.symptoms.ListByUser(gctx, who.ID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Recommendations, err = s.recommendations.ListForUser(gctx, who.ID)
		return err
	})
	g.Go(func() error {
		var err error
		d.Appointments, err = s.appointments.ListForPatient(gctx, who.ID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to load patient dashboard", zap.Int64("user_id", who.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return d, nil
}

func (s *Service) doctorDashboard(ctx context.Context, who *user.Identity) (*Dashboard, error) {
	d := &Dashboard{Identity: who}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		d.AllSymptoms, err = s.symptoms.ListAllWithPatient(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		d.Appointments, err = s.appointments.ListForDoctor(gctx, who.ID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.log.Error("failed to load doctor dashboard", zap.Int64("user_id", who.ID), zap.Error(err))
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return d, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive: %d", id)
	}
	return id, nil
}
