package clinic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "clinic-service/internal/domain/clinic"
	"clinic-service/internal/domain/user"
	pkgerrors "clinic-service/pkg/errors"
)

type MockUsers struct{ mock.Mock }

func (m *MockUsers) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUsers) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]user.User), args.Error(1)
}

type MockSymptoms struct{ mock.Mock }

func (m *MockSymptoms) Create(ctx context.Context, s *domain.Symptom) error {
	args := m.Called(ctx, s)
	if args.Error(0) == nil {
		s.ID = 10
	}
	return args.Error(0)
}

func (m *MockSymptoms) GetByID(ctx context.Context, id int64) (*domain.Symptom, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Symptom), args.Error(1)
}

func (m *MockSymptoms) ListByUser(ctx context.Context, userID int64) ([]domain.Symptom, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Symptom), args.Error(1)
}

func (m *MockSymptoms) ListAllWithPatient(ctx context.Context) ([]domain.SymptomWithPatient, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.SymptomWithPatient), args.Error(1)
}

type MockRecommendations struct{ mock.Mock }

func (m *MockRecommendations) Create(ctx context.Context, r *domain.Recommendation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRecommendations) ListForUser(ctx context.Context, userID int64) ([]domain.RecommendationWithSymptom, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.RecommendationWithSymptom), args.Error(1)
}

type MockAppointments struct{ mock.Mock }

func (m *MockAppointments) Create(ctx context.Context, a *domain.Appointment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAppointments) ListForPatient(ctx context.Context, patientID int64) ([]domain.AppointmentWithName, error) {
	args := m.Called(ctx, patientID)
	return args.Get(0).([]domain.AppointmentWithName), args.Error(1)
}

func (m *MockAppointments) ListForDoctor(ctx context.Context, doctorID int64) ([]domain.AppointmentWithName, error) {
	args := m.Called(ctx, doctorID)
	return args.Get(0).([]domain.AppointmentWithName), args.Error(1)
}

type mocks struct {
	users           *MockUsers
	symptoms        *MockSymptoms
	recommendations *MockRecommendations
	appointments    *MockAppointments
}

var (
	patient = &user.Identity{ID: 1, Name: "Ana", Email: "a@x", Role: user.RolePatient}
	doctor  = &user.Identity{ID: 2, Name: "Dr B", Email: "b@x", Role: user.RoleDoctor}
	fixedAt = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
)

func setupTestService(t *testing.T) (*Service, *mocks) {
	m := &mocks{
		users:           new(MockUsers),
		symptoms:        new(MockSymptoms),
		recommendations: new(MockRecommendations),
		appointments:    new(MockAppointments),
	}
	svc := New(Repositories{
		Users:           m.users,
		Symptoms:        m.symptoms,
		Recommendations: m.recommendations,
		Appointments:    m.appointments,
	}, zaptest.NewLogger(t))
	svc.now = func() time.Time { return fixedAt }
	return svc, m
}

// ==================== SYMPTOMS ====================

func TestSubmitSymptom_Success(t *testing.T) {
	svc, m := setupTestService(t)
	ctx := context.Background()

	m.symptoms.On("Create", ctx, mock.MatchedBy(func(s *domain.Symptom) bool {
		return s.Description == "cough" && s.UserID == patient.ID && s.CreatedAt.Equal(fixedAt)
	})).Return(nil)

	got, err := svc.SubmitSymptom(ctx, patient, SubmitSymptomRequest{Symptoms: "cough"})

	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	m.symptoms.AssertExpectations(t)
}

func TestSubmitSymptom_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		who     *user.Identity
		in      SubmitSymptomRequest
		wantErr string
	}{
		{"anonymous", nil, SubmitSymptomRequest{Symptoms: "cough"}, "Forbidden"},
		{"doctor", doctor, SubmitSymptomRequest{Symptoms: "cough"}, "Forbidden"},
		{"empty text", patient, SubmitSymptomRequest{}, "symptoms is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := setupTestService(t)

			_, err := svc.SubmitSymptom(context.Background(), tt.who, tt.in)

			assert.EqualError(t, err, tt.wantErr)
			m.symptoms.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitSymptom_StoreError(t *testing.T) {
	svc, m := setupTestService(t)
	ctx := context.Background()

	m.symptoms.On("Create", ctx, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.SubmitSymptom(ctx, patient, SubmitSymptomRequest{Symptoms: "cough"})
	assert.ErrorContains(t, err, "disk full")
}

// ==================== APPOINTMENTS ====================

func TestListDoctors(t *testing.T) {
	svc, m := setupTestService(t)
	ctx := context.Background()

	m.users.On("ListByRole", ctx, user.RoleDoctor).Return([]user.User{
		{ID: 2, Name: "Dr B", Role: user.RoleDoctor},
		{ID: 5, Name: "Dr C", Role: user.RoleDoctor},
	}, nil)

	doctors, err := svc.ListDoctors(ctx, patient)

	require.NoError(t, err)
	assert.Equal(t, []Doctor{{ID: 2, Name: "Dr B"}, {ID: 5, Name: "Dr C"}}, doctors)

	_, err = svc.ListDoctors(ctx, doctor)
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
}

func TestBookAppointment_Success(t *testing.T) {
	svc, m := setupTestService(t)
	ctx := context.Background()

	m.users.On("GetByID", ctx, int64(2)).Return(&user.User{ID: 2, Name: "Dr B", Role: user.RoleDoctor}, nil)
	m.appointments.On("Create", ctx, &domain.Appointment{Date: "2024-06-01", PatientID: 1, DoctorID: 2}).Return(nil)

	appt, err := svc.BookAppointment(ctx, patient, BookAppointmentRequest{DoctorID: "2", Date: "2024-06-01"})

	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", appt.Date)
	m.appointments.AssertExpectations(t)
}

func TestBookAppointment_InvalidDoctor(t *testing.T) {
	tests := []struct {
		name     string
		doctorID string
		setup    func(m *mocks)
	}{
		{"not a number", "abc", func(*mocks) {}},
		{"zero", "0", func(*mocks) {}},
		{"missing user", "9", func(m *mocks) {
			m.users.On("GetByID", mock.Anything, int64(9)).Return(nil, nil)
		}},
		{"patient id", "1", func(m *mocks) {
			m.users.On("GetByID", mock.Anything, int64(1)).Return(&user.User{ID: 1, Role: user.RolePatient}, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := setupTestService(t)
			tt.setup(m)

			_, err := svc.BookAppointment(context.Background(), patient, BookAppointmentRequest{DoctorID: tt.doctorID, Date: "2024-06-01"})

			assert.ErrorIs(t, err, pkgerrors.ErrInvalidDoctorID)
			m.appointments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestBookAppointment_Validation(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.BookAppointment(context.Background(), patient, BookAppointmentRequest{DoctorID: "2"})
	assert.EqualError(t, err, "date is required")

	_, err = svc.BookAppointment(context.Background(), doctor, BookAppointmentRequest{DoctorID: "2", Date: "x"})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
}

// ==================== RECOMMENDATIONS ====================

func TestAddRecommendation_TargetsSymptomOwner(t *testing.T) {
	svc, m := setupTestService(t)
	ctx := context.Background()

	m.symptoms.On("GetByID", ctx, int64(7)).Return(&domain.Symptom{ID: 7, UserID: 42, Description: "cough"}, nil)
	m.recommendations.On("Create", ctx, mock.MatchedBy(func(r *domain.Recommendation) bool {
		return r.UserID == 42 && r.SymptomID == 7 && r.Text == "rest" && r.CreatedAt.Equal(fixedAt)
	})).Return(nil)

	rec, err := svc.AddRecommendation(ctx, doctor, AddRecommendationRequest{Text: "rest", SymptomID: "7"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), rec.UserID)
	m.recommendations.AssertExpectations(t)
}

func TestAddRecommendation_InvalidSymptom(t *testing.T) {
	svc, m := setupTestService(t)
	ctx := context.Background()

	m.symptoms.On("GetByID", ctx, int64(999)).Return(nil, nil)

	_, err := svc.AddRecommendation(ctx, doctor, AddRecommendationRequest{Text: "rest", SymptomID: "999"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidSymptomID)
	assert.EqualError(t, err, "Invalid symptom ID")

	_, err = svc.AddRecommendation(ctx, doctor, AddRecommendationRequest{Text: "rest", SymptomID: "seven"})
	assert.ErrorIs(t, err, pkgerrors.ErrInvalidSymptomID)

	m.recommendations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAddRecommendation_Rejections(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.AddRecommendation(context.Background(), patient, AddRecommendationRequest{Text: "rest", SymptomID: "1"})
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	_, err = svc.AddRecommendation(context.Background(), doctor, AddRecommendationRequest{SymptomID: "1"})
	assert.EqualError(t, err, "text is required")
}

// ==================== DASHBOARD ====================

func TestDashboard_Patient(t *testing.T) {
	svc, m := setupTestService(t)

	m.symptoms.On("ListByUser", mock.Anything, patient.ID).Return([]domain.Symptom{{ID: 1, Description: "cough", UserID: 1}}, nil)
	m.recommendations.On("ListForUser", mock.Anything, patient.ID).Return([]domain.RecommendationWithSymptom{
		{Recommendation: domain.Recommendation{ID: 3, Text: "rest", SymptomID: 1, UserID: 1}, SymptomDescription: "cough"},
	}, nil)
	m.appointments.On("ListForPatient", mock.Anything, patient.ID).Return([]domain.AppointmentWithName{}, nil)

	d, err := svc.Dashboard(context.Background(), patient)

	require.NoError(t, err)
	assert.Same(t, patient, d.Identity)
	require.Len(t, d.Symptoms, 1)
	require.Len(t, d.Recommendations, 1)
	assert.Equal(t, "cough", d.Recommendations[0].SymptomDescription)
	assert.Nil(t, d.AllSymptoms)
	m.symptoms.AssertNotCalled(t, "ListAllWithPatient", mock.Anything)
}

func TestDashboard_Doctor(t *testing.T) {
	svc, m := setupTestService(t)

	m.symptoms.On("ListAllWithPatient", mock.Anything).Return([]domain.SymptomWithPatient{
		{Symptom: domain.Symptom{ID: 1, Description: "cough", UserID: 1}, PatientName: "Ana"},
		{Symptom: domain.Symptom{ID: 2, Description: "fever", UserID: 3}, PatientName: "Cid"},
	}, nil)
	m.appointments.On("ListForDoctor", mock.Anything, doctor.ID).Return([]domain.AppointmentWithName{
		{Appointment: domain.Appointment{ID: 1, Date: "2024-06-01", PatientID: 1, DoctorID: 2}, CounterpartName: "Ana"},
	}, nil)

	d, err := svc.Dashboard(context.Background(), doctor)

	require.NoError(t, err)
	assert.Len(t, d.AllSymptoms, 2)
	assert.Len(t, d.Appointments, 1)
	assert.Nil(t, d.Symptoms)
	m.symptoms.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
}

func TestDashboard_Errors(t *testing.T) {
	svc, m := setupTestService(t)

	_, err := svc.Dashboard(context.Background(), nil)
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)

	m.symptoms.On("ListByUser", mock.Anything, patient.ID).Return([]domain.Symptom(nil), errors.New("db down"))
	m.recommendations.On("ListForUser", mock.Anything, patient.ID).Return([]domain.RecommendationWithSymptom(nil), nil)
	m.appointments.On("ListForPatient", mock.Anything, patient.ID).Return([]domain.AppointmentWithName(nil), nil)

	_, err = svc.Dashboard(context.Background(), patient)
	assert.ErrorContains(t, err, "db down")
}
