package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-service/internal/domain/clinic"
)

// AppointmentRepo implements appointment persistence using GORM.
type AppointmentRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewAppointmentRepo creates a new instance of AppointmentRepo.
func NewAppointmentRepo(db *gorm.DB, log *zap.Logger) *AppointmentRepo {
	return &AppointmentRepo{db: db, log: log}
}

// Create inserts an appointment and fills in its ID.
func (r *AppointmentRepo) Create(ctx context.Context, a *clinic.Appointment) error {
	if a == nil {
		return errors.New("appointment cannot be nil")
	}

	model := AppointmentSchema{
		Date:      a.Date,
		PatientID: a.PatientID,
		DoctorID:  a.DoctorID,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		r.log.Error("failed to create appointment in db",
			zap.Error(err),
			zap.Int64("patient_id", a.PatientID),
			zap.Int64("doctor_id", a.DoctorID),
		)
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	a.ID = model.ID
	r.log.Info("appointment created in db", zap.Int64("id", model.ID))
	return nil
}

type appointmentNameRow struct {
	ID              int64
	Date            string
	PatientID       int64
	DoctorID        int64
	CounterpartName string
}

// ListForPatient returns the patient's appointments with each doctor's name.
func (r *AppointmentRepo) ListForPatient(ctx context.Context, patientID int64) ([]clinic.AppointmentWithName, error) {
	return r.list(ctx, "a.patient_id = ?", "a.doctor_id", patientID)
}

// ListForDoctor returns the appointments booked with the doctor and each patient's name.
func (r *AppointmentRepo) ListForDoctor(ctx context.Context, doctorID int64) ([]clinic.AppointmentWithName, error) {
	return r.list(ctx, "a.doctor_id = ?", "a.patient_id", doctorID)
}

func (r *AppointmentRepo) list(ctx context.Context, where, joinColumn string, id int64) ([]clinic.AppointmentWithName, error) {
	var rows []appointmentNameRow
	err := r.db.WithContext(ctx).
		Table("appointments AS a").
		Select("a.id, a.date, a.patient_id, a.doctor_id, u.name AS counterpart_name").
		Joins("JOIN users AS u ON " + joinColumn + " = u.id").
		Where(where, id).
		Order("a.id").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to list appointments", zap.Error(err), zap.Int64("user_id", id))
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	out := make([]clinic.AppointmentWithName, len(rows))
	for i, row := range rows {
		out[i] = clinic.AppointmentWithName{
			Appointment: clinic.Appointment{
				ID:        row.ID,
				Date:      row.Date,
				PatientID: row.PatientID,
				DoctorID:  row.DoctorID,
			},
			CounterpartName: row.CounterpartName,
		}
	}
	return out, nil
}
