package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-service/internal/domain/clinic"
)

// SymptomRepo implements symptom persistence using GORM.
type SymptomRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSymptomRepo creates a new instance of SymptomRepo.
func NewSymptomRepo(db *gorm.DB, log *zap.Logger) *SymptomRepo {
	return &SymptomRepo{db: db, log: log}
}

// Create inserts a symptom and fills in its ID and timestamp.
func (r *SymptomRepo) Create(ctx context.Context, s *clinic.Symptom) error {
	if s == nil {
		return errors.New("symptom cannot be nil")
	}

	model := SymptomSchema{
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UserID:      s.UserID,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		r.log.Error("failed to create symptom in db", zap.Error(err), zap.Int64("user_id", s.UserID))
		return fmt.Errorf("failed to create symptom: %w", err)
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	r.log.Info("symptom created in db", zap.Int64("id", model.ID), zap.Int64("user_id", model.UserID))
	return nil
}

// GetByID retrieves a symptom by ID. It returns nil, nil when no row matches.
func (r *SymptomRepo) GetByID(ctx context.Context, id int64) (*clinic.Symptom, error) {
	var model SymptomSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("symptom not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get symptom from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get symptom: %w", err)
	}

	return &clinic.Symptom{
		ID:          model.ID,
		Description: model.Description,
		CreatedAt:   model.CreatedAt,
		UserID:      model.UserID,
	}, nil
}

// ListByUser returns the symptoms owned by userID in submission order.
func (r *SymptomRepo) ListByUser(ctx context.Context, userID int64) ([]clinic.Symptom, error) {
	var models []SymptomSchema
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list symptoms", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to list symptoms: %w", err)
	}

	symptoms := make([]clinic.Symptom, len(models))
	for i, m := range models {
		symptoms[i] = clinic.Symptom{
			ID:          m.ID,
			Description: m.Description,
			CreatedAt:   m.CreatedAt,
			UserID:      m.UserID,
		}
	}
	return symptoms, nil
}

type symptomPatientRow struct {
	ID          int64
	Description string
	CreatedAt   time.Time
	UserID      int64
	PatientName string
}

// ListAllWithPatient returns every symptom joined with its owner's name.
func (r *SymptomRepo) ListAllWithPatient(ctx context.Context) ([]clinic.SymptomWithPatient, error) {
	var rows []symptomPatientRow
	err := r.db.WithContext(ctx).
		Table("symptoms AS s").
		Select("s.id, s.description, s.date AS created_at, s.user_id, u.name AS patient_name").
		Joins("JOIN users AS u ON s.user_id = u.id").
		Order("s.id").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to list symptoms with patients", zap.Error(err))
		return nil, fmt.Errorf("failed to list symptoms: %w", err)
	}

	out := make([]clinic.SymptomWithPatient, len(rows))
	for i, row := range rows {
		out[i] = clinic.SymptomWithPatient{
			Symptom: clinic.Symptom{
				ID:          row.ID,
				Description: row.Description,
				CreatedAt:   row.CreatedAt,
				UserID:      row.UserID,
			},
			PatientName: row.PatientName,
		}
	}
	return out, nil
}
