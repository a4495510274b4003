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

// RecommendationRepo implements recommendation persistence using GORM.
type RecommendationRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRecommendationRepo creates a new instance of RecommendationRepo.
func NewRecommendationRepo(db *gorm.DB, log *zap.Logger) *RecommendationRepo {
	return &RecommendationRepo{db: db, log: log}
}

// Create inserts a recommendation and fills in its ID and timestamp.
func (r *RecommendationRepo) Create(ctx context.Context, rec *clinic.Recommendation) error {
	if rec == nil {
		return errors.New("recommendation cannot be nil")
	}

	model := RecommendationSchema{
		Text:      rec.Text,
		CreatedAt: rec.CreatedAt,
		UserID:    rec.UserID,
		SymptomID: rec.SymptomID,
	}

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&model).Error; err != nil {
		r.log.Error("failed to create recommendation in db", zap.Error(err), zap.Int64("symptom_id", rec.SymptomID))
		return fmt.Errorf("failed to create recommendation: %w", err)
	}

	rec.ID = model.ID
	rec.CreatedAt = model.CreatedAt
	r.log.Info("recommendation created in db",
		zap.Int64("id", model.ID),
		zap.Int64("symptom_id", model.SymptomID),
		zap.Int64("user_id", model.UserID),
	)
	return nil
}

type recommendationSymptomRow struct {
	ID                 int64
	Text               string
	CreatedAt          time.Time
	UserID             int64
	SymptomID          int64
	SymptomDescription string
}

// ListForUser returns the recommendations addressed to userID with the symptom each one answers.
func (r *RecommendationRepo) ListForUser(ctx context.Context, userID int64) ([]clinic.RecommendationWithSymptom, error) {
	var rows []recommendationSymptomRow
	err := r.db.WithContext(ctx).
		Table("recommendations AS r").
		Select("r.id, r.text, r.date AS created_at, r.user_id, r.symptom_id, s.description AS symptom_description").
		Joins("JOIN symptoms AS s ON r.symptom_id = s.id").
		Where("r.user_id = ?", userID).
		Order("r.id").
		Scan(&rows).Error
	if err != nil {
		r.log.Error("failed to list recommendations", zap.Error(err), zap.Int64("user_id", userID))
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}

	out := make([]clinic.RecommendationWithSymptom, len(rows))
	for i, row := range rows {
		out[i] = clinic.RecommendationWithSymptom{
			Recommendation: clinic.Recommendation{
				ID:        row.ID,
				Text:      row.Text,
				CreatedAt: row.CreatedAt,
				UserID:    row.UserID,
				SymptomID: row.SymptomID,
			},
			SymptomDescription: row.SymptomDescription,
		}
	}
	return out, nil
}
