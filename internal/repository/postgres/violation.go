package postgres

import (
	"context"
	"database/sql"
	"time"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/repository"
)

type policyViolationRepository struct {
	db *sql.DB
}

func NewPolicyViolationRepository(db *sql.DB) repository.PolicyViolationRepository {
	return &policyViolationRepository{db: db}
}

func (r *policyViolationRepository) Create(ctx context.Context, v *domain.PolicyViolation) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO policy_violations (user_id, violation_type, details, attempted_equipment_id, attempted_start_date, attempted_end_date, blocked, created_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		v.UserID, v.ViolationType, v.Details, v.AttemptedEquipmentID, v.AttemptedStartDate, v.AttemptedEndDate, v.Blocked, time.Now()).Scan(&v.ID)
}

type trainingRepository struct {
	db *sql.DB
}

func NewTrainingRepository(db *sql.DB) repository.TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) HasCompleted(ctx context.Context, userID int32, category string) (bool, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM training_records
		WHERE user_id = $1 AND category = $2 AND completed_on IS NOT NULL`,
		userID, category).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
