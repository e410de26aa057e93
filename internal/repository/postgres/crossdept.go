package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/repository"
)

const crossDeptColumns = `id, requesting_user_id, requesting_unit_id, target_unit_id, equipment_type, quantity, start_date, end_date, COALESCE(justification, ''), status, routing_type, broadcast_group_id, available_at_target, COALESCE(review_notes, ''), reviewed_by, reviewed_at, created_on`

type crossDepartmentRepository struct {
	db *sql.DB
}

func NewCrossDepartmentRepository(db *sql.DB) repository.CrossDepartmentRepository {
	return &crossDepartmentRepository{db: db}
}

func (r *crossDepartmentRepository) CreateBatch(ctx context.Context, reqs []*domain.CrossDepartmentRequest) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, req := range reqs {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO cross_department_requests
				(requesting_user_id, requesting_unit_id, target_unit_id, equipment_type, quantity, start_date, end_date, justification, status, routing_type, broadcast_group_id, available_at_target, created_on)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`,
			req.RequestingUserID, req.RequestingUnitID, req.TargetUnitID, req.EquipmentType, req.Quantity,
			req.StartDate, req.EndDate, req.Justification, req.Status, req.RoutingType,
			req.BroadcastGroupID, req.AvailableAtTarget, now).Scan(&req.ID)
		if err != nil {
			return err
		}
		req.CreatedOn = now
	}
	return tx.Commit()
}

func (r *crossDepartmentRepository) GetByID(ctx context.Context, id int32) (*domain.CrossDepartmentRequest, error) {
	req := &domain.CrossDepartmentRequest{}
	err := r.db.QueryRowContext(ctx, `SELECT `+crossDeptColumns+` FROM cross_department_requests WHERE id = $1`, id).Scan(
		&req.ID, &req.RequestingUserID, &req.RequestingUnitID, &req.TargetUnitID, &req.EquipmentType,
		&req.Quantity, &req.StartDate, &req.EndDate, &req.Justification, &req.Status, &req.RoutingType,
		&req.BroadcastGroupID, &req.AvailableAtTarget, &req.ReviewNotes, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cross-department request %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return req, nil
}

func (r *crossDepartmentRepository) Review(ctx context.Context, id int32, to domain.RequestStatus, reviewerID int32, notes string, at time.Time) (bool, error) {
	// Status, reviewer and notes are stamped in one statement so a branch
	// can never be half-reviewed.
	res, err := r.db.ExecContext(ctx, `
		UPDATE cross_department_requests
		SET status = $1, reviewed_by = $2, reviewed_at = $3, review_notes = $4
		WHERE id = $5 AND status = 'PENDING'`,
		to, reviewerID, at, notes, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *crossDepartmentRepository) CancelPending(ctx context.Context, id, requesterID int32) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE cross_department_requests
		SET status = 'CANCELLED'
		WHERE id = $1 AND requesting_user_id = $2 AND status = 'PENDING'`,
		id, requesterID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *crossDepartmentRepository) ListByTargetUnit(ctx context.Context, unitID int32, status string) ([]domain.CrossDepartmentRequest, error) {
	query := `SELECT ` + crossDeptColumns + ` FROM cross_department_requests WHERE target_unit_id = $1`
	args := []interface{}{unitID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_on DESC`
	return r.list(ctx, query, args...)
}

func (r *crossDepartmentRepository) ListByRequester(ctx context.Context, userID int32) ([]domain.CrossDepartmentRequest, error) {
	query := `SELECT ` + crossDeptColumns + ` FROM cross_department_requests WHERE requesting_user_id = $1 ORDER BY created_on DESC`
	return r.list(ctx, query, userID)
}

func (r *crossDepartmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.CrossDepartmentRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.CrossDepartmentRequest
	for rows.Next() {
		var req domain.CrossDepartmentRequest
		if err := rows.Scan(&req.ID, &req.RequestingUserID, &req.RequestingUnitID, &req.TargetUnitID, &req.EquipmentType,
			&req.Quantity, &req.StartDate, &req.EndDate, &req.Justification, &req.Status, &req.RoutingType,
			&req.BroadcastGroupID, &req.AvailableAtTarget, &req.ReviewNotes, &req.ReviewedBy, &req.ReviewedAt, &req.CreatedOn); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
