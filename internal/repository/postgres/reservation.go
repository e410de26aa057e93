package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/logger"
	"equipbook-backend/internal/repository"
)

const reservationColumns = `id, requester_id, equipment_id, start_date, end_date, status, COALESCE(purpose, ''), created_on, updated_on`

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) CreateIfAvailable(ctx context.Context, rv *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Serialize admissions per equipment item: concurrent admits for the
	// same item queue behind this row lock, so the overlap re-check below
	// always sees committed state.
	var equipmentID int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM equipment WHERE id = $1 FOR UPDATE`, rv.EquipmentID).Scan(&equipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("equipment %d: %w", rv.EquipmentID, domain.ErrNotFound)
		}
		return err
	}

	var conflicts int32
	err = tx.QueryRowContext(ctx, `
		SELECT count(*) FROM reservations
		WHERE equipment_id = $1
		  AND status IN ('PENDING', 'APPROVED')
		  AND start_date <= $3 AND end_date >= $2`,
		rv.EquipmentID, rv.StartDate, rv.EndDate).Scan(&conflicts)
	if err != nil {
		return err
	}
	if conflicts > 0 {
		return domain.ErrAvailabilityConflict
	}

	now := time.Now()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO reservations (requester_id, equipment_id, start_date, end_date, status, purpose, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		rv.RequesterID, rv.EquipmentID, rv.StartDate, rv.EndDate, rv.Status, rv.Purpose, now, now).Scan(&rv.ID)
	if err != nil {
		if isCommitConflict(err) {
			return domain.ErrStorageConflict
		}
		return err
	}
	rv.CreatedOn = now
	rv.UpdatedOn = now

	if err := tx.Commit(); err != nil {
		// The exclusion constraint is the second guard: it can still fire
		// here against a transaction that committed after our re-check.
		if isCommitConflict(err) {
			return domain.ErrStorageConflict
		}
		return err
	}
	logger.DatabaseResult("reservation.create", 1, nil, "reservation_id", rv.ID)
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	rv := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rv.ID, &rv.RequesterID, &rv.EquipmentID, &rv.StartDate, &rv.EndDate, &rv.Status, &rv.Purpose, &rv.CreatedOn, &rv.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reservation %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return rv, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, from, to domain.ReservationStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = $1, updated_on = $2 WHERE id = $3 AND status = $4`,
		to, time.Now(), id, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *reservationRepository) HasOverlap(ctx context.Context, equipmentID int32, start, end time.Time, excludeID int32) (bool, error) {
	query := `
		SELECT count(*) FROM reservations
		WHERE equipment_id = $1
		  AND status IN ('PENDING', 'APPROVED')
		  AND start_date <= $3 AND end_date >= $2`
	args := []interface{}{equipmentID, start, end}
	if excludeID != 0 {
		query += ` AND id <> $4`
		args = append(args, excludeID)
	}
	var count int32
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reservationRepository) CountStartingBetween(ctx context.Context, userID int32, from, to time.Time) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM reservations
		WHERE requester_id = $1
		  AND status IN ('PENDING', 'APPROVED')
		  AND start_date >= $2 AND start_date <= $3`,
		userID, from, to).Scan(&count)
	return count, err
}

func (r *reservationRepository) CountActiveOrPending(ctx context.Context, userID int32, today time.Time) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `
		SELECT count(*) FROM reservations
		WHERE requester_id = $1
		  AND (status = 'PENDING'
		       OR (status = 'APPROVED' AND start_date <= $2 AND end_date >= $2))`,
		userID, today).Scan(&count)
	return count, err
}

func (r *reservationRepository) ListByRequester(ctx context.Context, userID int32, status string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE requester_id = $1`
	args := []interface{}{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var rv domain.Reservation
		if err := rows.Scan(&rv.ID, &rv.RequesterID, &rv.EquipmentID, &rv.StartDate, &rv.EndDate, &rv.Status, &rv.Purpose, &rv.CreatedOn, &rv.UpdatedOn); err != nil {
			return nil, err
		}
		reservations = append(reservations, rv)
	}
	return reservations, rows.Err()
}
