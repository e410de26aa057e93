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

const fineColumns = `id, user_id, reservation_id, amount_cents, status, days_late, daily_rate_cents, COALESCE(description, ''), due_date, resolved_by, COALESCE(resolution_note, ''), created_on, updated_on`

type fineRepository struct {
	db *sql.DB
}

func NewFineRepository(db *sql.DB) repository.FineRepository {
	return &fineRepository{db: db}
}

func (r *fineRepository) Create(ctx context.Context, f *domain.Fine) error {
	now := time.Now()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO fines (user_id, reservation_id, amount_cents, status, days_late, daily_rate_cents, description, due_date, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
		f.UserID, f.ReservationID, f.AmountCents, f.Status, f.DaysLate, f.DailyRateCents, f.Description, f.DueDate, now, now).Scan(&f.ID)
	if err != nil {
		return err
	}
	f.CreatedOn = now
	f.UpdatedOn = now
	return nil
}

func (r *fineRepository) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	f := &domain.Fine{}
	err := r.db.QueryRowContext(ctx, `SELECT `+fineColumns+` FROM fines WHERE id = $1`, id).Scan(
		&f.ID, &f.UserID, &f.ReservationID, &f.AmountCents, &f.Status, &f.DaysLate, &f.DailyRateCents,
		&f.Description, &f.DueDate, &f.ResolvedBy, &f.ResolutionNote, &f.CreatedOn, &f.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("fine %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

func (r *fineRepository) Resolve(ctx context.Context, id int32, outcome domain.FineStatus, actorID int32, note string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE fines
		SET status = $1, resolved_by = $2, resolution_note = $3, updated_on = $4
		WHERE id = $5 AND status IN ('PENDING', 'OVERDUE')`,
		outcome, actorID, note, time.Now(), id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *fineRepository) MarkOverdue(ctx context.Context, asOf time.Time) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE fines
		SET status = 'OVERDUE', updated_on = $1
		WHERE status = 'PENDING' AND due_date < $1
		RETURNING user_id`, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var userIDs []int32
	for rows.Next() {
		var userID int32
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, userID)
	}
	return userIDs, rows.Err()
}

func (r *fineRepository) List(ctx context.Context, userID int32, status string) ([]domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE 1=1`
	args := []interface{}{}
	if userID != 0 {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += ` ORDER BY created_on DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []domain.Fine
	for rows.Next() {
		var f domain.Fine
		if err := rows.Scan(&f.ID, &f.UserID, &f.ReservationID, &f.AmountCents, &f.Status, &f.DaysLate, &f.DailyRateCents,
			&f.Description, &f.DueDate, &f.ResolvedBy, &f.ResolutionNote, &f.CreatedOn, &f.UpdatedOn); err != nil {
			return nil, err
		}
		fines = append(fines, f)
	}
	return fines, rows.Err()
}

func (r *fineRepository) ComputeStanding(ctx context.Context, userID int32) (int32, int32, error) {
	var totalOwed, overdueCount int32
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status IN ('PENDING', 'OVERDUE') THEN amount_cents ELSE 0 END), 0),
			COUNT(CASE WHEN status = 'OVERDUE' THEN 1 END)
		FROM fines WHERE user_id = $1`, userID).Scan(&totalOwed, &overdueCount)
	return totalOwed, overdueCount, err
}

func (r *fineRepository) UpsertStanding(ctx context.Context, s *domain.AccountStanding) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO account_standing (user_id, hold, hold_reason, total_owed_cents, overdue_count, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET hold = EXCLUDED.hold,
		    hold_reason = EXCLUDED.hold_reason,
		    total_owed_cents = EXCLUDED.total_owed_cents,
		    overdue_count = EXCLUDED.overdue_count,
		    updated_on = EXCLUDED.updated_on`,
		s.UserID, s.Hold, s.HoldReason, s.TotalOwedCents, s.OverdueCount, time.Now())
	return err
}

func (r *fineRepository) GetStanding(ctx context.Context, userID int32) (*domain.AccountStanding, error) {
	s := &domain.AccountStanding{}
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, hold, COALESCE(hold_reason, ''), total_owed_cents, overdue_count, updated_on
		FROM account_standing WHERE user_id = $1`, userID).Scan(
		&s.UserID, &s.Hold, &s.HoldReason, &s.TotalOwedCents, &s.OverdueCount, &s.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No ledger history yet means a clean account.
			return &domain.AccountStanding{UserID: userID}, nil
		}
		return nil, err
	}
	return s, nil
}
