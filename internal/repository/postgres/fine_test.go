package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"equipbook-backend/internal/domain"
)

func TestFineRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewFineRepository(db)
	ctx := context.Background()

	reservationID := int32(100)
	fine := &domain.Fine{
		UserID:         7,
		ReservationID:  &reservationID,
		AmountCents:    1500,
		Status:         domain.FineStatusPending,
		DaysLate:       3,
		DailyRateCents: 500,
		Description:    "Late return",
		DueDate:        time.Date(2024, 6, 22, 0, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery("INSERT INTO fines").
		WithArgs(fine.UserID, fine.ReservationID, fine.AmountCents, fine.Status, fine.DaysLate,
			fine.DailyRateCents, fine.Description, fine.DueDate, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	assert.NoError(t, repo.Create(ctx, fine))
	assert.Equal(t, int32(5), fine.ID)
}

func TestFineRepository_Resolve(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewFineRepository(db)
	ctx := context.Background()

	t.Run("UnresolvedFine", func(t *testing.T) {
		mock.ExpectExec("UPDATE fines").
			WithArgs(domain.FineStatusPaid, int32(1), "paid at desk", sqlmock.AnyArg(), int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Resolve(ctx, 5, domain.FineStatusPaid, 1, "paid at desk")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("AlreadyTerminal", func(t *testing.T) {
		mock.ExpectExec("UPDATE fines").
			WithArgs(domain.FineStatusWaived, int32(1), "", sqlmock.AnyArg(), int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Resolve(ctx, 5, domain.FineStatusWaived, 1, "")
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestFineRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewFineRepository(db)
	ctx := context.Background()
	asOf := time.Date(2024, 6, 20, 2, 0, 0, 0, time.UTC)

	// Two fines for user 7 and one for user 9 promote in the same sweep; one
	// entry comes back per promoted fine so callers can count promotions.
	mock.ExpectQuery("UPDATE fines").
		WithArgs(asOf).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(7).AddRow(7).AddRow(9))

	userIDs, err := repo.MarkOverdue(ctx, asOf)
	assert.NoError(t, err)
	assert.Equal(t, []int32{7, 7, 9}, userIDs)
}

func TestFineRepository_ComputeStanding(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewFineRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM fines WHERE user_id = \\$1").
		WithArgs(int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"total_owed", "overdue_count"}).AddRow(2000, 1))

	totalOwed, overdueCount, err := repo.ComputeStanding(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int32(2000), totalOwed)
	assert.Equal(t, int32(1), overdueCount)
}

func TestFineRepository_GetStanding(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewFineRepository(db)
	ctx := context.Background()

	t.Run("ExistingRow", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "hold", "hold_reason", "total_owed_cents", "overdue_count", "updated_on"}).
			AddRow(7, true, "1 overdue fine(s) totaling 2000 cents unpaid", 2000, 1, time.Now())
		mock.ExpectQuery("SELECT (.+) FROM account_standing WHERE user_id = \\$1").
			WithArgs(int32(7)).
			WillReturnRows(rows)

		standing, err := repo.GetStanding(ctx, 7)
		assert.NoError(t, err)
		assert.True(t, standing.Hold)
		assert.Equal(t, int32(2000), standing.TotalOwedCents)
	})

	// No ledger history reads as a clean account, never an error.
	t.Run("NoHistory", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM account_standing WHERE user_id = \\$1").
			WithArgs(int32(8)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		standing, err := repo.GetStanding(ctx, 8)
		assert.NoError(t, err)
		assert.Equal(t, int32(8), standing.UserID)
		assert.False(t, standing.Hold)
		assert.Equal(t, int32(0), standing.TotalOwedCents)
	})
}

func TestFineRepository_UpsertStanding(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()
	repo := NewFineRepository(db)
	ctx := context.Background()

	standing := &domain.AccountStanding{
		UserID:         7,
		Hold:           true,
		HoldReason:     "overdue",
		TotalOwedCents: 2000,
		OverdueCount:   1,
	}
	mock.ExpectExec("INSERT INTO account_standing").
		WithArgs(standing.UserID, standing.Hold, standing.HoldReason, standing.TotalOwedCents, standing.OverdueCount, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpsertStanding(ctx, standing))
}
