package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"equipbook-backend/internal/config"
	"equipbook-backend/internal/domain"
)

func newLedgerFixture() (*ledgerService, *MockFineRepo, *MockReservationRepo) {
	fineRepo := new(MockFineRepo)
	reservationRepo := new(MockReservationRepo)
	svc := &ledgerService{
		fineRepo:        fineRepo,
		reservationRepo: reservationRepo,
		cfg:             config.FinesConfig{DailyRateCents: 500, DueDays: 14, HoldThresholdCents: 0},
		now:             func() time.Time { return time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC) },
	}
	return svc, fineRepo, reservationRepo
}

func TestLedgerService_RecordLateFine(t *testing.T) {
	ctx := context.Background()
	endDate := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

	t.Run("OnTimeReturnIsNoOp", func(t *testing.T) {
		svc, fineRepo, reservationRepo := newLedgerFixture()
		reservationRepo.On("GetByID", ctx, int32(100)).Return(&domain.Reservation{ID: 100, RequesterID: 7, EquipmentID: 42, EndDate: endDate}, nil)

		fine, err := svc.RecordLateFine(ctx, 100, 500, endDate)
		assert.NoError(t, err)
		assert.Nil(t, fine)
		fineRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("EarlyReturnIsNoOp", func(t *testing.T) {
		svc, fineRepo, reservationRepo := newLedgerFixture()
		reservationRepo.On("GetByID", ctx, int32(100)).Return(&domain.Reservation{ID: 100, RequesterID: 7, EquipmentID: 42, EndDate: endDate}, nil)

		fine, err := svc.RecordLateFine(ctx, 100, 500, endDate.AddDate(0, 0, -2))
		assert.NoError(t, err)
		assert.Nil(t, fine)
		fineRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("ThreeDaysLate", func(t *testing.T) {
		svc, fineRepo, reservationRepo := newLedgerFixture()
		returnedAt := endDate.AddDate(0, 0, 3)
		reservationRepo.On("GetByID", ctx, int32(100)).Return(&domain.Reservation{ID: 100, RequesterID: 7, EquipmentID: 42, EndDate: endDate}, nil)
		fineRepo.On("Create", ctx, mock.MatchedBy(func(f *domain.Fine) bool {
			return f.UserID == 7 &&
				f.AmountCents == 1500 &&
				f.DaysLate == 3 &&
				f.Status == domain.FineStatusPending &&
				f.DueDate.Equal(returnedAt.AddDate(0, 0, 14))
		})).Return(nil)
		fineRepo.On("ComputeStanding", ctx, int32(7)).Return(int32(1500), int32(0), nil)
		fineRepo.On("UpsertStanding", ctx, mock.MatchedBy(func(s *domain.AccountStanding) bool {
			// Owed but nothing overdue yet: no hold.
			return s.UserID == 7 && s.TotalOwedCents == 1500 && !s.Hold
		})).Return(nil)

		fine, err := svc.RecordLateFine(ctx, 100, 500, returnedAt)
		assert.NoError(t, err)
		assert.Equal(t, int32(1500), fine.AmountCents)
		fineRepo.AssertExpectations(t)
	})

	t.Run("ZeroRateFallsBackToConfig", func(t *testing.T) {
		svc, fineRepo, reservationRepo := newLedgerFixture()
		reservationRepo.On("GetByID", ctx, int32(100)).Return(&domain.Reservation{ID: 100, RequesterID: 7, EquipmentID: 42, EndDate: endDate}, nil)
		fineRepo.On("Create", ctx, mock.MatchedBy(func(f *domain.Fine) bool {
			return f.DailyRateCents == 500 && f.AmountCents == 500
		})).Return(nil)
		fineRepo.On("ComputeStanding", ctx, int32(7)).Return(int32(500), int32(0), nil)
		fineRepo.On("UpsertStanding", ctx, mock.Anything).Return(nil)

		fine, err := svc.RecordLateFine(ctx, 100, 0, endDate.AddDate(0, 0, 1))
		assert.NoError(t, err)
		assert.Equal(t, int32(500), fine.AmountCents)
	})
}

func TestLedgerService_MarkOverdueFines(t *testing.T) {
	ctx := context.Background()

	// Three fines across two users: the count reports promoted fines, while
	// each user's standing recomputes exactly once.
	t.Run("PromotesAndRecomputes", func(t *testing.T) {
		svc, fineRepo, _ := newLedgerFixture()
		fineRepo.On("MarkOverdue", ctx, mock.Anything).Return([]int32{7, 7, 9}, nil)
		fineRepo.On("ComputeStanding", ctx, int32(7)).Return(int32(2000), int32(2), nil).Once()
		fineRepo.On("UpsertStanding", ctx, mock.MatchedBy(func(s *domain.AccountStanding) bool {
			return s.UserID == 7 && s.Hold && s.HoldReason != ""
		})).Return(nil).Once()
		fineRepo.On("ComputeStanding", ctx, int32(9)).Return(int32(500), int32(1), nil).Once()
		fineRepo.On("UpsertStanding", ctx, mock.MatchedBy(func(s *domain.AccountStanding) bool {
			return s.UserID == 9 && s.Hold
		})).Return(nil).Once()

		count, err := svc.MarkOverdueFines(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int32(3), count)
		fineRepo.AssertExpectations(t)
	})

	t.Run("NothingDue", func(t *testing.T) {
		svc, fineRepo, _ := newLedgerFixture()
		fineRepo.On("MarkOverdue", ctx, mock.Anything).Return([]int32{}, nil)

		count, err := svc.MarkOverdueFines(ctx)
		assert.NoError(t, err)
		assert.Equal(t, int32(0), count)
	})
}

func TestLedgerService_ResolveFine(t *testing.T) {
	ctx := context.Background()

	t.Run("PayPendingFine", func(t *testing.T) {
		svc, fineRepo, _ := newLedgerFixture()
		fineRepo.On("GetByID", ctx, int32(5)).Return(&domain.Fine{ID: 5, UserID: 7, Status: domain.FineStatusPending}, nil).Once()
		fineRepo.On("Resolve", ctx, int32(5), domain.FineStatusPaid, int32(1), "paid at desk").Return(true, nil)
		fineRepo.On("ComputeStanding", ctx, int32(7)).Return(int32(0), int32(0), nil)
		fineRepo.On("UpsertStanding", ctx, mock.MatchedBy(func(s *domain.AccountStanding) bool {
			return s.UserID == 7 && !s.Hold && s.TotalOwedCents == 0
		})).Return(nil)
		fineRepo.On("GetByID", ctx, int32(5)).Return(&domain.Fine{ID: 5, UserID: 7, Status: domain.FineStatusPaid}, nil).Once()

		fine, err := svc.ResolveFine(ctx, 5, domain.FineStatusPaid, 1, "paid at desk")
		assert.NoError(t, err)
		assert.Equal(t, domain.FineStatusPaid, fine.Status)
		fineRepo.AssertExpectations(t)
	})

	// Resolving to the outcome the fine already has is a no-op, not an error.
	t.Run("IdempotentSameOutcome", func(t *testing.T) {
		svc, fineRepo, _ := newLedgerFixture()
		fineRepo.On("GetByID", ctx, int32(5)).Return(&domain.Fine{ID: 5, UserID: 7, Status: domain.FineStatusPaid}, nil)

		fine, err := svc.ResolveFine(ctx, 5, domain.FineStatusPaid, 1, "again")
		assert.NoError(t, err)
		assert.Equal(t, domain.FineStatusPaid, fine.Status)
		fineRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("CrossOutcomeOnTerminalFails", func(t *testing.T) {
		svc, fineRepo, _ := newLedgerFixture()
		fineRepo.On("GetByID", ctx, int32(5)).Return(&domain.Fine{ID: 5, UserID: 7, Status: domain.FineStatusPaid}, nil)

		_, err := svc.ResolveFine(ctx, 5, domain.FineStatusWaived, 1, "waive it")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("InvalidOutcome", func(t *testing.T) {
		svc, _, _ := newLedgerFixture()
		_, err := svc.ResolveFine(ctx, 5, domain.FineStatusOverdue, 1, "")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	// A lost race re-reads the row and reports the winner's outcome when it
	// matches the requested one.
	t.Run("LostRaceSameOutcome", func(t *testing.T) {
		svc, fineRepo, _ := newLedgerFixture()
		fineRepo.On("GetByID", ctx, int32(5)).Return(&domain.Fine{ID: 5, UserID: 7, Status: domain.FineStatusPending}, nil).Once()
		fineRepo.On("Resolve", ctx, int32(5), domain.FineStatusPaid, int32(1), "").Return(false, nil)
		fineRepo.On("GetByID", ctx, int32(5)).Return(&domain.Fine{ID: 5, UserID: 7, Status: domain.FineStatusPaid}, nil).Once()

		fine, err := svc.ResolveFine(ctx, 5, domain.FineStatusPaid, 1, "")
		assert.NoError(t, err)
		assert.Equal(t, domain.FineStatusPaid, fine.Status)
	})

	t.Run("OverdueFineCanBeWaived", func(t *testing.T) {
		svc, fineRepo, _ := newLedgerFixture()
		fineRepo.On("GetByID", ctx, int32(6)).Return(&domain.Fine{ID: 6, UserID: 7, Status: domain.FineStatusOverdue}, nil).Once()
		fineRepo.On("Resolve", ctx, int32(6), domain.FineStatusWaived, int32(1), "hardship").Return(true, nil)
		fineRepo.On("ComputeStanding", ctx, int32(7)).Return(int32(0), int32(0), nil)
		fineRepo.On("UpsertStanding", ctx, mock.Anything).Return(nil)
		fineRepo.On("GetByID", ctx, int32(6)).Return(&domain.Fine{ID: 6, UserID: 7, Status: domain.FineStatusWaived}, nil).Once()

		fine, err := svc.ResolveFine(ctx, 6, domain.FineStatusWaived, 1, "hardship")
		assert.NoError(t, err)
		assert.Equal(t, domain.FineStatusWaived, fine.Status)
	})
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 6, 5, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 6, 8, 0, 1, 0, 0, time.UTC)
	// Clock time is irrelevant; only the calendar dates count.
	assert.Equal(t, int32(3), daysBetween(a, b))
	assert.Equal(t, int32(-3), daysBetween(b, a))
	assert.Equal(t, int32(0), daysBetween(a, a))
}
