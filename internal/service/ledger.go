package service

import (
	"context"
	"fmt"
	"time"

	"equipbook-backend/internal/config"
	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/logger"
	"equipbook-backend/internal/metrics"
	"equipbook-backend/internal/repository"
)

type ledgerService struct {
	fineRepo        repository.FineRepository
	reservationRepo repository.ReservationRepository
	cfg             config.FinesConfig
	now             func() time.Time
}

func NewLedgerService(
	fineRepo repository.FineRepository,
	reservationRepo repository.ReservationRepository,
	cfg config.FinesConfig,
) LedgerService {
	return &ledgerService{
		fineRepo:        fineRepo,
		reservationRepo: reservationRepo,
		cfg:             cfg,
		now:             time.Now,
	}
}

func (s *ledgerService) RecordLateFine(ctx context.Context, reservationID int32, dailyRateCents int32, returnedAt time.Time) (*domain.Fine, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	daysLate := daysBetween(reservation.EndDate, returnedAt)
	if daysLate <= 0 {
		return nil, nil
	}
	if dailyRateCents <= 0 {
		dailyRateCents = s.cfg.DailyRateCents
	}

	fine := &domain.Fine{
		UserID:         reservation.RequesterID,
		ReservationID:  &reservation.ID,
		AmountCents:    daysLate * dailyRateCents,
		Status:         domain.FineStatusPending,
		DaysLate:       daysLate,
		DailyRateCents: dailyRateCents,
		Description:    fmt.Sprintf("Late return: equipment %d returned %d day(s) after %s", reservation.EquipmentID, daysLate, reservation.EndDate.Format("2006-01-02")),
		DueDate:        returnedAt.AddDate(0, 0, s.cfg.DueDays),
	}
	if err := s.fineRepo.Create(ctx, fine); err != nil {
		return nil, err
	}
	logger.Info("Late fine recorded", "fine_id", fine.ID, "user_id", fine.UserID, "amount_cents", fine.AmountCents, "days_late", daysLate)

	if err := s.recomputeStanding(ctx, fine.UserID); err != nil {
		logger.Error("Failed to recompute standing after fine", "user_id", fine.UserID, "error", err)
	}
	return fine, nil
}

func (s *ledgerService) MarkOverdueFines(ctx context.Context) (int32, error) {
	userIDs, err := s.fineRepo.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, err
	}
	// The count reports promoted fines; standings recompute once per user.
	count := int32(len(userIDs))
	seen := make(map[int32]bool)
	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		if err := s.recomputeStanding(ctx, userID); err != nil {
			logger.Error("Failed to recompute standing after overdue sweep", "user_id", userID, "error", err)
		}
	}
	metrics.OverdueFinesMarkedTotal.Add(float64(count))
	return count, nil
}

// ResolveFine transitions a fine to paid or waived. Resolution is
// idempotent: resolving an already-resolved fine to the same outcome is a
// no-op and the first transition's timestamp stays authoritative.
func (s *ledgerService) ResolveFine(ctx context.Context, fineID int32, outcome domain.FineStatus, actorID int32, note string) (*domain.Fine, error) {
	if outcome != domain.FineStatusPaid && outcome != domain.FineStatusWaived {
		return nil, fmt.Errorf("outcome %q: %w", outcome, domain.ErrInvalidTransition)
	}

	fine, err := s.fineRepo.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}
	if fine.Status == outcome {
		return fine, nil
	}
	if fine.Status.Terminal() {
		return nil, fmt.Errorf("fine %d already %s: %w", fineID, fine.Status, domain.ErrInvalidTransition)
	}

	ok, err := s.fineRepo.Resolve(ctx, fineID, outcome, actorID, note)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race against another resolution; re-read to report the
		// winner's state.
		fine, err = s.fineRepo.GetByID(ctx, fineID)
		if err != nil {
			return nil, err
		}
		if fine.Status == outcome {
			return fine, nil
		}
		return nil, fmt.Errorf("fine %d already %s: %w", fineID, fine.Status, domain.ErrInvalidTransition)
	}

	if err := s.recomputeStanding(ctx, fine.UserID); err != nil {
		logger.Error("Failed to recompute standing after resolution", "user_id", fine.UserID, "error", err)
	}
	logger.Info("Fine resolved", "fine_id", fineID, "outcome", outcome, "actor_id", actorID)
	return s.fineRepo.GetByID(ctx, fineID)
}

func (s *ledgerService) GetStanding(ctx context.Context, userID int32) (*domain.AccountStanding, error) {
	return s.fineRepo.GetStanding(ctx, userID)
}

func (s *ledgerService) ListFines(ctx context.Context, userID int32, status string) ([]domain.Fine, error) {
	return s.fineRepo.List(ctx, userID, status)
}

// recomputeStanding refreshes the stored account standing projection from
// the fine ledger. The hold rule: owed amount above the configured
// threshold AND at least one overdue fine.
func (s *ledgerService) recomputeStanding(ctx context.Context, userID int32) error {
	totalOwed, overdueCount, err := s.fineRepo.ComputeStanding(ctx, userID)
	if err != nil {
		return err
	}
	standing := &domain.AccountStanding{
		UserID:         userID,
		TotalOwedCents: totalOwed,
		OverdueCount:   overdueCount,
		Hold:           totalOwed > s.cfg.HoldThresholdCents && overdueCount > 0,
	}
	if standing.Hold {
		standing.HoldReason = fmt.Sprintf("%d overdue fine(s) totaling %d cents unpaid", overdueCount, totalOwed)
	}
	return s.fineRepo.UpsertStanding(ctx, standing)
}

// daysBetween counts whole days from a to b at date resolution.
func daysBetween(a, b time.Time) int32 {
	aDate := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDate := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int32(bDate.Sub(aDate).Hours() / 24)
}
