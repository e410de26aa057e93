package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/logger"
	"equipbook-backend/internal/metrics"
	"equipbook-backend/internal/repository"
)

type bookingService struct {
	reservationRepo repository.ReservationRepository
	violationRepo   repository.PolicyViolationRepository
	policySvc       PolicyService
	ledgerSvc       LedgerService
	dailyRateCents  int32
	now             func() time.Time
}

func NewBookingService(
	reservationRepo repository.ReservationRepository,
	violationRepo repository.PolicyViolationRepository,
	policySvc PolicyService,
	ledgerSvc LedgerService,
	dailyRateCents int32,
) BookingService {
	return &bookingService{
		reservationRepo: reservationRepo,
		violationRepo:   violationRepo,
		policySvc:       policySvc,
		ledgerSvc:       ledgerSvc,
		dailyRateCents:  dailyRateCents,
		now:             time.Now,
	}
}

// Admit runs policy evaluation and the atomic availability-check-plus-insert.
// A commit-time conflict (another admission won the race) is retried exactly
// once; a second loss surfaces as a STORAGE_CONFLICT rejection.
func (s *bookingService) Admit(ctx context.Context, requester domain.Requester, equipmentID int32, start, end time.Time, purpose string) (*domain.Reservation, *domain.Rejection, error) {
	if end.Before(start) {
		return nil, nil, fmt.Errorf("end date %s precedes start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	for attempt := 0; attempt < 2; attempt++ {
		result, err := s.policySvc.Evaluate(ctx, requester, equipmentID, start, end)
		if err != nil {
			return nil, nil, err
		}
		if !result.Valid {
			metrics.AdmissionsTotal.WithLabelValues("rejected").Inc()
			return nil, result.Rejection, nil
		}

		reservation := &domain.Reservation{
			RequesterID: requester.ID,
			EquipmentID: equipmentID,
			StartDate:   start,
			EndDate:     end,
			Status:      domain.ReservationStatusPending,
			Purpose:     purpose,
		}

		err = s.reservationRepo.CreateIfAvailable(ctx, reservation)
		if err == nil {
			metrics.AdmissionsTotal.WithLabelValues("admitted").Inc()
			logger.Info("Reservation admitted", "reservation_id", reservation.ID, "requester_id", requester.ID, "equipment_id", equipmentID)
			return reservation, nil, nil
		}

		if errors.Is(err, domain.ErrAvailabilityConflict) {
			rejection := &domain.Rejection{
				Type:    domain.ViolationAvailabilityConflict,
				Message: "The equipment is already reserved for part of the requested dates.",
				Details: map[string]any{
					"equipment_id": equipmentID,
					"start_date":   start.Format("2006-01-02"),
					"end_date":     end.Format("2006-01-02"),
				},
			}
			s.auditRejection(ctx, requester, equipmentID, start, end, rejection)
			metrics.AdmissionsTotal.WithLabelValues("rejected").Inc()
			return nil, rejection, nil
		}

		if errors.Is(err, domain.ErrStorageConflict) {
			if attempt == 0 {
				metrics.AdmissionRetriesTotal.Inc()
				logger.Warn("Admission lost a commit race, retrying once", "requester_id", requester.ID, "equipment_id", equipmentID)
				continue
			}
			metrics.AdmissionsTotal.WithLabelValues("conflict").Inc()
			return nil, &domain.Rejection{
				Type:    domain.ViolationStorageConflict,
				Message: "The booking could not be committed due to concurrent activity. Please try again.",
			}, nil
		}

		return nil, nil, err
	}
	// The loop always returns; this is unreachable.
	return nil, nil, domain.ErrStorageConflict
}

func (s *bookingService) Approve(ctx context.Context, actor domain.Requester, reservationID int32) (*domain.Reservation, error) {
	if !actor.Role.Authorizer() {
		return nil, domain.ErrUnauthorized
	}
	return s.transition(ctx, reservationID, domain.ReservationStatusPending, domain.ReservationStatusApproved)
}

func (s *bookingService) Deny(ctx context.Context, actor domain.Requester, reservationID int32) (*domain.Reservation, error) {
	if !actor.Role.Authorizer() {
		return nil, domain.ErrUnauthorized
	}
	return s.transition(ctx, reservationID, domain.ReservationStatusPending, domain.ReservationStatusDenied)
}

// Cancel deletes a reservation from the active schedule: the owner may
// cancel while pending, an authorizer may cancel any non-terminal state.
func (s *bookingService) Cancel(ctx context.Context, actor domain.Requester, reservationID int32) error {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return err
	}
	if reservation.Status.Terminal() {
		return domain.ErrInvalidTransition
	}
	if !actor.Role.Authorizer() {
		if reservation.RequesterID != actor.ID {
			return domain.ErrUnauthorized
		}
		if reservation.Status != domain.ReservationStatusPending {
			return domain.ErrInvalidTransition
		}
	}
	ok, err := s.reservationRepo.UpdateStatus(ctx, reservationID, reservation.Status, domain.ReservationStatusCancelled)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidTransition
	}
	logger.Info("Reservation cancelled", "reservation_id", reservationID, "actor_id", actor.ID)
	return nil
}

func (s *bookingService) Complete(ctx context.Context, actor domain.Requester, reservationID int32) (*domain.Reservation, *domain.Fine, error) {
	if !actor.Role.Authorizer() {
		return nil, nil, domain.ErrUnauthorized
	}
	reservation, err := s.transition(ctx, reservationID, domain.ReservationStatusApproved, domain.ReservationStatusCompleted)
	if err != nil {
		return nil, nil, err
	}

	fine, err := s.ledgerSvc.RecordLateFine(ctx, reservationID, s.dailyRateCents, s.now())
	if err != nil {
		// The return itself succeeded; a failed fine write must not undo it.
		logger.Error("Failed to record late fine on return", "reservation_id", reservationID, "error", err)
		return reservation, nil, nil
	}
	return reservation, fine, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, equipmentID int32, start, end time.Time, excludeReservationID int32) (bool, error) {
	if end.Before(start) {
		return false, fmt.Errorf("end date %s precedes start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	overlap, err := s.reservationRepo.HasOverlap(ctx, equipmentID, start, end, excludeReservationID)
	if err != nil {
		return false, err
	}
	return !overlap, nil
}

func (s *bookingService) ListReservations(ctx context.Context, userID int32, status string) ([]domain.Reservation, error) {
	return s.reservationRepo.ListByRequester(ctx, userID, status)
}

func (s *bookingService) transition(ctx context.Context, reservationID int32, from, to domain.ReservationStatus) (*domain.Reservation, error) {
	ok, err := s.reservationRepo.UpdateStatus(ctx, reservationID, from, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Either the id is unknown or the row left the expected status.
		if _, getErr := s.reservationRepo.GetByID(ctx, reservationID); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrInvalidTransition
	}
	return s.reservationRepo.GetByID(ctx, reservationID)
}

func (s *bookingService) auditRejection(ctx context.Context, requester domain.Requester, equipmentID int32, start, end time.Time, rejection *domain.Rejection) {
	violation := &domain.PolicyViolation{
		UserID:               requester.ID,
		ViolationType:        rejection.Type,
		Details:              rejection.Message,
		AttemptedEquipmentID: equipmentID,
		AttemptedStartDate:   start,
		AttemptedEndDate:     end,
		Blocked:              true,
	}
	if err := s.violationRepo.Create(ctx, violation); err != nil {
		logger.Error("Failed to persist availability violation", "user_id", requester.ID, "error", err)
	}
}
