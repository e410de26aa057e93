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

type policyService struct {
	reservationRepo repository.ReservationRepository
	equipmentRepo   repository.EquipmentRepository
	fineRepo        repository.FineRepository
	trainingRepo    repository.TrainingRepository
	violationRepo   repository.PolicyViolationRepository
	limits          config.PolicyConfig
	now             func() time.Time
}

func NewPolicyService(
	reservationRepo repository.ReservationRepository,
	equipmentRepo repository.EquipmentRepository,
	fineRepo repository.FineRepository,
	trainingRepo repository.TrainingRepository,
	violationRepo repository.PolicyViolationRepository,
	limits config.PolicyConfig,
) PolicyService {
	return &policyService{
		reservationRepo: reservationRepo,
		equipmentRepo:   equipmentRepo,
		fineRepo:        fineRepo,
		trainingRepo:    trainingRepo,
		violationRepo:   violationRepo,
		limits:          limits,
		now:             time.Now,
	}
}

// Evaluate runs the booking policy rules in fixed order: account hold,
// training gate, weekly count, concurrent count. The first failing rule
// short-circuits. The hold and training checks fail closed (a lookup error
// rejects the request); the two counters fail open with a logged warning,
// since refusing every booking over a counting hiccup hurts more than an
// occasional limit overrun.
func (s *policyService) Evaluate(ctx context.Context, requester domain.Requester, equipmentID int32, start, end time.Time) (*domain.PolicyResult, error) {
	limit := s.limits.LimitFor(requester.Role)

	// Rule 1: account hold.
	standing, err := s.fineRepo.GetStanding(ctx, requester.ID)
	if err != nil {
		logger.Error("Account standing lookup failed, rejecting", "user_id", requester.ID, "error", err)
		return s.reject(ctx, requester, equipmentID, start, end, &domain.Rejection{
			Type:    domain.ViolationAccountHold,
			Message: "Your account standing could not be verified. Please contact an administrator.",
		}), nil
	}
	if standing.Hold {
		message := standing.HoldReason
		if message == "" {
			message = "Your account has a hold. Please resolve outstanding fines before booking."
		}
		return s.reject(ctx, requester, equipmentID, start, end, &domain.Rejection{
			Type:    domain.ViolationAccountHold,
			Message: message,
			Details: map[string]any{
				"total_owed_cents": standing.TotalOwedCents,
				"overdue_count":    standing.OverdueCount,
			},
		}), nil
	}

	// Rule 2: training gate.
	if limit.RequiresTraining {
		rejection, err := s.checkTraining(ctx, requester, equipmentID)
		if err != nil {
			logger.Error("Training check failed, rejecting", "user_id", requester.ID, "equipment_id", equipmentID, "error", err)
			rejection = &domain.Rejection{
				Type:    domain.ViolationTrainingRequired,
				Message: "Your training record could not be verified. Please contact an administrator.",
			}
		}
		if rejection != nil {
			return s.reject(ctx, requester, equipmentID, start, end, rejection), nil
		}
	}

	// Rule 3: weekly count. The week is the ISO week containing the
	// requested start date.
	weekStart, weekEnd := isoWeekBounds(start)
	weeklyCount, err := s.reservationRepo.CountStartingBetween(ctx, requester.ID, weekStart, weekEnd)
	if err != nil {
		logger.Warn("Weekly count lookup failed, skipping rule", "user_id", requester.ID, "error", err)
	} else if weeklyCount >= limit.WeeklyMaxCount {
		return s.reject(ctx, requester, equipmentID, start, end, &domain.Rejection{
			Type:    domain.ViolationWeeklyLimit,
			Message: fmt.Sprintf("You already have %d bookings starting this week (limit %d).", weeklyCount, limit.WeeklyMaxCount),
			Details: map[string]any{
				"weekly_max_count": limit.WeeklyMaxCount,
				"current_count":    weeklyCount,
				"week_start":       weekStart.Format("2006-01-02"),
			},
		}), nil
	}

	// Rule 4: concurrent count.
	concurrentCount, err := s.reservationRepo.CountActiveOrPending(ctx, requester.ID, s.now())
	if err != nil {
		logger.Warn("Concurrent count lookup failed, skipping rule", "user_id", requester.ID, "error", err)
	} else if concurrentCount >= limit.ConcurrentMaxCount {
		return s.reject(ctx, requester, equipmentID, start, end, &domain.Rejection{
			Type:    domain.ViolationConcurrentLimit,
			Message: fmt.Sprintf("You already have %d active or pending bookings (limit %d).", concurrentCount, limit.ConcurrentMaxCount),
			Details: map[string]any{
				"concurrent_max_count": limit.ConcurrentMaxCount,
				"current_count":        concurrentCount,
			},
		}), nil
	}

	return &domain.PolicyResult{Valid: true}, nil
}

func (s *policyService) checkTraining(ctx context.Context, requester domain.Requester, equipmentID int32) (*domain.Rejection, error) {
	eq, err := s.equipmentRepo.GetByID(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if eq.Category == "" {
		return nil, nil
	}
	completed, err := s.trainingRepo.HasCompleted(ctx, requester.ID, eq.Category)
	if err != nil {
		return nil, err
	}
	if !completed {
		return &domain.Rejection{
			Type:    domain.ViolationTrainingRequired,
			Message: fmt.Sprintf("Training for %q equipment is required before booking.", eq.Category),
			Details: map[string]any{"category": eq.Category},
		}, nil
	}
	return nil, nil
}

// reject persists the audit record for a rejection before returning it. A
// failed audit write is logged but never hides the rejection itself.
func (s *policyService) reject(ctx context.Context, requester domain.Requester, equipmentID int32, start, end time.Time, rejection *domain.Rejection) *domain.PolicyResult {
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
		logger.Error("Failed to persist policy violation", "user_id", requester.ID, "violation_type", rejection.Type, "error", err)
	}
	metrics.PolicyRejectionsTotal.WithLabelValues(string(rejection.Type)).Inc()
	return &domain.PolicyResult{Valid: false, Rejection: rejection}
}

// isoWeekBounds returns the Monday and Sunday of the ISO week containing t,
// at t's date resolution.
func isoWeekBounds(t time.Time) (time.Time, time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	start := t.AddDate(0, 0, 1-weekday)
	return start, start.AddDate(0, 0, 6)
}
