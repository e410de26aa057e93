package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/logger"
	"equipbook-backend/internal/repository"
)

type requestLifecycleService struct {
	crossDeptRepo repository.CrossDepartmentRepository
	now           func() time.Time
}

func NewRequestLifecycleService(crossDeptRepo repository.CrossDepartmentRepository) RequestLifecycleService {
	return &requestLifecycleService{
		crossDeptRepo: crossDeptRepo,
		now:           time.Now,
	}
}

// Approve moves one pending branch to approved. Sibling branches of a
// broadcast group are untouched; the requester cancels the rest once
// satisfied.
func (s *requestLifecycleService) Approve(ctx context.Context, reviewer domain.Requester, requestID int32, instructions string) (*domain.CrossDepartmentRequest, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, fmt.Errorf("approval instructions: %w", domain.ErrNoteRequired)
	}
	return s.review(ctx, reviewer, requestID, domain.RequestStatusApproved, instructions)
}

func (s *requestLifecycleService) Deny(ctx context.Context, reviewer domain.Requester, requestID int32, reason string) (*domain.CrossDepartmentRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("denial reason: %w", domain.ErrNoteRequired)
	}
	return s.review(ctx, reviewer, requestID, domain.RequestStatusDenied, reason)
}

func (s *requestLifecycleService) Cancel(ctx context.Context, requester domain.Requester, requestID int32) (*domain.CrossDepartmentRequest, error) {
	req, err := s.crossDeptRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.RequestingUserID != requester.ID {
		return nil, domain.ErrUnauthorized
	}
	ok, err := s.crossDeptRepo.CancelPending(ctx, requestID, requester.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("request %d is %s: %w", requestID, req.Status, domain.ErrInvalidTransition)
	}
	logger.Info("Cross-department request cancelled", "request_id", requestID, "requester_id", requester.ID)
	return s.crossDeptRepo.GetByID(ctx, requestID)
}

func (s *requestLifecycleService) review(ctx context.Context, reviewer domain.Requester, requestID int32, to domain.RequestStatus, notes string) (*domain.CrossDepartmentRequest, error) {
	req, err := s.crossDeptRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	// Only the target unit's reviewers may decide a branch.
	if !reviewer.Role.Authorizer() || reviewer.UnitID != req.TargetUnitID {
		return nil, domain.ErrUnauthorized
	}

	ok, err := s.crossDeptRepo.Review(ctx, requestID, to, reviewer.ID, notes, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("request %d is no longer pending: %w", requestID, domain.ErrInvalidTransition)
	}
	logger.Info("Cross-department request reviewed", "request_id", requestID, "status", to, "reviewer_id", reviewer.ID)
	return s.crossDeptRepo.GetByID(ctx, requestID)
}
