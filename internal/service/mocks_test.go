package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"equipbook-backend/internal/domain"
)

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) CreateIfAvailable(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id int32, from, to domain.ReservationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) HasOverlap(ctx context.Context, equipmentID int32, start, end time.Time, excludeID int32) (bool, error) {
	args := m.Called(ctx, equipmentID, start, end, excludeID)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) CountStartingBetween(ctx context.Context, userID int32, from, to time.Time) (int32, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockReservationRepo) CountActiveOrPending(ctx context.Context, userID int32, today time.Time) (int32, error) {
	args := m.Called(ctx, userID, today)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockReservationRepo) ListByRequester(ctx context.Context, userID int32, status string) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockEquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Equipment), args.Error(1)
}
func (m *MockEquipmentRepo) AvailabilityByType(ctx context.Context, equipmentType string) ([]domain.UnitAvailability, error) {
	args := m.Called(ctx, equipmentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UnitAvailability), args.Error(1)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) Create(ctx context.Context, f *domain.Fine) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}
func (m *MockFineRepo) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) Resolve(ctx context.Context, id int32, outcome domain.FineStatus, actorID int32, note string) (bool, error) {
	args := m.Called(ctx, id, outcome, actorID, note)
	return args.Bool(0), args.Error(1)
}
func (m *MockFineRepo) MarkOverdue(ctx context.Context, asOf time.Time) ([]int32, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockFineRepo) List(ctx context.Context, userID int32, status string) ([]domain.Fine, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ComputeStanding(ctx context.Context, userID int32) (int32, int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int32), args.Get(1).(int32), args.Error(2)
}
func (m *MockFineRepo) UpsertStanding(ctx context.Context, s *domain.AccountStanding) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockFineRepo) GetStanding(ctx context.Context, userID int32) (*domain.AccountStanding, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStanding), args.Error(1)
}

// MockViolationRepo
type MockViolationRepo struct {
	mock.Mock
}

func (m *MockViolationRepo) Create(ctx context.Context, v *domain.PolicyViolation) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

// MockTrainingRepo
type MockTrainingRepo struct {
	mock.Mock
}

func (m *MockTrainingRepo) HasCompleted(ctx context.Context, userID int32, category string) (bool, error) {
	args := m.Called(ctx, userID, category)
	return args.Bool(0), args.Error(1)
}

// MockCrossDepartmentRepo
type MockCrossDepartmentRepo struct {
	mock.Mock
}

func (m *MockCrossDepartmentRepo) CreateBatch(ctx context.Context, reqs []*domain.CrossDepartmentRequest) error {
	args := m.Called(ctx, reqs)
	return args.Error(0)
}
func (m *MockCrossDepartmentRepo) GetByID(ctx context.Context, id int32) (*domain.CrossDepartmentRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CrossDepartmentRequest), args.Error(1)
}
func (m *MockCrossDepartmentRepo) Review(ctx context.Context, id int32, to domain.RequestStatus, reviewerID int32, notes string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, to, reviewerID, notes, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockCrossDepartmentRepo) CancelPending(ctx context.Context, id, requesterID int32) (bool, error) {
	args := m.Called(ctx, id, requesterID)
	return args.Bool(0), args.Error(1)
}
func (m *MockCrossDepartmentRepo) ListByTargetUnit(ctx context.Context, unitID int32, status string) ([]domain.CrossDepartmentRequest, error) {
	args := m.Called(ctx, unitID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CrossDepartmentRequest), args.Error(1)
}
func (m *MockCrossDepartmentRepo) ListByRequester(ctx context.Context, userID int32) ([]domain.CrossDepartmentRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CrossDepartmentRequest), args.Error(1)
}

// MockPolicyService
type MockPolicyService struct {
	mock.Mock
}

func (m *MockPolicyService) Evaluate(ctx context.Context, requester domain.Requester, equipmentID int32, start, end time.Time) (*domain.PolicyResult, error) {
	args := m.Called(ctx, requester, equipmentID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PolicyResult), args.Error(1)
}

// MockLedgerService
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordLateFine(ctx context.Context, reservationID int32, dailyRateCents int32, returnedAt time.Time) (*domain.Fine, error) {
	args := m.Called(ctx, reservationID, dailyRateCents, returnedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockLedgerService) MarkOverdueFines(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockLedgerService) ResolveFine(ctx context.Context, fineID int32, outcome domain.FineStatus, actorID int32, note string) (*domain.Fine, error) {
	args := m.Called(ctx, fineID, outcome, actorID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockLedgerService) GetStanding(ctx context.Context, userID int32) (*domain.AccountStanding, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountStanding), args.Error(1)
}
func (m *MockLedgerService) ListFines(ctx context.Context, userID int32, status string) ([]domain.Fine, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Fine), args.Error(1)
}
