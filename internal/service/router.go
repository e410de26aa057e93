package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/logger"
	"equipbook-backend/internal/metrics"
	"equipbook-backend/internal/repository"
)

type routingService struct {
	equipmentRepo repository.EquipmentRepository
	crossDeptRepo repository.CrossDepartmentRepository
}

func NewRoutingService(
	equipmentRepo repository.EquipmentRepository,
	crossDeptRepo repository.CrossDepartmentRepository,
) RoutingService {
	return &routingService{
		equipmentRepo: equipmentRepo,
		crossDeptRepo: crossDeptRepo,
	}
}

// Route picks the fulfilment shape for a quantity of an equipment type:
// none when no unit has stock, single when one unit can cover the whole
// quantity, broadcast to every stocked unit otherwise. The repository
// orders candidates by count descending then unit id, so the chosen single
// target is deterministic.
func (s *routingService) Route(ctx context.Context, equipmentType string, quantity int32) (*domain.RoutingDecision, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive, got %d", quantity)
	}

	units, err := s.equipmentRepo.AvailabilityByType(ctx, equipmentType)
	if err != nil {
		return nil, err
	}

	var decision *domain.RoutingDecision
	switch {
	case len(units) == 0:
		decision = &domain.RoutingDecision{
			Mode:    domain.RoutingModeNone,
			Message: fmt.Sprintf("No departments have %q available", equipmentType),
		}
	default:
		for _, unit := range units {
			if unit.AvailableCount >= quantity {
				decision = &domain.RoutingDecision{
					Mode:    domain.RoutingModeSingle,
					Targets: []domain.UnitAvailability{unit},
					Message: fmt.Sprintf("Request will be sent to %s (%d available)", unit.UnitName, unit.AvailableCount),
				}
				break
			}
		}
		if decision == nil {
			decision = &domain.RoutingDecision{
				Mode:    domain.RoutingModeBroadcast,
				Targets: units,
				Message: fmt.Sprintf("Request exceeds any single department's capacity and will be broadcast to all %d departments with this equipment type", len(units)),
			}
		}
	}

	metrics.RoutingDecisionsTotal.WithLabelValues(string(decision.Mode)).Inc()
	return decision, nil
}

func (s *routingService) CreateRequest(ctx context.Context, requester domain.Requester, equipmentType string, quantity int32, start, end time.Time, justification string) ([]domain.CrossDepartmentRequest, *domain.Rejection, error) {
	decision, err := s.Route(ctx, equipmentType, quantity)
	if err != nil {
		return nil, nil, err
	}
	if decision.Mode == domain.RoutingModeNone {
		return nil, &domain.Rejection{
			Type:    domain.ViolationNoSupply,
			Message: decision.Message,
			Details: map[string]any{"equipment_type": equipmentType, "quantity": quantity},
		}, nil
	}

	var groupID *string
	if decision.Mode == domain.RoutingModeBroadcast {
		id := uuid.NewString()
		groupID = &id
	}

	// Every branch records the full requested quantity: the reviewing unit
	// decides partial fulfilment on its own, the router never splits.
	reqs := make([]*domain.CrossDepartmentRequest, 0, len(decision.Targets))
	for _, target := range decision.Targets {
		reqs = append(reqs, &domain.CrossDepartmentRequest{
			RequestingUserID:  requester.ID,
			RequestingUnitID:  requester.UnitID,
			TargetUnitID:      target.UnitID,
			EquipmentType:     equipmentType,
			Quantity:          quantity,
			StartDate:         start,
			EndDate:           end,
			Justification:     justification,
			Status:            domain.RequestStatusPending,
			RoutingType:       decision.Mode,
			BroadcastGroupID:  groupID,
			AvailableAtTarget: target.AvailableCount,
		})
	}

	if err := s.crossDeptRepo.CreateBatch(ctx, reqs); err != nil {
		return nil, nil, err
	}

	logger.Info("Cross-department request created",
		"requester_id", requester.ID, "equipment_type", equipmentType,
		"quantity", quantity, "routing_type", decision.Mode, "branches", len(reqs))

	created := make([]domain.CrossDepartmentRequest, len(reqs))
	for i, req := range reqs {
		created[i] = *req
	}
	return created, nil, nil
}

func (s *routingService) ListForUnit(ctx context.Context, unitID int32, status string) ([]domain.CrossDepartmentRequest, error) {
	return s.crossDeptRepo.ListByTargetUnit(ctx, unitID, status)
}

func (s *routingService) ListByRequester(ctx context.Context, userID int32) ([]domain.CrossDepartmentRequest, error) {
	return s.crossDeptRepo.ListByRequester(ctx, userID)
}
