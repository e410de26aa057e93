package postgres

import (
	"database/sql"
	"errors"

	"equipbook-backend/internal/repository"

	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ReservationRepository
	repository.EquipmentRepository
	repository.FineRepository
	repository.PolicyViolationRepository
	repository.TrainingRepository
	repository.CrossDepartmentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                        db,
		ReservationRepository:     NewReservationRepository(db),
		EquipmentRepository:       NewEquipmentRepository(db),
		FineRepository:            NewFineRepository(db),
		PolicyViolationRepository: NewPolicyViolationRepository(db),
		TrainingRepository:        NewTrainingRepository(db),
		CrossDepartmentRepository: NewCrossDepartmentRepository(db),
	}
}

// isCommitConflict reports whether err is the exclusion or uniqueness
// constraint firing on a concurrent overlapping insert. 23P01 is
// exclusion_violation, 23505 is unique_violation.
func isCommitConflict(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23P01" || pqErr.Code == "23505"
	}
	return false
}
