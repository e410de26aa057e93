package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/repository"
)

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int32) (*domain.Equipment, error) {
	eq := &domain.Equipment{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, product_name, COALESCE(category, ''), status, unit_id
		FROM equipment WHERE id = $1`, id).Scan(
		&eq.ID, &eq.ProductName, &eq.Category, &eq.Status, &eq.UnitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("equipment %d: %w", id, domain.ErrNotFound)
		}
		return nil, err
	}
	return eq, nil
}

func (r *equipmentRepository) AvailabilityByType(ctx context.Context, equipmentType string) ([]domain.UnitAvailability, error) {
	// Ordering makes routing deterministic: largest stock first, unit id as
	// the tie-break.
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.unit_id, COALESCE(u.name, ''), count(*)
		FROM equipment e
		LEFT JOIN units u ON u.id = e.unit_id
		WHERE e.product_name ILIKE '%' || $1 || '%'
		  AND e.status = 'AVAILABLE'
		GROUP BY e.unit_id, u.name
		ORDER BY count(*) DESC, e.unit_id ASC`, equipmentType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []domain.UnitAvailability
	for rows.Next() {
		var ua domain.UnitAvailability
		if err := rows.Scan(&ua.UnitID, &ua.UnitName, &ua.AvailableCount); err != nil {
			return nil, err
		}
		units = append(units, ua)
	}
	return units, rows.Err()
}
