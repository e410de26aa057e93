package domain

type EquipmentStatus string

const (
	EquipmentStatusAvailable    EquipmentStatus = "AVAILABLE"
	EquipmentStatusBooked       EquipmentStatus = "BOOKED"
	EquipmentStatusMaintenance  EquipmentStatus = "MAINTENANCE"
	EquipmentStatusOutOfService EquipmentStatus = "OUT_OF_SERVICE"
)

// Equipment is the read-only catalog subset this core consumes. The
// catalog itself (search, import, editing) is owned elsewhere.
type Equipment struct {
	ID          int32           `json:"id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Status      EquipmentStatus `json:"status"`
	UnitID      int32           `json:"unit_id"`
}
