package models

import "time"

const EquipmentManagerTable = "rfb_equipment_managers"

// EquipmentManager assigns a manager account to one piece of equipment.
// Admins act on everything; a manager's write access to other people's
// bookings is scoped to the equipment listed here.
type EquipmentManager struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	EquipmentID string    `gorm:"type:uuid;not null;uniqueIndex:uq_equipment_manager,priority:1" json:"equipmentId"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:uq_equipment_manager,priority:2" json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (EquipmentManager) TableName() string { return EquipmentManagerTable }
