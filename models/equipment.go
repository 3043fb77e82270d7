package models

import "time"

const EquipmentTable = "rfb_equipment"

// Equipment is a bookable instrument. Technical specifications live as prose
// in Description; the assistant package mines them with the same rule table
// it applies to user prompts.
type Equipment struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"size:255" json:"location"`

	NextCalibrationDate *time.Time `gorm:"type:date" json:"nextCalibrationDate,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Equipment) TableName() string { return EquipmentTable }
