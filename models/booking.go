package models

import "time"

const BookingTable = "rfb_bookings"

// Booking statuses. Rows are never deleted, only transitioned.
const (
	BookingActive    = "active"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Booking reserves one piece of equipment over a date range with a daily
// time window. Dates are DATE columns (midnight UTC in Go), times are
// wall-clock "HH:MM" strings; the organization runs in a single timezone.
type Booking struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string `gorm:"type:uuid;index;not null" json:"userId"`
	EquipmentID string `gorm:"type:uuid;index;not null" json:"equipmentId"`

	StartDate time.Time `gorm:"type:date;index;not null" json:"startDate"`
	EndDate   time.Time `gorm:"type:date;index;not null" json:"endDate"`
	StartTime string    `gorm:"size:5;not null" json:"startTime"`
	EndTime   string    `gorm:"size:5;not null" json:"endTime"`

	Description string `gorm:"type:text" json:"description,omitempty"`
	Status      string `gorm:"size:20;not null;default:'active';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Booking) TableName() string { return BookingTable }
