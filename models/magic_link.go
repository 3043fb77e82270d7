package models

import "time"

const MagicLinkTable = "rfb_magic_links"

// MagicLink is a single-use passwordless login token. The emailed token is a
// signed JWT; only its ID is stored here so a leaked database cannot mint
// valid links.
type MagicLink struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"index;size:255;not null" json:"email"`
	UserID    *string   `gorm:"type:uuid" json:"userId,omitempty"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expiresAt"`
	UsedAt    *time.Time
	IP        string `gorm:"size:45"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (MagicLink) TableName() string { return MagicLinkTable }
