package models

import (
	"time"
)

const UserTable = "rfb_users"

// Roles, in decreasing order of privilege.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

type User struct {
	ID    string `gorm:"primaryKey;type:uuid" json:"id"`
	Email string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name  string `gorm:"size:255;not null" json:"name"`
	Role  string `gorm:"size:20;not null;default:'user'" json:"role"`

	IsActive                  bool `gorm:"not null;default:true" json:"isActive"`
	EmailNotificationsEnabled bool `gorm:"not null;default:true" json:"emailNotificationsEnabled"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsManager reports manager-or-above.
func (u *User) IsManager() bool { return u.Role == RoleAdmin || u.Role == RoleManager }
