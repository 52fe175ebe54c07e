package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Name         string         `json:"name" gorm:"size:100"`
	Email        string         `json:"email" gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string         `json:"-" gorm:"size:200"`
	Role         string         `json:"role" gorm:"size:50;default:'user'"` // admin, user
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Declared for the foreign key only; never preloaded.
	Orders []Order `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
}

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}
