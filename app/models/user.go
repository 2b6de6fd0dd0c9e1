package models

import (
	"time"
)

type User struct {
	ID                string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"user_id"`
	Email             string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash      string     `gorm:"column:password_hash;size:255;not null" json:"-"`
	FullName          string     `gorm:"size:100;not null" json:"full_name"`
	Phone             string     `gorm:"size:15" json:"phone,omitempty"`
	Role              string     `gorm:"size:10;not null;index" json:"role"`
	PreferredLanguage string     `gorm:"size:20;not null;default:'english'" json:"preferred_language"`
	IsActive          bool       `gorm:"not null;index" json:"is_active"`
	Farmer            *Farmer    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Dealer            *Dealer    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

const (
	RoleFarmer = "farmer"
	RoleDealer = "dealer"
	RoleAdmin  = "admin"
)

const DefaultLanguage = "english"

// Languages the frontend ships translations for.
var Languages = []string{"english", "hindi", "kannada", "tamil", "telugu", "marathi"}
