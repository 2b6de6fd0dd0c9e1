package models

import "time"

// LoginAttempt is append-only; the rate limiter counts failed rows inside its window.
type LoginAttempt struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement"`
	IPAddress   string    `gorm:"size:45;not null;index"`
	Email       string    `gorm:"size:100;not null;index"`
	Success     bool      `gorm:"not null"`
	AttemptTime time.Time `gorm:"not null;index"`
}
