package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Farmer struct {
	ID            string              `gorm:"size:36;not null;uniqueIndex;primary_key" json:"farmer_id"`
	UserID        string              `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	FarmLocation  string              `gorm:"size:255" json:"farm_location"`
	District      string              `gorm:"size:100;index" json:"district"`
	State         string              `gorm:"size:100" json:"state"`
	Pincode       string              `gorm:"size:10" json:"pincode"`
	FarmSizeAcres decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"farm_size_acres"`
	SoilType      string              `gorm:"size:50" json:"soil_type,omitempty"`
	PrimaryCrop   string              `gorm:"size:100" json:"primary_crop,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type Dealer struct {
	ID                 string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"dealer_id"`
	UserID             string     `gorm:"size:36;not null;uniqueIndex" json:"user_id"`
	BusinessName       string     `gorm:"size:200" json:"business_name"`
	BusinessLicense    string     `gorm:"size:100" json:"business_license,omitempty"`
	GSTNumber          string     `gorm:"column:gst_number;size:15" json:"gst_number,omitempty"`
	BusinessAddress    string     `gorm:"type:text" json:"business_address,omitempty"`
	District           string     `gorm:"size:100;index" json:"district"`
	State              string     `gorm:"size:100" json:"state"`
	VerificationStatus string     `gorm:"size:10;not null;default:'pending';index" json:"verification_status"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

func (d *Dealer) IsVerified() bool {
	return d.VerificationStatus == VerificationVerified
}
