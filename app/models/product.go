package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	DealerID         string          `gorm:"size:36;not null;index"`
	CategoryID       string          `gorm:"size:36;not null;index"`
	Name             string          `gorm:"column:product_name;size:200;not null;index"`
	Description      string          `gorm:"type:text"`
	Price            decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unit             string          `gorm:"size:20;not null"`
	StockQuantity    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MinOrderQuantity decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ImageURL         string          `gorm:"column:product_image_url;size:500"`
	IsOrganic        bool            `gorm:"not null;index"`
	IsAvailable      bool            `gorm:"not null;index"`
	CreatedAt        time.Time       `gorm:"index"`
	UpdatedAt        time.Time
}
