package models

import (
	"time"
)

type Category struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"category_id"`
	Name        string    `gorm:"column:category_name;size:100;not null;uniqueIndex" json:"category_name"`
	Slug        string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Type        string    `gorm:"column:category_type;size:20;not null" json:"category_type"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "product_categories"
}

const (
	CategorySeeds      = "seeds"
	CategoryFertilizer = "fertilizer"
	CategoryPesticide  = "pesticide"
	CategoryEquipment  = "equipment"
	CategoryOther      = "other"
)
