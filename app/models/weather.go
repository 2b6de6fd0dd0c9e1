package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type WeatherReading struct {
	ID               uint64          `gorm:"primaryKey;autoIncrement"`
	Location         string          `gorm:"size:100;not null;index"`
	District         string          `gorm:"size:100;index:idx_weather_region"`
	State            string          `gorm:"size:100;index:idx_weather_region"`
	Temperature      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	FeelsLike        decimal.Decimal `gorm:"type:decimal(5,2)"`
	Humidity         int
	WindSpeed        decimal.Decimal `gorm:"type:decimal(5,2)"`
	WeatherCondition string          `gorm:"size:50"`
	Description      string          `gorm:"size:255"`
	Rainfall         decimal.Decimal `gorm:"type:decimal(6,2)"`
	ForecastDate     time.Time       `gorm:"type:date;not null;index"`
	RecordedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedBy        *string         `gorm:"size:36"`
}

func (WeatherReading) TableName() string {
	return "weather_data"
}
