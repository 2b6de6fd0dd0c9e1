package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/e-agri/app/models"
	"gorm.io/gorm"
)

type WeatherRepositoryImpl interface {
	Forecast(ctx context.Context, district, state string, from time.Time, limit int) ([]models.WeatherReading, error)
	LatestForLocation(ctx context.Context, location string, day time.Time) (*models.WeatherReading, error)
	Create(ctx context.Context, reading *models.WeatherReading) error
}

type weatherRepository struct {
	db *gorm.DB
}

func NewWeatherRepository(db *gorm.DB) WeatherRepositoryImpl {
	return &weatherRepository{db}
}

func (r *weatherRepository) Forecast(ctx context.Context, district, state string, from time.Time, limit int) ([]models.WeatherReading, error) {
	var readings []models.WeatherReading
	err := r.db.WithContext(ctx).
		Where("district = ? AND state = ? AND forecast_date >= ?", district, state, from.Format(time.DateOnly)).
		Order("forecast_date ASC").
		Limit(limit).
		Find(&readings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load forecast for %s, %s: %w", district, state, err)
	}
	return readings, nil
}

func (r *weatherRepository) LatestForLocation(ctx context.Context, location string, day time.Time) (*models.WeatherReading, error) {
	var reading models.WeatherReading
	err := r.db.WithContext(ctx).
		Where("location LIKE ? AND forecast_date = ?", "%"+location+"%", day.Format(time.DateOnly)).
		Order("recorded_at DESC").
		First(&reading).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load current weather for %s: %w", location, err)
	}
	return &reading, nil
}

func (r *weatherRepository) Create(ctx context.Context, reading *models.WeatherReading) error {
	if err := r.db.WithContext(ctx).Create(reading).Error; err != nil {
		return fmt.Errorf("failed to add weather for %s: %w", reading.Location, err)
	}
	return nil
}
