package services

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/utils/sessions"
	"github.com/Rakhulsr/e-agri/app/utils/validation"
	"github.com/shopspring/decimal"
)

const (
	forecastDays    = 7
	DefaultLocation = "Bengaluru"

	SourceDatabase = "database"
	SourceProvider = "provider"
	SourceDefault  = "default"
)

type WeatherRow struct {
	ID               uint64          `json:"weather_id,omitempty"`
	Location         string          `json:"location"`
	District         string          `json:"district,omitempty"`
	State            string          `json:"state,omitempty"`
	Temperature      decimal.Decimal `json:"temperature"`
	FeelsLike        decimal.Decimal `json:"feels_like"`
	Humidity         int             `json:"humidity"`
	WindSpeed        decimal.Decimal `json:"wind_speed"`
	WeatherCondition string          `json:"weather_condition"`
	Description      string          `json:"description"`
	Rainfall         decimal.Decimal `json:"rainfall"`
	ForecastDate     string          `json:"forecast_date"`
}

type WeatherInput struct {
	Location         string           `json:"location" validate:"max=100"`
	District         string           `json:"district" validate:"max=100"`
	State            string           `json:"state" validate:"max=100"`
	Temperature      *decimal.Decimal `json:"temperature"`
	FeelsLike        *decimal.Decimal `json:"feels_like"`
	Humidity         int              `json:"humidity" validate:"gte=0,lte=100"`
	WindSpeed        decimal.Decimal  `json:"wind_speed"`
	WeatherCondition string           `json:"weather_condition" validate:"max=50"`
	Description      string           `json:"description" validate:"max=255"`
	Rainfall         decimal.Decimal  `json:"rainfall"`
	ForecastDate     string           `json:"forecast_date"`
}

type WeatherService struct {
	readings repositories.WeatherRepositoryImpl
	provider WeatherProvider
	fallback WeatherProvider
	now      func() time.Time
}

// NewWeatherService uses provider for regions without stored rows; a nil provider means the sample row.
func NewWeatherService(readings repositories.WeatherRepositoryImpl, provider WeatherProvider) *WeatherService {
	s := &WeatherService{
		readings: readings,
		provider: provider,
		now:      time.Now,
	}
	s.fallback = NewSampleWeatherProvider(func() time.Time { return s.now() })
	return s
}

// Forecast returns up to seven rows from today onward and reports where they came from.
func (s *WeatherService) Forecast(ctx context.Context, district, state string) ([]WeatherRow, string, error) {
	district = strings.TrimSpace(district)
	state = strings.TrimSpace(state)

	v := validation.New()
	v.Required(district, "district")
	v.Required(state, "state")
	if v.HasErrors() {
		return nil, "", helpers.NewValidationFailed("District and state required", v.Errors())
	}

	today := s.today()
	readings, err := s.readings.Forecast(ctx, district, state, today, forecastDays)
	if err != nil {
		return nil, "", helpers.NewStorageUnavailable(err)
	}
	if len(readings) > 0 {
		rows := make([]WeatherRow, 0, len(readings))
		for i := range readings {
			rows = append(rows, toWeatherRow(&readings[i]))
		}
		return rows, SourceDatabase, nil
	}

	if s.provider == nil {
		rows, _ := s.fallback.Forecast(ctx, district, state, forecastDays)
		return rows, SourceDefault, nil
	}

	rows, err := s.provider.Forecast(ctx, district, state, forecastDays)
	if err != nil || len(rows) == 0 {
		if err != nil {
			log.Printf("Forecast: provider failed for %s, %s: %v", district, state, err)
		}
		rows, _ = s.fallback.Forecast(ctx, district, state, forecastDays)
		return rows, SourceDefault, nil
	}
	return rows, SourceProvider, nil
}

// Current returns today's latest stored reading for location, or the default reading.
func (s *WeatherService) Current(ctx context.Context, location string) (*WeatherRow, string, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultLocation
	}

	reading, err := s.readings.LatestForLocation(ctx, location, s.today())
	if err != nil {
		return nil, "", helpers.NewStorageUnavailable(err)
	}
	if reading == nil {
		row := defaultWeatherRow(location, s.now())
		return &row, SourceDefault, nil
	}

	row := toWeatherRow(reading)
	return &row, SourceDatabase, nil
}

func (s *WeatherService) Add(ctx context.Context, identity *sessions.Identity, input WeatherInput) (uint64, error) {
	if identity == nil {
		return 0, helpers.NewUnauthenticated(msgUnauthorized)
	}
	if identity.Role != models.RoleAdmin {
		return 0, helpers.NewForbidden("Admin access required")
	}

	input.Location = strings.TrimSpace(input.Location)
	input.ForecastDate = strings.TrimSpace(input.ForecastDate)

	v := validation.New()
	v.Required(input.Location, "location")
	v.Check(input.Temperature != nil, "temperature", "Temperature is required")
	var forecastDate time.Time
	if v.Required(input.ForecastDate, "forecast_date") {
		parsed, err := time.ParseInLocation(time.DateOnly, input.ForecastDate, time.Local)
		v.Check(err == nil, "forecast_date", "Forecast date must be in YYYY-MM-DD format")
		forecastDate = parsed
	}
	if err := v.Struct(input); err != nil {
		return 0, helpers.NewStorageUnavailable(err)
	}
	if v.HasErrors() {
		return 0, helpers.NewValidationFailed(v.FirstError(), v.Errors())
	}

	feelsLike := *input.Temperature
	if input.FeelsLike != nil {
		feelsLike = *input.FeelsLike
	}

	updatedBy := identity.UserID
	reading := &models.WeatherReading{
		Location:         input.Location,
		District:         strings.TrimSpace(input.District),
		State:            strings.TrimSpace(input.State),
		Temperature:      *input.Temperature,
		FeelsLike:        feelsLike,
		Humidity:         input.Humidity,
		WindSpeed:        input.WindSpeed,
		WeatherCondition: strings.TrimSpace(input.WeatherCondition),
		Description:      strings.TrimSpace(input.Description),
		Rainfall:         input.Rainfall,
		ForecastDate:     forecastDate,
		UpdatedBy:        &updatedBy,
	}
	if err := s.readings.Create(ctx, reading); err != nil {
		return 0, helpers.NewStorageUnavailable(err)
	}

	log.Printf("Add: admin %s added weather %d for %s", identity.UserID, reading.ID, reading.Location)
	return reading.ID, nil
}

func (s *WeatherService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func toWeatherRow(r *models.WeatherReading) WeatherRow {
	return WeatherRow{
		ID:               r.ID,
		Location:         r.Location,
		District:         r.District,
		State:            r.State,
		Temperature:      r.Temperature,
		FeelsLike:        r.FeelsLike,
		Humidity:         r.Humidity,
		WindSpeed:        r.WindSpeed,
		WeatherCondition: r.WeatherCondition,
		Description:      r.Description,
		Rainfall:         r.Rainfall,
		ForecastDate:     r.ForecastDate.Format(time.DateOnly),
	}
}
