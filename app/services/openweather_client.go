package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/Rakhulsr/e-agri/app/configs"
	"github.com/Rakhulsr/e-agri/app/models/other"
	"github.com/shopspring/decimal"
)

// WeatherProvider supplies forecast rows when the weather table has none for a region.
type WeatherProvider interface {
	Forecast(ctx context.Context, district, state string, days int) ([]WeatherRow, error)
}

type openWeatherClient struct {
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewOpenWeatherClient(cfg configs.WeatherAPIConfig) WeatherProvider {
	return &openWeatherClient{
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *openWeatherClient) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	params.Set("appid", c.apiKey)
	fullURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read openweather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr other.OpenWeatherError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("openweather returned status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("openweather returned status %d", resp.StatusCode)
	}

	return body, nil
}

// Forecast condenses the 3-hourly forecast into one row per local day, taking the reading
// closest to midday and summing the day's rain.
func (c *openWeatherClient) Forecast(ctx context.Context, district, state string, days int) ([]WeatherRow, error) {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s,IN", district, state))
	params.Set("units", "metric")

	body, err := c.doRequest(ctx, "/data/2.5/forecast", params)
	if err != nil {
		return nil, err
	}

	var apiResponse other.OpenWeatherForecastResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode openweather forecast: %w", err)
	}

	zone := time.FixedZone(apiResponse.City.Name, apiResponse.City.Timezone)

	type day struct {
		date     string
		best     other.OpenWeatherForecast
		distance time.Duration
		rain     float64
	}
	byDate := map[string]*day{}

	for _, entry := range apiResponse.List {
		local := time.Unix(entry.Dt, 0).In(zone)
		date := local.Format(time.DateOnly)
		noon := time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, zone)
		distance := local.Sub(noon).Abs()

		d, ok := byDate[date]
		if !ok {
			d = &day{date: date, best: entry, distance: distance}
			byDate[date] = d
		} else if distance < d.distance {
			d.best = entry
			d.distance = distance
		}
		d.rain += entry.Rain["3h"]
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[:days]
	}

	rows := make([]WeatherRow, 0, len(dates))
	for _, date := range dates {
		d := byDate[date]
		condition, description := "", ""
		if len(d.best.Weather) > 0 {
			condition = d.best.Weather[0].Main
			description = d.best.Weather[0].Description
		}
		rows = append(rows, WeatherRow{
			Location:         district,
			District:         district,
			State:            state,
			Temperature:      decimal.NewFromFloat(d.best.Main.Temp).Round(2),
			FeelsLike:        decimal.NewFromFloat(d.best.Main.FeelsLike).Round(2),
			Humidity:         d.best.Main.Humidity,
			WindSpeed:        decimal.NewFromFloat(d.best.Wind.Speed * 3.6).Round(2),
			WeatherCondition: condition,
			Description:      description,
			Rainfall:         decimal.NewFromFloat(d.rain).Round(2),
			ForecastDate:     date,
		})
	}

	return rows, nil
}

// sampleProvider answers with the fixed reading used when no live source is configured.
type sampleProvider struct {
	now func() time.Time
}

// NewSampleWeatherProvider dates its row with now; a nil clock means time.Now.
func NewSampleWeatherProvider(now func() time.Time) WeatherProvider {
	if now == nil {
		now = time.Now
	}
	return &sampleProvider{now: now}
}

func (p *sampleProvider) Forecast(_ context.Context, district, state string, _ int) ([]WeatherRow, error) {
	row := defaultWeatherRow(district, p.now())
	row.District = district
	row.State = state
	return []WeatherRow{row}, nil
}

func defaultWeatherRow(location string, now time.Time) WeatherRow {
	return WeatherRow{
		Location:         location,
		Temperature:      decimal.NewFromInt(28),
		FeelsLike:        decimal.NewFromInt(30),
		Humidity:         65,
		WindSpeed:        decimal.NewFromInt(12),
		WeatherCondition: "Clear",
		Description:      "Clear sky",
		Rainfall:         decimal.Zero,
		ForecastDate:     now.Format(time.DateOnly),
	}
}
