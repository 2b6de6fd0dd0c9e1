package configs

import "time"

// WeatherAPIConfig configures the OpenWeatherMap forecast client. An empty APIKey disables it.
type WeatherAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func (e ENV) WeatherAPI() WeatherAPIConfig {
	return WeatherAPIConfig{
		BaseURL: e.OpenWeatherBaseURL,
		APIKey:  e.OpenWeatherAPIKey,
		Timeout: 10 * time.Second,
	}
}

func (c WeatherAPIConfig) Enabled() bool {
	return c.APIKey != ""
}
