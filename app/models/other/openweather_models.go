package other

// OpenWeatherForecastResponse is the subset of the /data/2.5/forecast payload the weather client reads.
type OpenWeatherForecastResponse struct {
	Cod     string                `json:"cod"`
	Message interface{}           `json:"message"`
	List    []OpenWeatherForecast `json:"list"`
	City    OpenWeatherCity       `json:"city"`
}

type OpenWeatherForecast struct {
	Dt      int64                `json:"dt"`
	Main    OpenWeatherMain      `json:"main"`
	Weather []OpenWeatherSummary `json:"weather"`
	Wind    OpenWeatherWind      `json:"wind"`
	Rain    map[string]float64   `json:"rain"`
	DtTxt   string               `json:"dt_txt"`
}

type OpenWeatherMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
}

type OpenWeatherSummary struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type OpenWeatherWind struct {
	Speed float64 `json:"speed"`
}

type OpenWeatherCity struct {
	Name     string `json:"name"`
	Timezone int    `json:"timezone"`
}

type OpenWeatherError struct {
	Cod     interface{} `json:"cod"`
	Message string      `json:"message"`
}
