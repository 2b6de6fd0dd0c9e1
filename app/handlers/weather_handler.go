package handlers

import (
	"net/http"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/services"
	"github.com/unrolled/render"
)

type WeatherHandler struct {
	render  *render.Render
	weather *services.WeatherService
}

func NewWeatherHandler(r *render.Render, weather *services.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		render:  r,
		weather: weather,
	}
}

func (h *WeatherHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	rows, source, err := h.weather.Forecast(r.Context(), query.Get("district"), query.Get("state"))
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	message := "Weather data retrieved successfully"
	if source != services.SourceDatabase {
		message = "Weather data retrieved from API"
	}
	helpers.Success(h.render, w, http.StatusOK, message, rows)
}

func (h *WeatherHandler) Current(w http.ResponseWriter, r *http.Request) {
	row, source, err := h.weather.Current(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	message := "Current weather retrieved"
	if source == services.SourceDefault {
		message = "Default weather data"
	}
	helpers.Success(h.render, w, http.StatusOK, message, row)
}

func (h *WeatherHandler) Add(w http.ResponseWriter, r *http.Request) {
	var input services.WeatherInput
	if err := helpers.DecodeJSON(r, &input); err != nil {
		helpers.Fail(h.render, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	id, err := h.weather.Add(r.Context(), helpers.IdentityFrom(r.Context()), input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	helpers.Success(h.render, w, http.StatusCreated, "Weather data added successfully", map[string]uint64{"weather_id": id})
}
