package routes

import (
	"net/http"

	"github.com/Rakhulsr/e-agri/app/handlers"
	"github.com/Rakhulsr/e-agri/app/middlewares"
	"github.com/Rakhulsr/e-agri/app/models"
	"github.com/Rakhulsr/e-agri/app/services"
	"github.com/Rakhulsr/e-agri/app/utils/sessions"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/unrolled/render"
)

type Dependencies struct {
	Render   *render.Render
	Sessions *sessions.Manager
	Auth     *services.AuthService
	Products *services.ProductService
	Weather  *services.WeatherService
	Health   map[string]handlers.Pinger
}

func NewRouter(deps Dependencies) *mux.Router {
	rnd := deps.Render

	authHandler := handlers.NewAuthHandler(rnd, deps.Auth, deps.Sessions)
	productHandler := handlers.NewProductHandler(rnd, deps.Products)
	weatherHandler := handlers.NewWeatherHandler(rnd, deps.Weather)
	healthHandler := handlers.NewHealthHandler(rnd, deps.Health)

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(healthHandler.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(healthHandler.NotFound)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.NotFoundHandler = router.NotFoundHandler
	api.MethodNotAllowedHandler = router.MethodNotAllowedHandler
	api.Use(
		middlewares.Recover(rnd),
		middlewares.Identity(deps.Sessions, rnd),
		middlewares.RequestLogger,
		middlewares.CSRF(deps.Sessions, rnd),
	)

	signedIn := middlewares.RequireSession(rnd, "Unauthorized access")
	dealerOnly := middlewares.RequireRole(rnd, models.RoleDealer)
	adminOnly := middlewares.RequireRole(rnd, models.RoleAdmin)

	api.HandleFunc("/csrf-token", authHandler.CSRFToken).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/check-session", authHandler.CheckSession).Methods(http.MethodGet)

	api.HandleFunc("/products", productHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/products/categories", productHandler.Categories).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", productHandler.Get).Methods(http.MethodGet)
	api.Handle("/dealer/products", chain(productHandler.DealerProducts, signedIn, dealerOnly)).Methods(http.MethodGet)
	api.Handle("/products", chain(productHandler.Create, signedIn, dealerOnly)).Methods(http.MethodPost)
	api.Handle("/products/{id}", chain(productHandler.Update, signedIn, dealerOnly)).Methods(http.MethodPut)
	api.Handle("/products/{id}", chain(productHandler.Delete, signedIn, dealerOnly)).Methods(http.MethodDelete)
	api.Handle("/products/{id}/decrement-stock", chain(productHandler.DecrementStock, signedIn)).Methods(http.MethodPost)

	api.HandleFunc("/weather", weatherHandler.Forecast).Methods(http.MethodGet)
	api.HandleFunc("/weather/current", weatherHandler.Current).Methods(http.MethodGet)
	api.Handle("/weather", chain(weatherHandler.Add, signedIn, adminOnly)).Methods(http.MethodPost)

	return router
}

// chain wraps h so the first middleware listed runs first.
func chain(h http.HandlerFunc, mws ...mux.MiddlewareFunc) http.Handler {
	var handler http.Handler = h
	for i := len(mws) - 1; i >= 0; i-- {
		handler = mws[i](handler)
	}
	return handler
}
