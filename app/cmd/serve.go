package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/e-agri/app/configs"
	"github.com/Rakhulsr/e-agri/app/handlers"
	"github.com/Rakhulsr/e-agri/app/repositories"
	"github.com/Rakhulsr/e-agri/app/routes"
	"github.com/Rakhulsr/e-agri/app/services"
	"github.com/Rakhulsr/e-agri/app/utils/renderer"
	"github.com/Rakhulsr/e-agri/app/utils/sessions"
)

// Serve wires the application and blocks until SIGINT/SIGTERM, then shuts down gracefully.
func Serve(ctx context.Context, env configs.ENV) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return fmt.Errorf("session keys: %w", err)
	}

	db, err := configs.OpenConnection(env)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	redisClient, err := configs.OpenRedis(ctx, env)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	store := sessions.NewServerStore(sessions.NewRedisBackend(redisClient), env.SessionMaxAge, keys.AuthKey, keys.EncKey)
	store.Options.Secure = env.IsProduction()
	sessionManager := sessions.NewManager(store)

	var mailer services.MailSender
	smtpMailer := services.NewMailer(services.Config{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
		Timeout:  env.EmailTimeout,
	})
	if smtpMailer.Configured() {
		mailer = smtpMailer
	} else {
		log.Println("Warning: EMAIL_HOST/EMAIL_FROM not set, welcome emails will be skipped")
	}
	notifier := services.NewNotifier(mailer, env.NotifyQueue, env.AppURL)
	defer notifier.Close()

	var provider services.WeatherProvider
	if weatherCfg := env.WeatherAPI(); weatherCfg.Enabled() {
		provider = services.NewOpenWeatherClient(weatherCfg)
	}

	userRepo := repositories.NewUserRepository(db)
	profileRepo := repositories.NewProfileRepository(db)

	limiter := services.NewRateLimiter(repositories.NewLoginAttemptRepository(db), env.LoginRateWindow, env.LoginRateMaxAttempts)

	router := routes.NewRouter(routes.Dependencies{
		Render:   renderer.New(!env.IsProduction()),
		Sessions: sessionManager,
		Auth:     services.NewAuthService(userRepo, profileRepo, limiter, notifier),
		Products: services.NewProductService(repositories.NewProductRepository(db), repositories.NewCategoryRepository(db), profileRepo),
		Weather:  services.NewWeatherService(repositories.NewWeatherRepository(db), provider),
		Health: map[string]handlers.Pinger{
			"database": sqlDB.PingContext,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})

	server := &http.Server{
		Addr:              env.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
