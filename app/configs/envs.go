package configs

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	Port   string
	AppEnv string
	AppURL string

	AppAuthKey    string
	AppEncKey     string
	SessionMaxAge time.Duration
	RedisURL      string

	EmailHost     string
	EmailPort     string
	EmailUsername string
	EmailPassword string
	EmailFrom     string
	EmailTimeout  time.Duration
	NotifyQueue   int

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string

	LoginRateWindow      time.Duration
	LoginRateMaxAttempts int
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	username := os.Getenv("EMAIL_USERNAME")

	return ENV{
		DBHost:     getenv("DB_HOST", "127.0.0.1"),
		DBUser:     getenv("DB_USER", "root"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getenv("DB_NAME", "eagri_db"),
		DBPort:     getenv("DB_PORT", "3306"),

		Port:   getenv("APP_PORT", "8080"),
		AppEnv: getenv("APP_ENV", "development"),
		AppURL: getenv("APP_URL", "http://localhost:8080"),

		AppAuthKey:    os.Getenv("APP_AUTH_KEY"),
		AppEncKey:     os.Getenv("APP_ENC_KEY"),
		SessionMaxAge: getenvDuration("SESSION_MAX_AGE", 24*time.Hour),
		RedisURL:      getenv("REDIS_URL", "redis://localhost:6379/0"),

		EmailHost:     os.Getenv("EMAIL_HOST"),
		EmailPort:     getenv("EMAIL_PORT", "587"),
		EmailUsername: username,
		EmailPassword: os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:     getenv("EMAIL_FROM", username),
		EmailTimeout:  getenvDuration("EMAIL_TIMEOUT", 30*time.Second),
		NotifyQueue:   getenvInt("NOTIFY_QUEUE_SIZE", 64),

		OpenWeatherAPIKey:  os.Getenv("OPENWEATHER_API_KEY"),
		OpenWeatherBaseURL: getenv("OPENWEATHER_BASE_URL", "https://api.openweathermap.org"),

		LoginRateWindow:      getenvDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		LoginRateMaxAttempts: getenvInt("LOGIN_RATE_MAX_ATTEMPTS", 5),
	}
}

// Addr is the listen address derived from APP_PORT, which may be given with or without the colon.
func (e ENV) Addr() string {
	if len(e.Port) > 0 && e.Port[0] == ':' {
		return e.Port
	}
	return ":" + e.Port
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}
