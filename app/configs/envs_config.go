package configs

import (
	"log"
	"os"
	"strconv"
	"time"
)

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		log.Printf("getenvInt: ignoring invalid %s=%q, using %d", key, val, fallback)
		return fallback
	}
	return parsed
}

// getenvDuration accepts Go duration syntax ("15m") or, via KEY_SECONDS, a plain number of seconds.
func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil && parsed > 0 {
			return parsed
		}
		log.Printf("getenvDuration: ignoring invalid %s=%q", key, val)
	}
	if val := os.Getenv(key + "_SECONDS"); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}
