package configs

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
)

func TestLoadEnv_Defaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "SESSION_MAX_AGE", "SESSION_MAX_AGE_SECONDS", "LOGIN_RATE_MAX_ATTEMPTS", "LOGIN_RATE_WINDOW", "NOTIFY_QUEUE_SIZE", "APP_ENV"} {
		t.Setenv(key, "")
	}

	env := LoadEnv()
	if env.Addr() != ":8080" {
		t.Fatalf("Addr() = %q", env.Addr())
	}
	if env.SessionMaxAge != 24*time.Hour {
		t.Fatalf("SessionMaxAge = %v", env.SessionMaxAge)
	}
	if env.LoginRateWindow != 15*time.Minute || env.LoginRateMaxAttempts != 5 {
		t.Fatalf("rate limit = %v / %d", env.LoginRateWindow, env.LoginRateMaxAttempts)
	}
	if env.IsProduction() {
		t.Fatal("default env should not be production")
	}
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("SESSION_MAX_AGE", "")
	t.Setenv("SESSION_MAX_AGE_SECONDS", "3600")
	t.Setenv("LOGIN_RATE_WINDOW", "5m")
	t.Setenv("LOGIN_RATE_MAX_ATTEMPTS", "not-a-number")
	t.Setenv("APP_ENV", "production")

	env := LoadEnv()
	if env.Addr() != ":9090" {
		t.Fatalf("Addr() = %q", env.Addr())
	}
	if env.SessionMaxAge != time.Hour {
		t.Fatalf("SessionMaxAge = %v", env.SessionMaxAge)
	}
	if env.LoginRateWindow != 5*time.Minute {
		t.Fatalf("LoginRateWindow = %v", env.LoginRateWindow)
	}
	if env.LoginRateMaxAttempts != 5 {
		t.Fatalf("invalid value should fall back, got %d", env.LoginRateMaxAttempts)
	}
	if !env.IsProduction() {
		t.Fatal("expected production")
	}
}

func TestDSN(t *testing.T) {
	env := ENV{DBUser: "root", DBPassword: "secret", DBHost: "db", DBPort: "3306", DBName: "eagri_db"}
	dsn := env.DSN()
	for _, want := range []string{"root:secret@tcp(db:3306)/eagri_db", "parseTime=true", "clientFoundRows=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("DSN %q missing %q", dsn, want)
		}
	}
}

func TestSessionKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.env")
	written, err := GenerateSessionKeys(path)
	if err != nil {
		t.Fatalf("GenerateSessionKeys() error = %v", err)
	}

	values, err := godotenv.Read(written)
	if err != nil {
		t.Fatalf("read keys: %v", err)
	}
	if info, err := os.Stat(written); err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("key file mode = %v, %v", info.Mode().Perm(), err)
	}

	keys, err := LoadSessionKeys(ENV{AppAuthKey: values["APP_AUTH_KEY"], AppEncKey: values["APP_ENC_KEY"]})
	if err != nil {
		t.Fatalf("LoadSessionKeys() error = %v", err)
	}
	if len(keys.AuthKey) != 64 || len(keys.EncKey) != 32 {
		t.Fatalf("key lengths = %d/%d", len(keys.AuthKey), len(keys.EncKey))
	}
}

func TestLoadSessionKeys_Invalid(t *testing.T) {
	short := base64.URLEncoding.EncodeToString(make([]byte, 8))
	good := base64.URLEncoding.EncodeToString(make([]byte, 32))

	tests := []struct {
		name string
		env  ENV
	}{
		{name: "missing auth key", env: ENV{AppEncKey: good}},
		{name: "missing enc key", env: ENV{AppAuthKey: good}},
		{name: "not base64", env: ENV{AppAuthKey: "%%%", AppEncKey: good}},
		{name: "short auth key", env: ENV{AppAuthKey: short, AppEncKey: good}},
		{name: "bad enc length", env: ENV{AppAuthKey: good, AppEncKey: short}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSessionKeys(tt.env); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
