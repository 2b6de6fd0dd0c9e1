package configs

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gorilla/securecookie"
)

type SessionKeys struct {
	AuthKey []byte
	EncKey  []byte
}

func LoadSessionKeys(env ENV) (*SessionKeys, error) {
	if env.AppAuthKey == "" {
		return nil, fmt.Errorf("APP_AUTH_KEY environment variable not set")
	}
	if env.AppEncKey == "" {
		return nil, fmt.Errorf("APP_ENC_KEY environment variable not set")
	}

	authKey, err := base64.URLEncoding.DecodeString(env.AppAuthKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_AUTH_KEY from Base64: %w", err)
	}
	encKey, err := base64.URLEncoding.DecodeString(env.AppEncKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode APP_ENC_KEY from Base64: %w", err)
	}

	if len(authKey) < 32 {
		return nil, fmt.Errorf("APP_AUTH_KEY has invalid length %d after decoding. Must be at least 32 bytes", len(authKey))
	}
	if len(encKey) != 16 && len(encKey) != 24 && len(encKey) != 32 {
		return nil, fmt.Errorf("APP_ENC_KEY has invalid length %d after decoding. Must be 16, 24, or 32 bytes for AES encryption", len(encKey))
	}

	return &SessionKeys{
		AuthKey: authKey,
		EncKey:  encKey,
	}, nil
}

// GenerateSessionKeys writes a fresh APP_AUTH_KEY/APP_ENC_KEY pair to path and returns the absolute path.
func GenerateSessionKeys(path string) (string, error) {
	authKey := securecookie.GenerateRandomKey(64)
	if authKey == nil {
		return "", fmt.Errorf("could not generate authentication key")
	}

	encKey := securecookie.GenerateRandomKey(32)
	if encKey == nil {
		return "", fmt.Errorf("could not generate encryption key")
	}

	fullPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", path, err)
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", fullPath, err)
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, "APP_AUTH_KEY=%s\nAPP_ENC_KEY=%s\n",
		base64.URLEncoding.EncodeToString(authKey),
		base64.URLEncoding.EncodeToString(encKey),
	)
	if err != nil {
		return "", fmt.Errorf("failed to write keys to file %s: %w", fullPath, err)
	}

	return fullPath, nil
}
