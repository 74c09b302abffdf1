package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
)

// envFiles are loaded in order; godotenv never overrides variables that are
// already set, so the process environment wins over both files.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads publish credentials (TWINE_USERNAME, TWINE_PASSWORD, ...)
// from .env files in the working directory. Missing files are skipped.
func loadEnvFiles() error {
	for _, envPath := range envFiles {
		if _, err := os.Stat(envPath); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return rerrors.ConfigInvalid(envPath, err)
		}
		slog.Debug("Loaded environment variables", slog.String("path", envPath))
	}
	return nil
}
