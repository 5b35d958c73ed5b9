package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the process environment win over the file.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("STOREKEEPER_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("STOREKEEPER_DB_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("STOREKEEPER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("STOREKEEPER_LANG"); v != "" {
		cfg.Language = v
	}
}
