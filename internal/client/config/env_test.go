package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv_OverlaysValues(t *testing.T) {
	t.Setenv("STOREKEEPER_API_URL", "http://env.example:8000")
	t.Setenv("STOREKEEPER_TIMEOUT", "30s")
	t.Setenv("STOREKEEPER_LANG", "fr")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://env.example:8000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "fr", cfg.Language)
	// untouched by the environment
	assert.Equal(t, "storekeeper.db", cfg.DatabasePath)
}

func Test_parseEnv_InvalidTimeoutIsIgnored(t *testing.T) {
	t.Setenv("STOREKEEPER_TIMEOUT", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}
