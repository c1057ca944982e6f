package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MOCK_SERVER_BASE_URL", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("ALLOW_ORIGINS", "")
	t.Setenv("STORE_DRIVER", "")

	cfg := Load("8080")

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.MockServerBaseURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.AllowOrigins)
	assert.Equal(t, "memory", cfg.StoreDriver)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MOCK_SERVER_BASE_URL", "http://mock:3000/")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")
	t.Setenv("ALLOW_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load("8080")

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://mock:3000", cfg.MockServerBaseURL, "trailing slash should be trimmed")
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout, "invalid duration falls back to default")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowOrigins)
}
