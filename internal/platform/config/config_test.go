package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/collections-api/internal/platform/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/collections")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/public.pem")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 1, cfg.CollectionLabelsLimit)
	assert.Equal(t, 5*time.Minute, cfg.PublicCacheTTL)
	assert.Equal(t, "collection-events", cfg.EventSource)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("COLLECTION_LABELS_LIMIT", "3")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.CollectionLabelsLimit)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_NegativeLabelLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("COLLECTION_LABELS_LIMIT", "-1")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequired(t)
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	_, err := config.Load()
	assert.Error(t, err)
}
