package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTaskDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("TASKS_PORT", "")
	t.Setenv("TASKS_REQUIRE_AUTH", "")
	t.Setenv("TASK_STORE", "")

	cfg, err := Load(ServiceTasks)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:4000", cfg.Address())
	assert.Equal(t, StorePostgres, cfg.Tasks.Store)
	assert.False(t, cfg.NeedsJWT())
	assert.True(t, cfg.UsesPostgres())
	assert.Contains(t, cfg.Database.URL, "postgres://")
}

func TestLoadAuthDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("AUTH_PORT", "")
	t.Setenv("USER_STORE", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(ServiceAuth)
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.False(t, cfg.UsesPostgres())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load(ServiceAuth)
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("TASKS_REQUIRE_AUTH", "true")
	_, err = Load(ServiceTasks)
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("TASK_STORE", "mongo")
	_, err := Load(ServiceTasks)
	assert.ErrorContains(t, err, "TASK_STORE")
}

func TestOverrides(t *testing.T) {
	t.Setenv("TASKS_PORT", "4100")
	t.Setenv("TASK_STORE", "MEMORY")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, ,http://example.com")
	t.Setenv("APP_ENV", "staging")

	cfg, err := Load(ServiceTasks)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, "4100", cfg.HTTP.Port)
	assert.Equal(t, StoreMemory, cfg.Tasks.Store)
	assert.Equal(t, 7*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://example.com"}, cfg.CORS.AllowedOrigins)
}
