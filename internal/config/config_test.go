package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_DefaultsAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("ROSTER_CODE_MAX_ATTEMPTS", "7")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 7, cfg.Roster.CodeMaxAttempts)
	assert.Equal(t, "require_all", cfg.Assessment.SkinfoldPolicy)
	assert.Equal(t, 15*time.Minute, cfg.S3.PresignExpiry)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
jwt:
  secret: file-secret
  expiration: 90m
assessment:
  skinfold_policy: zero_fill
redis:
  enabled: true
  addr: redis:6379
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 90*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, "zero_fill", cfg.Assessment.SkinfoldPolicy)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=dotenv-secret\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	cfg := Config{Assessment: AssessmentConfig{SkinfoldPolicy: "require_all"}}
	assert.ErrorIs(t, cfg.Validate(), ErrMissingJWTSecret)

	cfg.JWT.Secret = "s"
	assert.NoError(t, cfg.Validate())

	cfg.Assessment.SkinfoldPolicy = "guess"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidSkinfoldPolicy)
}
