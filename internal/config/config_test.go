package config

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("SESSION_LIFETIME", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("SHARE_CODE_LENGTH", "")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.AllowedOrigins)
	assert.Equal(t, 8, cfg.ShareCodeLength)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_LIFETIME", "30m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SHARE_CODE_LENGTH", "12")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 30*time.Minute, cfg.SessionLifetime)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 12, cfg.ShareCodeLength)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("Lifetime", func(t *testing.T) {
		t.Setenv("SESSION_LIFETIME", "forever")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("Share code length", func(t *testing.T) {
		t.Setenv("SHARE_CODE_LENGTH", "2")
		_, err := Load(zerolog.Nop())
		assert.Error(t, err)
	})
}
