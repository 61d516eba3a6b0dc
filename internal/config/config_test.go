package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("SIGNUP_CREDITS", "0")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "QA@verifiedmeasure.com", cfg.SupportEmail)
	assert.Equal(t, 0, cfg.SignupCredits)
}

func TestNewConfigRequiredKeys(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := NewConfig()
	require.EqualError(t, err, "JWT_SECRET is required")
}

func TestNewConfigRejectsBadNumbers(t *testing.T) {
	t.Setenv("SIGNUP_CREDITS", "lots")
	_, err := NewConfig()
	require.Error(t, err)

	t.Setenv("SIGNUP_CREDITS", "5")
	t.Setenv("SESSION_TTL", "-1h")
	_, err = NewConfig()
	require.Error(t, err)

	t.Setenv("SESSION_TTL", "30m")
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.SignupCredits)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}
