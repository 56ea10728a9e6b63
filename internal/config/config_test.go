package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "")
	t.Setenv("POLICY_FILE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "secret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Policy.CancellationWindow)
	assert.Equal(t, 24*time.Hour, cfg.Policy.AttendanceGracePeriod)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadRateLimit(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RATE_LIMIT_RPS", "fast")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cancellation_window: 2h\nmax_participants: 30\n"), 0o600))

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("POLICY_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, cfg.Policy.CancellationWindow)
	assert.Equal(t, 30, cfg.Policy.MaxParticipants)
	assert.Equal(t, 24*time.Hour, cfg.Policy.AttendanceGracePeriod)
}

func TestParsePolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"negative window", "cancellation_window: -1h"},
		{"inverted durations", "min_training_duration_minutes: 90\nmax_training_duration_minutes: 30"},
		{"zero participants", "max_participants: 0"},
		{"bad timezone", "timezone: Mars/Olympus"},
		{"malformed yaml", "cancellation_window: [1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := ParsePolicy([]byte(tt.data), DefaultPolicy())
			assert.Error(t, err)
			assert.Equal(t, DefaultPolicy(), policy)
		})
	}
}

func TestPolicy_Location(t *testing.T) {
	p := DefaultPolicy()
	p.Timezone = "UTC"
	assert.Equal(t, time.UTC, p.Location())

	p.Timezone = "Nowhere/Void"
	assert.Equal(t, time.UTC, p.Location())
}
