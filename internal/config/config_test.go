package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bodystats-bot/internal/config"
	"bodystats-bot/internal/model"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATA_DIR", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ACCESS_MODE", "")
	t.Setenv("ALLOWED_USER_IDS", "")
	t.Setenv("ALLOWED_USERNAMES", "")
	t.Setenv("REMINDER_TIME", "")
	t.Setenv("LOG_DENIED", "")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "test-token", cfg.TelegramToken)
	require.Equal(t, "user_data", cfg.DataDir)
	require.Equal(t, "bodystats.db", cfg.DatabaseURL)
	require.Equal(t, model.AccessOpen, cfg.Policy.Mode)
	require.True(t, cfg.LogDenied)
	require.Empty(t, cfg.ReminderTime)
}

func TestLoadRequiresToken(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadAllowlistPolicy(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACCESS_MODE", "allowlist_ids")
	t.Setenv("ALLOWED_USER_IDS", " 5, 42 ,7 ")
	t.Setenv("ALLOWED_USERNAMES", "alice, @Bob")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, model.AccessAllowlistIDs, cfg.Policy.Mode)
	require.Equal(t, []int64{5, 42, 7}, cfg.Policy.AllowedUserIDs)
	require.Equal(t, []string{"alice", "@Bob"}, cfg.Policy.AllowedUsernames)
}

func TestLoadRejectsUnknownMode(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ACCESS_MODE", "FRIENDS_ONLY")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadRejectsBadIDList(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("ALLOWED_USER_IDS", "5,abc")

	_, err := config.Load()
	require.Error(t, err)
}

func TestLoadLogDeniedFlag(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("LOG_DENIED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.False(t, cfg.LogDenied)
}
