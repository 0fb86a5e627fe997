package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"bodystats-bot/internal/model"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string
	DataDir       string
	DatabaseURL   string
	Policy        model.AccessPolicy
	ReminderTime  string // "HH:MM", empty disables the daily reminder
	LogDenied     bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DataDir:       strings.TrimSpace(os.Getenv("DATA_DIR")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReminderTime:  strings.TrimSpace(os.Getenv("REMINDER_TIME")),
		LogDenied:     parseBool(os.Getenv("LOG_DENIED"), true),
	}

	if cfg.DataDir == "" {
		cfg.DataDir = "user_data"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "bodystats.db"
	}

	policy, err := loadPolicy()
	if err != nil {
		return cfg, err
	}
	cfg.Policy = policy

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	return cfg, nil
}

func loadPolicy() (model.AccessPolicy, error) {
	mode := model.AccessMode(strings.ToUpper(strings.TrimSpace(os.Getenv("ACCESS_MODE"))))
	if mode == "" {
		mode = model.AccessOpen
	}

	switch mode {
	case model.AccessOpen, model.AccessAllowlistIDs, model.AccessAdminOnly, model.AccessAllowlistUsernames:
	default:
		return model.AccessPolicy{}, fmt.Errorf("unknown ACCESS_MODE %q", mode)
	}

	ids, err := parseIDList(os.Getenv("ALLOWED_USER_IDS"))
	if err != nil {
		return model.AccessPolicy{}, err
	}

	return model.AccessPolicy{
		Mode:             mode,
		AllowedUserIDs:   ids,
		AllowedUsernames: splitList(os.Getenv("ALLOWED_USERNAMES")),
	}, nil
}

func parseIDList(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ALLOWED_USER_IDS: invalid id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(raw string, fallback bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}
