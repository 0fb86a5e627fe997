package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bodystats-bot/internal/model"
	"bodystats-bot/internal/service"
)

func TestDailyReminderFirstMeasurement(t *testing.T) {
	store := &mockStore{}
	svc := service.NewReminderService(store)

	text, due, err := svc.DailyReminder(model.User{TelegramID: 1}, time.Now())
	require.NoError(t, err)
	require.True(t, due)
	require.Contains(t, text, "первые измерения")
}

func TestDailyReminderSkipsUsersWhoLoggedToday(t *testing.T) {
	now := time.Date(2025, 6, 15, 20, 0, 0, 0, time.Local)
	store := &mockStore{
		loadFn: func(int64) (model.UserLog, error) {
			return model.UserLog{{Date: now.Add(-2 * time.Hour), Weight: 70}}, nil
		},
	}
	svc := service.NewReminderService(store)

	_, due, err := svc.DailyReminder(model.User{TelegramID: 1}, now)
	require.NoError(t, err)
	require.False(t, due)
}

func TestDailyReminderMentionsLastRecord(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.Local)
	store := &mockStore{
		loadFn: func(int64) (model.UserLog, error) {
			return model.UserLog{{Date: now.AddDate(0, 0, -3), Weight: 71.2}}, nil
		},
	}
	svc := service.NewReminderService(store)

	text, due, err := svc.DailyReminder(model.User{TelegramID: 1}, now)
	require.NoError(t, err)
	require.True(t, due)
	require.Contains(t, text, "2025-06-12")
	require.Contains(t, text, "71.2")
	require.Contains(t, text, "3 дня")
}
