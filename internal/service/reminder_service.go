package service

import (
	"fmt"
	"time"

	"bodystats-bot/internal/model"
)

// ReminderService builds the daily "time to measure" notification.
type ReminderService struct {
	store RecordStorage
}

func NewReminderService(store RecordStorage) *ReminderService {
	return &ReminderService{store: store}
}

// DailyReminder returns the reminder text for one user, or due=false when
// the user has already logged a record today.
func (s *ReminderService) DailyReminder(user model.User, now time.Time) (text string, due bool, err error) {
	log, err := s.store.Load(user.TelegramID)
	if err != nil {
		return "", false, err
	}

	if len(log) == 0 {
		return "📏 Пора сделать первые измерения!\n" +
			"Нажми «📊 Добавить измерения» и введи вес (и при желании рост, талию, бёдра, грудь).", true, nil
	}

	last := log[len(log)-1]
	if sameDay(last.Date, now) {
		return "", false, nil
	}

	days := int(now.Sub(last.Date).Hours() / 24)
	if days < 1 {
		days = 1
	}

	text = fmt.Sprintf(
		"📏 Напоминание об измерениях\n"+
			"Последняя запись была %s (%s назад): вес %.1f кг.\n"+
			"Самое время обновить данные!",
		last.Date.Format("2006-01-02"), declineDays(days), last.Weight,
	)
	return text, true, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func declineDays(days int) string {
	rem100 := days % 100
	rem10 := days % 10
	switch {
	case rem100 >= 11 && rem100 <= 14:
		return fmt.Sprintf("%d дней", days)
	case rem10 == 1:
		return fmt.Sprintf("%d день", days)
	case rem10 >= 2 && rem10 <= 4:
		return fmt.Sprintf("%d дня", days)
	default:
		return fmt.Sprintf("%d дней", days)
	}
}
