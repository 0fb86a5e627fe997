package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bodystats-bot/internal/bot"
	"bodystats-bot/internal/config"
	"bodystats-bot/internal/repository"
	"bodystats-bot/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	store, err := repository.NewRecordStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("record store: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authSvc := service.NewAuthService(cfg.Policy)
	statsSvc := service.NewStatsService(store, authSvc)
	reminderSvc := service.NewReminderService(store)

	telegramBot, err := bot.New(cfg.TelegramToken, statsSvc, authSvc, reminderSvc, userRepo, auditRepo, &cfg)
	if err != nil {
		log.Fatalf("bot: %v", err)
	}

	if cfg.ReminderTime != "" {
		scheduler := service.NewSchedulerService(time.Local)
		if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := telegramBot.SendDailyReminders(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("reminders: %v", err)
			}
		}); err != nil {
			log.Fatalf("schedule reminders: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	log.Println("Body stats bot started.")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("bot stopped with error: %v", err)
	}
	log.Println("Shutdown complete.")
}
