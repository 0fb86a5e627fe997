package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bodystats-bot/internal/model"
)

// AuditRepository persists denied access attempts for operator review.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) RecordDenied(ctx context.Context, userID int64, username, action string) error {
	attempt := model.AccessAttempt{
		UserID:   userID,
		Username: username,
		Action:   action,
	}
	if err := r.db.WithContext(ctx).Create(&attempt).Error; err != nil {
		return fmt.Errorf("record denied attempt: %w", err)
	}
	return nil
}

// ListRecent returns the newest denied attempts, most recent first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]model.AccessAttempt, error) {
	var attempts []model.AccessAttempt
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}
