package model

import "time"

// AccessMode selects how the bot decides who may use it.
type AccessMode string

const (
	AccessOpen               AccessMode = "OPEN"
	AccessAllowlistIDs       AccessMode = "ALLOWLIST_IDS"
	AccessAdminOnly          AccessMode = "ADMIN_ONLY"
	AccessAllowlistUsernames AccessMode = "ALLOWLIST_USERNAMES"
)

// AccessPolicy is the process-wide authorization configuration. It is read
// once at startup and never changes during a run.
type AccessPolicy struct {
	Mode             AccessMode
	AllowedUserIDs   []int64
	AllowedUsernames []string
}

// AccessAttempt is one denied request, kept for operator review.
type AccessAttempt struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    int64 `gorm:"index"`
	Username  string
	Action    string
	CreatedAt time.Time
}
