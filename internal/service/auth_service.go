package service

import (
	"log"
	"strings"
	"sync"

	"bodystats-bot/internal/model"
)

// AuthService evaluates the configured access policy. The policy itself is
// immutable; the only state is the admin slot in ADMIN_ONLY mode, claimed by
// the first caller and held for the process lifetime.
type AuthService struct {
	mode      model.AccessMode
	ids       map[int64]struct{}
	usernames map[string]struct{}

	mu      sync.Mutex
	adminID int64
	claimed bool
}

func NewAuthService(policy model.AccessPolicy) *AuthService {
	s := &AuthService{
		mode:      policy.Mode,
		ids:       make(map[int64]struct{}, len(policy.AllowedUserIDs)),
		usernames: make(map[string]struct{}, len(policy.AllowedUsernames)),
	}
	for _, id := range policy.AllowedUserIDs {
		s.ids[id] = struct{}{}
	}
	for _, name := range policy.AllowedUsernames {
		if name = normalizeUsername(name); name != "" {
			s.usernames[name] = struct{}{}
		}
	}
	return s
}

// IsAuthorized reports whether the user may run measurement commands.
// Denial never reveals who is on the allowlist; the /id diagnostic bypasses
// this check entirely so locked-out users can learn their own id.
func (s *AuthService) IsAuthorized(userID int64, username string) bool {
	switch s.mode {
	case model.AccessOpen:
		return true
	case model.AccessAllowlistIDs:
		_, ok := s.ids[userID]
		return ok
	case model.AccessAdminOnly:
		return s.claimAdmin(userID) == userID
	case model.AccessAllowlistUsernames:
		name := normalizeUsername(username)
		if name == "" {
			return false
		}
		_, ok := s.usernames[name]
		return ok
	default:
		return false
	}
}

// claimAdmin assigns the admin slot to the first caller ever seen and
// returns whoever holds it. The claim is idempotent.
func (s *AuthService) claimAdmin(userID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.claimed {
		s.adminID = userID
		s.claimed = true
		log.Printf("[info] admin slot claimed by user %d", userID)
	}
	return s.adminID
}

// Usernames compare case-insensitively with any leading @ stripped.
func normalizeUsername(name string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "@"))
}
