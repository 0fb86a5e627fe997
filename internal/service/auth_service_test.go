package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bodystats-bot/internal/model"
	"bodystats-bot/internal/service"
)

func TestOpenModeAuthorizesEveryone(t *testing.T) {
	svc := service.NewAuthService(model.AccessPolicy{Mode: model.AccessOpen})

	require.True(t, svc.IsAuthorized(1, ""))
	require.True(t, svc.IsAuthorized(-5, "whoever"))
}

func TestAllowlistIDs(t *testing.T) {
	svc := service.NewAuthService(model.AccessPolicy{
		Mode:           model.AccessAllowlistIDs,
		AllowedUserIDs: []int64{5},
	})

	require.True(t, svc.IsAuthorized(5, ""))
	require.False(t, svc.IsAuthorized(6, ""))
	require.False(t, svc.IsAuthorized(0, "someone"))
}

func TestAllowlistUsernames(t *testing.T) {
	svc := service.NewAuthService(model.AccessPolicy{
		Mode:             model.AccessAllowlistUsernames,
		AllowedUsernames: []string{"@Alice", "bob"},
	})

	tests := []struct {
		name     string
		username string
		want     bool
	}{
		{"exact match", "bob", true},
		{"case insensitive", "ALICE", true},
		{"leading at stripped", "@alice", true},
		{"unknown user", "carol", false},
		{"empty username denied", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, svc.IsAuthorized(1, tc.username))
		})
	}
}

func TestAdminOnlyFirstCallerClaimsSlot(t *testing.T) {
	svc := service.NewAuthService(model.AccessPolicy{Mode: model.AccessAdminOnly})

	require.True(t, svc.IsAuthorized(42, ""))
	require.False(t, svc.IsAuthorized(43, ""))
	// The claim is permanent for the process lifetime.
	require.True(t, svc.IsAuthorized(42, ""))
	require.False(t, svc.IsAuthorized(44, "someone"))
}

func TestUnknownModeDenies(t *testing.T) {
	svc := service.NewAuthService(model.AccessPolicy{Mode: model.AccessMode("BROKEN")})

	require.False(t, svc.IsAuthorized(1, "alice"))
}
