package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bodystats-bot/internal/model"
	"bodystats-bot/internal/service"
)

func TestInWindowAllReturnsFullLog(t *testing.T) {
	log := model.UserLog{recordAt(365, 75), recordAt(45, 73), recordAt(1, 72)}

	got, err := service.InWindow(log, service.WindowAll, time.Now())
	require.NoError(t, err)
	require.Equal(t, log, got)
}

func TestInWindowWeekCutoffInclusive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)
	cutoff := now.AddDate(0, 0, -7)

	log := model.UserLog{
		{Date: cutoff.Add(-time.Second), Weight: 75}, // just outside
		{Date: cutoff, Weight: 74},                   // exactly on the boundary
		{Date: now.AddDate(0, 0, -3), Weight: 73},
		{Date: now, Weight: 72},
	}

	got, err := service.InWindow(log, service.WindowWeek, now)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, 74.0, got[0].Weight)
	require.Equal(t, 72.0, got[2].Weight)
}

func TestInWindowPeriods(t *testing.T) {
	now := time.Now()
	log := model.UserLog{recordAt(100, 76), recordAt(60, 75), recordAt(20, 74), recordAt(5, 73), recordAt(0, 72)}

	tests := []struct {
		window service.Window
		want   int
	}{
		{service.WindowWeek, 2},
		{service.WindowMonth, 3},
		{service.WindowQuarter, 4},
		{service.WindowAll, 5},
	}
	for _, tc := range tests {
		t.Run(string(tc.window), func(t *testing.T) {
			got, err := service.InWindow(log, tc.window, now)
			require.NoError(t, err)
			require.Len(t, got, tc.want)
		})
	}
}

func TestInWindowUnknownName(t *testing.T) {
	_, err := service.InWindow(nil, service.Window("DECADE"), time.Now())
	require.True(t, errors.Is(err, service.ErrInvalidWindow))
}

func TestPeriodSummaryComparesFirstAndLast(t *testing.T) {
	records := model.UserLog{
		{Date: time.Now().AddDate(0, 0, -20), Weight: 75, Waist: ptr(85)},
		{Date: time.Now().AddDate(0, 0, -10), Weight: 80, Waist: ptr(90)},
		{Date: time.Now(), Weight: 73, Waist: ptr(83)},
	}

	summary := service.PeriodSummary(records)
	require.NotNil(t, summary)
	// Net change across the period, not the last step.
	require.InDelta(t, -2, *summary.Weight, 1e-9)
	require.InDelta(t, -2, *summary.Waist, 1e-9)
}

func TestPeriodSummaryAbsentForShortWindows(t *testing.T) {
	require.Nil(t, service.PeriodSummary(nil))
	require.Nil(t, service.PeriodSummary(model.UserLog{recordAt(0, 70)}))
}
