package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"bodystats-bot/internal/model"
	"bodystats-bot/internal/service"
)

func ptr(v float64) *float64 { return &v }

func recordAt(daysAgo int, weight float64) model.Record {
	return model.Record{
		Date:   time.Now().AddDate(0, 0, -daysAgo),
		Weight: weight,
	}
}

func TestLatestProgressEmptyHistory(t *testing.T) {
	_, err := service.LatestProgress(nil)
	require.True(t, errors.Is(err, service.ErrEmptyHistory))
}

func TestLatestProgressSingleRecordHasNoDelta(t *testing.T) {
	log := model.UserLog{recordAt(0, 70.5)}

	report, err := service.LatestProgress(log)
	require.NoError(t, err)
	require.Equal(t, 70.5, report.Current.Weight)
	require.Nil(t, report.Delta)
}

func TestLatestProgressDeltaAgainstPreviousRecord(t *testing.T) {
	prev := model.Record{Date: time.Now().AddDate(0, 0, -3), Weight: 70.5, Waist: ptr(80), Hips: ptr(95), Chest: ptr(90)}
	curr := model.Record{Date: time.Now(), Weight: 72.3, Waist: ptr(82), Hips: ptr(96), Chest: ptr(91)}
	log := model.UserLog{recordAt(30, 68), prev, curr}

	report, err := service.LatestProgress(log)
	require.NoError(t, err)
	require.Equal(t, 72.3, report.Current.Weight)
	require.NotNil(t, report.Delta)
	require.InDelta(t, 1.8, *report.Delta.Weight, 1e-9)
	require.InDelta(t, 2, *report.Delta.Waist, 1e-9)
	require.InDelta(t, 1, *report.Delta.Hips, 1e-9)
	require.InDelta(t, 1, *report.Delta.Chest, 1e-9)
}

func TestDiffSkipsFieldsMissingOnEitherSide(t *testing.T) {
	prev := model.Record{Weight: 70, Height: ptr(175)}
	curr := model.Record{Weight: 69, Waist: ptr(80)}

	delta := service.Diff(prev, curr)
	require.InDelta(t, -1, *delta.Weight, 1e-9)
	// Sparse: no entry instead of a zero.
	require.Nil(t, delta.Height)
	require.Nil(t, delta.Waist)
	require.Nil(t, delta.Hips)
	require.Nil(t, delta.Chest)
}
