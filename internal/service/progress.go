package service

import "bodystats-bot/internal/model"

// LatestProgress returns the newest record and its delta against the record
// submitted immediately before it. The delta is nil while history holds a
// single record. Two rapid submissions count as two separate records; the
// delta is always the raw difference of the last two, whatever the time gap.
func LatestProgress(log model.UserLog) (*ProgressReport, error) {
	if len(log) == 0 {
		return nil, ErrEmptyHistory
	}
	report := &ProgressReport{Current: log[len(log)-1]}
	if len(log) >= 2 {
		report.Delta = Diff(log[len(log)-2], log[len(log)-1])
	}
	return report, nil
}

// Diff computes signed field-wise differences between two records. Optional
// fields missing on either side contribute no entry rather than a zero.
func Diff(prev, curr model.Record) *model.FieldDeltas {
	weight := curr.Weight - prev.Weight
	return &model.FieldDeltas{
		Weight: &weight,
		Height: diffOptional(prev.Height, curr.Height),
		Waist:  diffOptional(prev.Waist, curr.Waist),
		Hips:   diffOptional(prev.Hips, curr.Hips),
		Chest:  diffOptional(prev.Chest, curr.Chest),
	}
}

func diffOptional(prev, curr *float64) *float64 {
	if prev == nil || curr == nil {
		return nil
	}
	value := *curr - *prev
	return &value
}
