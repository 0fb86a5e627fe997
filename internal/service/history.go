package service

import (
	"fmt"
	"time"

	"bodystats-bot/internal/model"
)

// Window names a relative history period.
type Window string

const (
	WindowWeek    Window = "WEEK"
	WindowMonth   Window = "MONTH"
	WindowQuarter Window = "QUARTER"
	WindowAll     Window = "ALL"
)

// InWindow returns the subsequence of log whose timestamps fall inside the
// window relative to now, inclusive at the cutoff, in original order. The
// log itself is never mutated.
func InWindow(log model.UserLog, window Window, now time.Time) (model.UserLog, error) {
	var cutoff time.Time
	switch window {
	case WindowAll:
		return log, nil
	case WindowWeek:
		cutoff = now.AddDate(0, 0, -7)
	case WindowMonth:
		cutoff = now.AddDate(0, 0, -30)
	case WindowQuarter:
		cutoff = now.AddDate(0, 0, -90)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidWindow, window)
	}

	var filtered model.UserLog
	for _, rec := range log {
		if !rec.Date.Before(cutoff) {
			filtered = append(filtered, rec)
		}
	}
	return filtered, nil
}

// PeriodSummary compares the first and last record of a filtered window,
// measuring net change across the whole period rather than the last step.
// Nil when the window holds fewer than two records; an empty window means
// "no data in this period", not zero change.
func PeriodSummary(records model.UserLog) *model.FieldDeltas {
	if len(records) < 2 {
		return nil
	}
	return Diff(records[0], records[len(records)-1])
}
