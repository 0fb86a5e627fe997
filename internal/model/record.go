package model

import "time"

// Record is a single body-measurement sample. Weight is the only mandatory
// field; height, waist, hips and chest may be omitted in any submission.
type Record struct {
	Date   time.Time
	Weight float64
	Height *float64
	Waist  *float64
	Hips   *float64
	Chest  *float64
}

// UserLog is the full measurement history of one Telegram user, oldest first.
// Appends always use the submission time, so insertion order is chronological.
type UserLog []Record

// FieldDeltas holds signed differences between two records. A nil field means
// the value was missing on at least one side, not that it did not change.
type FieldDeltas struct {
	Weight *float64
	Height *float64
	Waist  *float64
	Hips   *float64
	Chest  *float64
}
