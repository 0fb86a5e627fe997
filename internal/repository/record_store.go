package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"bodystats-bot/internal/model"
)

const dateLayout = "2006-01-02 15:04:05"

// StorageError reports a user file that exists but cannot be read or decoded.
// A missing file is not an error: unseen users simply have an empty history.
type StorageError struct {
	UserID int64
	Err    error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage for user %d: %v", e.UserID, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError rejects a measurement outside plausible human ranges. The
// hint is shown to the user as-is.
type ValidationError struct {
	Hint string
}

func (e *ValidationError) Error() string { return e.Hint }

// RecordStore keeps an append-only measurement log per user, one JSON file
// per Telegram id under dir. Every append rewrites the file through a temp
// file and rename, so a crash mid-write never corrupts prior records.
type RecordStore struct {
	dir string
}

// NewRecordStore creates dir if needed and returns a store rooted there.
func NewRecordStore(dir string) (*RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %q: %w", dir, err)
	}
	return &RecordStore{dir: dir}, nil
}

type storedRecord struct {
	Date   string   `json:"date"`
	Weight float64  `json:"weight"`
	Height *float64 `json:"height,omitempty"`
	Waist  *float64 `json:"waist,omitempty"`
	Hips   *float64 `json:"hips,omitempty"`
	Chest  *float64 `json:"chest,omitempty"`
}

type userFile struct {
	Records []storedRecord `json:"records"`
}

func (s *RecordStore) filePath(userID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("user_%d.json", userID))
}

// Load returns the full record sequence for a user, oldest first. Users with
// no saved file get an empty log.
func (s *RecordStore) Load(userID int64) (model.UserLog, error) {
	raw, err := os.ReadFile(s.filePath(userID))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{UserID: userID, Err: err}
	}

	var file userFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, &StorageError{UserID: userID, Err: err}
	}

	log := make(model.UserLog, 0, len(file.Records))
	for _, rec := range file.Records {
		date, err := time.ParseInLocation(dateLayout, rec.Date, time.Local)
		if err != nil {
			return nil, &StorageError{UserID: userID, Err: fmt.Errorf("record date %q: %w", rec.Date, err)}
		}
		log = append(log, model.Record{
			Date:   date,
			Weight: rec.Weight,
			Height: rec.Height,
			Waist:  rec.Waist,
			Hips:   rec.Hips,
			Chest:  rec.Chest,
		})
	}
	return log, nil
}

// Append validates the record, persists the extended log and returns it.
// A failed append leaves the previously saved state intact.
func (s *RecordStore) Append(userID int64, record model.Record) (model.UserLog, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}

	log, err := s.Load(userID)
	if err != nil {
		return nil, err
	}

	log = append(log, record)
	if err := s.save(userID, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (s *RecordStore) save(userID int64, log model.UserLog) error {
	file := userFile{Records: make([]storedRecord, 0, len(log))}
	for _, rec := range log {
		file.Records = append(file.Records, storedRecord{
			Date:   rec.Date.Format(dateLayout),
			Weight: rec.Weight,
			Height: rec.Height,
			Waist:  rec.Waist,
			Hips:   rec.Hips,
			Chest:  rec.Chest,
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return &StorageError{UserID: userID, Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, fmt.Sprintf("user_%d_*.tmp", userID))
	if err != nil {
		return &StorageError{UserID: userID, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &StorageError{UserID: userID, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &StorageError{UserID: userID, Err: err}
	}
	if err := os.Rename(tmp.Name(), s.filePath(userID)); err != nil {
		return &StorageError{UserID: userID, Err: err}
	}
	return nil
}

// Plausibility ranges follow the measurement prompts in the bot: weight in
// kilograms, everything else in centimeters.
func validateRecord(rec model.Record) error {
	if err := checkRange("Вес должен быть от 30 до 300 кг", rec.Weight, 30, 300); err != nil {
		return err
	}
	optional := []struct {
		hint     string
		value    *float64
		min, max float64
	}{
		{"Рост должен быть от 100 до 250 см", rec.Height, 100, 250},
		{"Объём талии должен быть от 40 до 200 см", rec.Waist, 40, 200},
		{"Объём бёдер должен быть от 50 до 200 см", rec.Hips, 50, 200},
		{"Объём груди должен быть от 50 до 200 см", rec.Chest, 50, 200},
	}
	for _, field := range optional {
		if field.value == nil {
			continue
		}
		if err := checkRange(field.hint, *field.value, field.min, field.max); err != nil {
			return err
		}
	}
	return nil
}

func checkRange(hint string, value, min, max float64) error {
	// NaN slips past plain comparisons, reject it explicitly.
	if math.IsNaN(value) || value < min || value > max {
		return &ValidationError{Hint: hint}
	}
	return nil
}
