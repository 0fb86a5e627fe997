package service

import (
	"time"

	"bodystats-bot/internal/model"
)

// RecordStorage is the persistence port for measurement logs.
type RecordStorage interface {
	Load(userID int64) (model.UserLog, error)
	Append(userID int64, record model.Record) (model.UserLog, error)
}

// Authorizer gates measurement commands.
type Authorizer interface {
	IsAuthorized(userID int64, username string) bool
}

// MeasurementInput carries already-parsed numeric fields in submission order.
// Weight is mandatory; the Telegram layer owns all text parsing.
type MeasurementInput struct {
	Weight float64
	Height *float64
	Waist  *float64
	Hips   *float64
	Chest  *float64
}

// ProgressReport is the outcome of a submit or progress query.
type ProgressReport struct {
	Current model.Record
	Delta   *model.FieldDeltas
}

// HistoryReport is the outcome of a period history query. Summary is nil
// when the window holds fewer than two records.
type HistoryReport struct {
	Window  Window
	Records model.UserLog
	Summary *model.FieldDeltas
}

// StatsService ties the access gate, the record store and the analytics
// together; the Telegram layer calls nothing else for measurement data.
type StatsService struct {
	store RecordStorage
	auth  Authorizer
}

func NewStatsService(store RecordStorage, auth Authorizer) *StatsService {
	return &StatsService{store: store, auth: auth}
}

// SubmitMeasurement appends a new record stamped with the submission time
// and reports it together with the delta against the previous record.
// Denied callers never touch storage.
func (s *StatsService) SubmitMeasurement(userID int64, username string, input MeasurementInput) (*ProgressReport, error) {
	if !s.auth.IsAuthorized(userID, username) {
		return nil, ErrNotAuthorized
	}

	record := model.Record{
		Date:   time.Now(),
		Weight: input.Weight,
		Height: input.Height,
		Waist:  input.Waist,
		Hips:   input.Hips,
		Chest:  input.Chest,
	}

	log, err := s.store.Append(userID, record)
	if err != nil {
		return nil, err
	}
	return LatestProgress(log)
}

// GetProgress returns the latest record and its delta against the previous one.
func (s *StatsService) GetProgress(userID int64, username string) (*ProgressReport, error) {
	if !s.auth.IsAuthorized(userID, username) {
		return nil, ErrNotAuthorized
	}

	log, err := s.store.Load(userID)
	if err != nil {
		return nil, err
	}
	return LatestProgress(log)
}

// GetHistory returns the records inside the named window plus a first-to-last
// summary. An empty window is a valid result, not an error.
func (s *StatsService) GetHistory(userID int64, username string, window Window) (*HistoryReport, error) {
	if !s.auth.IsAuthorized(userID, username) {
		return nil, ErrNotAuthorized
	}

	log, err := s.store.Load(userID)
	if err != nil {
		return nil, err
	}

	records, err := InWindow(log, window, time.Now())
	if err != nil {
		return nil, err
	}

	return &HistoryReport{
		Window:  window,
		Records: records,
		Summary: PeriodSummary(records),
	}, nil
}

// WhoAmI echoes the caller's identifier. It is deliberately exempt from the
// gate: a locked-out user has no other way to learn the id needed to request
// allowlisting.
func (s *StatsService) WhoAmI(userID int64) int64 {
	return userID
}
