package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/missioncontrol/kv"
)

// errNoChange lets an Update callback skip the write.
var errNoChange = errors.New("no change")

// Store loads and saves the analytics Record in a kv.Backend.
type Store struct {
	backend   kv.Backend
	log       zerolog.Logger
	now       func() time.Time
	loc       *time.Location
	resetKeys []string

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone that defines calendar days (default UTC).
func WithLocation(loc *time.Location) StoreOption {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithResetKeys adds keys that Reset erases along with the record.
func WithResetKeys(keys ...string) StoreOption {
	return func(s *Store) { s.resetKeys = append(s.resetKeys, keys...) }
}

// NewStore creates a Store over backend.
func NewStore(backend kv.Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		log:     zerolog.Nop(),
		now:     time.Now,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time { return s.now() }

// Location returns the calendar-day time zone.
func (s *Store) Location() *time.Location { return s.loc }

// DateKey formats t as the calendar date used for dailyVisits.
func (s *Store) DateKey(t time.Time) string {
	return t.In(s.loc).Format(time.DateOnly)
}

// Load returns the persisted record. A missing or unparseable value yields a
// fresh default record; only backend failures are returned as errors.
func (s *Store) Load(ctx context.Context) (*Record, error) {
	raw, ok, err := s.backend.Get(ctx, RecordKey)
	if err != nil {
		return nil, fmt.Errorf("load analytics: %w", err)
	}
	if !ok {
		return NewRecord(), nil
	}
	rec := NewRecord()
	if err := json.Unmarshal([]byte(raw), rec); err != nil {
		s.log.Debug().Err(err).Msg("discarding unparseable analytics record")
		return NewRecord(), nil
	}
	rec.Normalize()
	return rec, nil
}

// Save overwrites the persisted record with a single write.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode analytics: %w", err)
	}
	if err := s.backend.Set(ctx, RecordKey, string(b)); err != nil {
		return fmt.Errorf("save analytics: %w", err)
	}
	return nil
}

// Update runs one read-modify-write cycle: load, fn, save. If fn returns
// errNoChange the record is returned without writing.
func (s *Store) Update(ctx context.Context, fn func(*Record) error) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := fn(rec); err != nil {
		if errors.Is(err, errNoChange) {
			return rec, nil
		}
		return nil, err
	}
	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Export returns the current record as indented JSON and logs the export in
// the activity log. The returned document is the state before that entry.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	rec, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	if err := s.AddActivity(ctx, ActivityExport, "Analytics data exported"); err != nil {
		return nil, err
	}
	return b, nil
}

// Reset erases the record and every key registered with WithResetKeys.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := append([]string{RecordKey}, s.resetKeys...)
	if err := s.backend.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("reset analytics: %w", err)
	}
	s.log.Info().Strs("keys", keys).Msg("analytics reset")
	return nil
}
