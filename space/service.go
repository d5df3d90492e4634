package space

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/eringen/missioncontrol/kv"
	"github.com/eringen/missioncontrol/metrics"
)

const issKey = "iss"

// Service serves space data from the persisted cache, falling back to the
// upstream APIs when an entry is stale.
type Service struct {
	client  *Client
	backend kv.Backend
	log     zerolog.Logger
	now     func() time.Time
	loc     *time.Location

	// mu guards the persisted CacheRecord so a refresh is fetched once.
	mu  sync.Mutex
	iss *expirable.LRU[string, ISSPosition]
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// WithLocation sets the time zone that defines the APOD calendar day.
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) ServiceOption {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service persisting its cache in backend.
func NewService(client *Client, backend kv.Backend, opts ...ServiceOption) *Service {
	s := &Service{
		client:  client,
		backend: backend,
		log:     zerolog.Nop(),
		now:     time.Now,
		loc:     time.UTC,
		iss:     expirable.NewLRU[string, ISSPosition](1, nil, ISSTTL),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) loadCache(ctx context.Context) (*CacheRecord, error) {
	raw, ok, err := s.backend.Get(ctx, CacheKey)
	if err != nil {
		s.log.Error().Err(err).Msg("load space cache")
		return nil, fmt.Errorf("load space cache: %w", err)
	}
	rec := &CacheRecord{}
	if !ok {
		return rec, nil
	}
	if err := json.Unmarshal([]byte(raw), rec); err != nil {
		s.log.Debug().Err(err).Msg("discarding unparseable space cache")
		return &CacheRecord{}, nil
	}
	return rec, nil
}

func (s *Service) saveCache(ctx context.Context, rec *CacheRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode space cache: %w", err)
	}
	if err := s.backend.Set(ctx, CacheKey, string(b)); err != nil {
		return fmt.Errorf("save space cache: %w", err)
	}
	return nil
}

func (s *Service) fail(widget string, err error) error {
	metrics.UpstreamFailures.WithLabelValues(widget).Inc()
	s.log.Warn().Err(err).Str("widget", widget).Msg("space api unavailable")
	return err
}

// Launch returns the next SpaceX launch. A cached entry younger than
// LaunchTTL is returned as stored.
func (s *Service) Launch(ctx context.Context) (Launch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.loadCache(ctx)
	if err != nil {
		return Launch{}, err
	}
	now := s.now()
	if len(cache.Launch) > 0 && cache.LaunchFetched != nil && now.Sub(*cache.LaunchFetched) < LaunchTTL {
		if l, err := decodeLaunch(cache.Launch); err == nil {
			metrics.CacheHit.WithLabelValues("launch").Inc()
			return l, nil
		}
	}
	metrics.CacheMiss.WithLabelValues("launch").Inc()

	raw, err := s.client.NextLaunch(ctx)
	if err != nil {
		return Launch{}, s.fail("launch", err)
	}
	l, err := decodeLaunch(raw)
	if err != nil {
		return Launch{}, s.fail("launch", err)
	}
	fetched := now.UTC()
	cache.Launch = raw
	cache.LaunchFetched = &fetched
	if err := s.saveCache(ctx, cache); err != nil {
		s.log.Error().Err(err).Msg("persist launch cache")
	}
	return l, nil
}

// AstronomyPicture returns today's APOD. A cached entry stamped with the
// current calendar day is returned as stored.
func (s *Service) AstronomyPicture(ctx context.Context) (APOD, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cache, err := s.loadCache(ctx)
	if err != nil {
		return APOD{}, err
	}
	today := s.now().In(s.loc).Format(time.DateOnly)
	if len(cache.APOD) > 0 && cache.APODDate == today {
		if a, err := decodeAPOD(cache.APOD); err == nil {
			metrics.CacheHit.WithLabelValues("apod").Inc()
			return a, nil
		}
	}
	metrics.CacheMiss.WithLabelValues("apod").Inc()

	raw, err := s.client.APOD(ctx)
	if err != nil {
		return APOD{}, s.fail("apod", err)
	}
	a, err := decodeAPOD(raw)
	if err != nil {
		return APOD{}, s.fail("apod", err)
	}
	cache.APOD = raw
	cache.APODDate = today
	if err := s.saveCache(ctx, cache); err != nil {
		s.log.Error().Err(err).Msg("persist apod cache")
	}
	return a, nil
}

// ISS returns the current ISS position. Positions are held in memory for
// ISSTTL so several panels refreshing together cause one upstream call.
func (s *Service) ISS(ctx context.Context) (ISSPosition, error) {
	if pos, ok := s.iss.Get(issKey); ok {
		metrics.CacheHit.WithLabelValues("iss").Inc()
		return pos, nil
	}
	metrics.CacheMiss.WithLabelValues("iss").Inc()
	pos, err := s.client.ISS(ctx)
	if err != nil {
		return ISSPosition{}, s.fail("iss", err)
	}
	s.iss.Add(issKey, pos)
	return pos, nil
}
