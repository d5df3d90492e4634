package space

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/missioncontrol/kv"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

// upstream fakes the three space APIs and counts calls per endpoint.
type upstream struct {
	srv      *httptest.Server
	iss      atomic.Int32
	launch   atomic.Int32
	apod     atomic.Int32
	failing  atomic.Bool
	apodKey  atomic.Value
	launchAt int64

	// launchBody replaces the launch document when set.
	launchBody atomic.Pointer[string]
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{launchAt: time.Date(2024, 1, 11, 9, 0, 0, 0, time.UTC).Unix()}
	mux := http.NewServeMux()
	mux.HandleFunc("/iss-now.json", func(w http.ResponseWriter, r *http.Request) {
		u.iss.Add(1)
		if u.failing.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"message":"success","timestamp":1704099600,"iss_position":{"latitude":"51.5072","longitude":"-0.1276"}}`))
	})
	mux.HandleFunc("/launches/next", func(w http.ResponseWriter, r *http.Request) {
		n := u.launch.Add(1)
		if u.failing.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		if body := u.launchBody.Load(); body != nil {
			w.Write([]byte(*body))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"name":      "Starlink " + string(rune('A'+n-1)),
			"launchpad": "SLC-40",
			"date_unix": u.launchAt,
			"date_utc":  time.Unix(u.launchAt, 0).UTC().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/apod", func(w http.ResponseWriter, r *http.Request) {
		n := u.apod.Add(1)
		u.apodKey.Store(r.URL.Query().Get("api_key"))
		if u.failing.Load() {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"title":      "Pillars " + string(rune('A'+n-1)),
			"media_type": "image",
			"url":        "https://apod.example/pillars.jpg",
		})
	})
	u.srv = httptest.NewServer(mux)
	t.Cleanup(u.srv.Close)
	return u
}

func (u *upstream) client(opts ...ClientOption) *Client {
	opts = append([]ClientOption{WithEndpoints(u.srv.URL+"/iss-now.json", u.srv.URL+"/launches/next", u.srv.URL+"/apod")}, opts...)
	return NewClient(opts...)
}

func setupTestService(t *testing.T) (*Service, *upstream, *kv.Memory, *fakeClock) {
	t.Helper()
	u := newUpstream(t)
	clock := &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
	backend := kv.NewMemory()
	return NewService(u.client(), backend, WithClock(clock.Now)), u, backend, clock
}

func TestLaunchCachedForAnHour(t *testing.T) {
	s, u, _, clock := setupTestService(t)
	ctx := context.Background()

	first, err := s.Launch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Starlink A", first.Name)

	clock.Advance(30 * time.Minute)
	again, err := s.Launch(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.EqualValues(t, 1, u.launch.Load())

	clock.Advance(31 * time.Minute)
	fresh, err := s.Launch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Starlink B", fresh.Name)
	assert.EqualValues(t, 2, u.launch.Load())
}

func TestLaunchCachePersisted(t *testing.T) {
	s, u, backend, clock := setupTestService(t)
	ctx := context.Background()

	_, err := s.Launch(ctx)
	require.NoError(t, err)

	raw, ok, err := backend.Get(ctx, CacheKey)
	require.NoError(t, err)
	require.True(t, ok)
	var rec CacheRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	require.NotNil(t, rec.LaunchFetched)
	assert.True(t, rec.LaunchFetched.Equal(clock.Now()))

	// A second service over the same backend reuses the entry.
	other := NewService(u.client(), backend, WithClock(clock.Now))
	_, err = other.Launch(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.launch.Load())
}

func TestAPODCachedForTheDay(t *testing.T) {
	s, u, _, clock := setupTestService(t)
	ctx := context.Background()

	first, err := s.AstronomyPicture(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pillars A", first.Title)
	assert.Equal(t, DefaultAPIKey, u.apodKey.Load())

	clock.Advance(14 * time.Hour) // 23:00 same day
	_, err = s.AstronomyPicture(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.apod.Load())

	clock.Advance(2 * time.Hour)
	next, err := s.AstronomyPicture(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pillars B", next.Title)
	assert.EqualValues(t, 2, u.apod.Load())
}

func TestAPODUsesConfiguredKey(t *testing.T) {
	u := newUpstream(t)
	s := NewService(u.client(WithAPIKey("secret")), kv.NewMemory())
	_, err := s.AstronomyPicture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "secret", u.apodKey.Load())
}

func TestCorruptCacheIgnored(t *testing.T) {
	s, u, backend, _ := setupTestService(t)
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, CacheKey, "{broken"))

	_, err := s.Launch(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.launch.Load())
}

func TestUpstreamFailureNoRetry(t *testing.T) {
	s, u, backend, _ := setupTestService(t)
	ctx := context.Background()
	u.failing.Store(true)

	_, err := s.Launch(ctx)
	require.Error(t, err)
	_, err = s.AstronomyPicture(ctx)
	require.Error(t, err)
	_, err = s.ISS(ctx)
	require.Error(t, err)

	assert.EqualValues(t, 1, u.launch.Load())
	assert.EqualValues(t, 1, u.apod.Load())
	assert.EqualValues(t, 1, u.iss.Load())

	_, ok, err := backend.Get(ctx, CacheKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLaunchRejectsEmptyDocument(t *testing.T) {
	for name, body := range map[string]string{
		"error object": `{"error":"rate limited"}`,
		"null":         `null`,
		"empty object": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			s, u, backend, clock := setupTestService(t)
			ctx := context.Background()
			u.launchBody.Store(&body)

			_, err := s.Launch(ctx)
			require.ErrorIs(t, err, ErrMalformed)

			_, ok, err := backend.Get(ctx, CacheKey)
			require.NoError(t, err)
			assert.False(t, ok, "malformed launch must not be cached")

			clock.Advance(30 * time.Minute)
			_, err = s.Launch(ctx)
			require.Error(t, err)
			assert.EqualValues(t, 2, u.launch.Load())
		})
	}
}

func TestLaunchWithoutNameStillAccepted(t *testing.T) {
	s, u, _, _ := setupTestService(t)
	body := `{"date_unix":1704963600}`
	u.launchBody.Store(&body)

	l, err := s.Launch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1704963600), l.DateUnix)
	assert.Equal(t, "Unknown Mission", NewLaunchWidget(l, time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)).Name)
}

func TestISSShortLivedCache(t *testing.T) {
	s, u, _, _ := setupTestService(t)
	ctx := context.Background()

	pos, err := s.ISS(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 51.5072, pos.Latitude, 1e-9)
	assert.InDelta(t, -0.1276, pos.Longitude, 1e-9)

	_, err = s.ISS(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.iss.Load())
}

func TestISSRejectsFailureMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"failure"}`))
	}))
	defer srv.Close()

	c := NewClient(WithEndpoints(srv.URL, "", ""))
	_, err := c.ISS(context.Background())
	assert.ErrorIs(t, err, ErrMalformed)
}
