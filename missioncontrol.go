// Package missioncontrol serves a portfolio page with visitor analytics that
// never leave the site, and the Mission Control panel that displays them
// next to live space data.
//
// Everything is persisted as two JSON blobs in a kv.Backend: the analytics
// record and the space data cache.
package missioncontrol

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/missioncontrol/analytics"
	"github.com/eringen/missioncontrol/dashboard"
	"github.com/eringen/missioncontrol/kv"
	"github.com/eringen/missioncontrol/metrics"
	"github.com/eringen/missioncontrol/space"
)

// Page views idle longer than this are forgotten.
const (
	pageViewTTL   = 12 * time.Hour
	pageViewLimit = 1024
)

// App wires the store, recorders, dashboard, space service, middleware and
// routes together.
type App struct {
	Config    SiteConfig
	Echo      *echo.Echo
	Backend   kv.Backend
	Analytics *analytics.Store
	Space     *space.Service
	Log       zerolog.Logger

	tracker      *analytics.Handler
	resetLimiter *httprate.RateLimiter
	customRoutes []func(*App)
	staticDir    string
	httpClient   *http.Client
	now          func() time.Time
	loggerSet    bool
	ready        bool
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	if !a.loggerSet {
		a.Log = NewLogger(a.Config.LogLevel, a.Config.LogJSON)
	}
	return a
}

// Init opens the backend and builds every component, middleware and route.
// Start calls it; tests call it directly and drive a.Echo.
func (a *App) Init() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return errors.New("missioncontrol: SessionSecret is required")
	}
	loc, err := time.LoadLocation(a.Config.TimeZone)
	if err != nil {
		return fmt.Errorf("missioncontrol: time zone %q: %w", a.Config.TimeZone, err)
	}

	backend, err := kv.Open(a.Config.StoreDSN)
	if err != nil {
		return fmt.Errorf("missioncontrol: open store: %w", err)
	}
	a.Backend = backend

	a.Analytics = analytics.NewStore(backend,
		analytics.WithClock(a.now),
		analytics.WithLocation(loc),
		analytics.WithLogger(a.Log.With().Str("component", "analytics").Logger()),
		analytics.WithResetKeys(space.CacheKey),
	)

	client := space.NewClient(
		space.WithHTTPClient(a.httpClient),
		space.WithEndpoints(a.Config.ISSURL, a.Config.LaunchURL, a.Config.APODURL),
		space.WithAPIKey(a.Config.NASAAPIKey),
	)
	a.Space = space.NewService(client, backend,
		space.WithClock(a.now),
		space.WithLocation(loc),
		space.WithLogger(a.Log.With().Str("component", "space").Logger()),
	)

	a.tracker = analytics.NewHandler(a.Analytics, analytics.NewRegistry(pageViewLimit, pageViewTTL), a.Log)
	a.resetLimiter = httprate.NewRateLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the app and serves HTTP until the server is closed.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	a.Log.Info().Str("addr", a.Config.Addr).Str("store", a.Config.StoreDSN).Msg("server starting")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/assets/tracker.js", echo.WrapHandler(http.StripPrefix("/assets/", embeddedHandler)))
	e.GET("/assets/dashboard.js", echo.WrapHandler(http.StripPrefix("/assets/", embeddedHandler)))

	e.Static("/public", a.staticDir)
	e.GET("/", a.handleHome)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	a.tracker.RegisterRoutes(e.Group("/api/analytics"))

	api := e.Group("/api")
	mc := e.Group("/mission-control")
	dashboard.NewHandler(a.Analytics, nil, a.Log.With().Str("component", "dashboard").Logger()).RegisterRoutes(api, mc)
	space.NewHandler(a.Space).RegisterRoutes(e.Group("/api/space"), e.Group("/mission-control/fragments/space"))

	mc.GET("/export", a.handleExport)
	mc.POST("/reset", a.handleReset)
}

// Close releases the backend.
func (a *App) Close() error {
	if a.Backend != nil {
		return a.Backend.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// EnvBool reports whether the environment variable key is set to a true value.
func EnvBool(key string) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	}
	return false
}

// MustEnv returns the value of the environment variable key, or exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		fmt.Fprintf(os.Stderr, "missioncontrol: required environment variable %s is not set\n", key)
		os.Exit(1)
	}
	return v
}
