package missioncontrol

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// SiteConfig holds all configuration for a Mission Control site.
type SiteConfig struct {
	Name        string // Site name (default "Portfolio")
	Description string // Meta description

	Addr     string // Listen address (default ":3000")
	StoreDSN string // Backend DSN (default "data/missioncontrol.db"); redis://... or memory:
	TimeZone string // IANA zone defining calendar days (default "UTC")

	SessionSecret string // Required: session cookie secret
	CookieSecure  bool   // Set true for HTTPS

	NASAAPIKey string // NASA API key (default "DEMO_KEY")
	ISSURL     string // Override of the open-notify endpoint
	LaunchURL  string // Override of the SpaceX endpoint
	APODURL    string // Override of the NASA APOD endpoint

	LogLevel string // zerolog level (default "info")
	LogJSON  bool   // Force JSON logs on a terminal
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Portfolio"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StoreDSN == "" {
		c.StoreDSN = "data/missioncontrol.db"
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
	if c.NASAAPIKey == "" {
		c.NASAAPIKey = "DEMO_KEY"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for user-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithLogger replaces the logger built from LogLevel and LogJSON.
func WithLogger(l zerolog.Logger) Option {
	return func(a *App) {
		a.Log = l
		a.loggerSet = true
	}
}

// WithHTTPClient sets the client used for the space APIs.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithClock overrides time.Now for every component.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		if now != nil {
			a.now = now
		}
	}
}
