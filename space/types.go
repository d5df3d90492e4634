// Package space fetches and caches the third-party space data shown on the
// Mission Control panel: ISS position, next SpaceX launch and NASA's
// astronomy picture of the day.
package space

import (
	"encoding/json"
	"time"
)

// CacheKey is the backend key holding the CacheRecord.
const CacheKey = "portfolio_space_cache"

// Cache lifetimes.
const (
	LaunchTTL = time.Hour
	ISSTTL    = 10 * time.Second
)

// CacheRecord is the persisted space data cache. Payloads are stored as the
// upstream sent them.
type CacheRecord struct {
	APOD          json.RawMessage `json:"apod"`
	APODDate      string          `json:"apodDate"`
	Launch        json.RawMessage `json:"launch"`
	LaunchFetched *time.Time      `json:"launchFetched"`
}

// ISSPosition is the current sub-satellite point of the ISS.
type ISSPosition struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Launch is the subset of the SpaceX v5 launch document the panel uses.
type Launch struct {
	Name      string `json:"name"`
	Launchpad string `json:"launchpad"`
	DateUnix  int64  `json:"date_unix"`
	DateUTC   string `json:"date_utc"`
}

// APOD is NASA's astronomy picture of the day.
type APOD struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	MediaType   string `json:"media_type"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl"`
}
