package space

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountdown(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	label, progress := Countdown(now.Add(2*24*time.Hour+3*time.Hour+4*time.Minute+30*time.Second), now)
	assert.Equal(t, "T-2d 3h 4m", label)
	assert.InDelta(t, 92.9, progress, 0.1)

	label, progress = Countdown(now.Add(-time.Minute), now)
	assert.Equal(t, Launched, label)
	assert.Equal(t, 100.0, progress)

	_, progress = Countdown(now.Add(60*24*time.Hour), now)
	assert.Equal(t, 0.0, progress)
}

func TestNewLaunchWidget(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	w := NewLaunchWidget(Launch{Name: "Crew-9", Launchpad: "LC-39A", DateUnix: now.Add(time.Hour).Unix()}, now)
	assert.True(t, w.Available)
	assert.Equal(t, "T-0d 1h 0m", w.Countdown)

	w = NewLaunchWidget(Launch{}, now)
	assert.Equal(t, NoValue, w.Countdown)
	assert.Equal(t, NoValue, w.Site)
}

func TestNewAPODWidget(t *testing.T) {
	img := NewAPODWidget(APOD{Title: "Nebula", MediaType: "image", URL: "https://x/y.jpg"})
	assert.True(t, img.IsImage)
	assert.Equal(t, "https://x/y.jpg", img.ImageURL)

	vid := NewAPODWidget(APOD{Title: "Flyby", MediaType: "video", URL: "https://youtube/embed"})
	assert.False(t, vid.IsImage)
	assert.Equal(t, VideoContent, vid.Media)
	assert.Empty(t, vid.ImageURL)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, Unavailable, UnavailableLaunch().Name)
	assert.Equal(t, NoValue, UnavailableLaunch().Countdown)
	assert.Equal(t, Unavailable, UnavailableAPOD().Title)
	assert.Equal(t, NoValue, UnavailableISS().Latitude)
	assert.Equal(t, APIKeyRequired, Weather().Status)

	w := NewISSWidget(ISSPosition{Latitude: 12.345678, Longitude: -0.5})
	assert.Equal(t, "12.3457 deg", w.Latitude)
	assert.Equal(t, "-0.5000 deg", w.Longitude)
}
