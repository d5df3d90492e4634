package space

import (
	"fmt"
	"time"
)

// Placeholder texts shown when a widget has no data.
const (
	Unavailable    = "API unavailable"
	NoValue        = "--"
	VideoContent   = "Video content"
	APIKeyRequired = "API key required"
	Launched       = "Launched!"
)

// countdownWindow is the span the launch progress bar covers.
const countdownWindow = 30 * 24 * time.Hour

// LaunchWidget is the view model of the next-launch widget.
type LaunchWidget struct {
	Available bool    `json:"available"`
	Name      string  `json:"name"`
	Site      string  `json:"site"`
	Countdown string  `json:"countdown"`
	Progress  float64 `json:"progress"`
}

// APODWidget is the view model of the astronomy-picture widget.
type APODWidget struct {
	Available   bool   `json:"available"`
	Title       string `json:"title"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	IsImage     bool   `json:"isImage"`
	Media       string `json:"media"`
}

// ISSWidget is the view model of the ISS tracker widget.
type ISSWidget struct {
	Available bool   `json:"available"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
}

// WeatherWidget is the space-weather widget. It has no data source.
type WeatherWidget struct {
	Available bool   `json:"available"`
	Status    string `json:"status"`
}

// NewLaunchWidget builds the launch widget for l as seen at now.
func NewLaunchWidget(l Launch, now time.Time) LaunchWidget {
	w := LaunchWidget{Available: true, Name: l.Name, Site: l.Launchpad}
	if w.Name == "" {
		w.Name = "Unknown Mission"
	}
	if w.Site == "" {
		w.Site = NoValue
	}
	if l.DateUnix == 0 {
		w.Countdown = NoValue
		return w
	}
	w.Countdown, w.Progress = Countdown(time.Unix(l.DateUnix, 0), now)
	return w
}

// UnavailableLaunch is the launch widget shown after a failed fetch.
func UnavailableLaunch() LaunchWidget {
	return LaunchWidget{Name: Unavailable, Site: NoValue, Countdown: NoValue}
}

// Countdown returns the "T-<d>d <h>h <m>m" label for a launch at launch and
// the share of the 30-day window already elapsed, in percent.
func Countdown(launch, now time.Time) (string, float64) {
	diff := launch.Sub(now)
	if diff <= 0 {
		return Launched, 100
	}
	days := int(diff / (24 * time.Hour))
	hours := int(diff % (24 * time.Hour) / time.Hour)
	mins := int(diff % time.Hour / time.Minute)
	progress := float64(countdownWindow-diff) / float64(countdownWindow) * 100
	progress = max(0, min(progress, 100))
	return fmt.Sprintf("T-%dd %dh %dm", days, hours, mins), progress
}

// NewAPODWidget builds the APOD widget. Videos are not embedded.
func NewAPODWidget(a APOD) APODWidget {
	w := APODWidget{Available: true, Title: a.Title, Explanation: a.Explanation, Media: a.MediaType}
	if a.MediaType == "image" || (a.MediaType == "" && a.URL != "") {
		w.IsImage = true
		w.ImageURL = a.URL
		return w
	}
	w.Media = VideoContent
	return w
}

// UnavailableAPOD is the APOD widget shown after a failed fetch.
func UnavailableAPOD() APODWidget {
	return APODWidget{Title: Unavailable, Media: NoValue}
}

// NewISSWidget formats an ISS position.
func NewISSWidget(p ISSPosition) ISSWidget {
	return ISSWidget{
		Available: true,
		Latitude:  fmt.Sprintf("%.4f deg", p.Latitude),
		Longitude: fmt.Sprintf("%.4f deg", p.Longitude),
	}
}

// UnavailableISS is the ISS widget shown after a failed fetch.
func UnavailableISS() ISSWidget {
	return ISSWidget{Latitude: NoValue, Longitude: NoValue}
}

// Weather returns the static space-weather placeholder.
func Weather() WeatherWidget {
	return WeatherWidget{Status: APIKeyRequired}
}
