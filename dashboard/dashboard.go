// Package dashboard turns the analytics record into the Mission Control
// panel: a pure snapshot builder, its HTML and PNG renderings and a live
// refresh stream.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/eringen/missioncontrol/analytics"
)

// Panel constants.
const (
	SparklineDays     = 7
	FeedSize          = 20
	SessionTarget     = 300 // seconds filling the session bar
	ClockFormat       = "15:04:05"
	EmptyFeedText     = "No activity yet"
	defaultScrollText = "Start exploring!"
)

// scrollMessages are checked in order; the first threshold reached wins.
var scrollMessages = []struct {
	min  int
	text string
}{
	{100, "You reached the stars!"},
	{75, "Almost to the cosmos!"},
	{50, "Halfway through the journey!"},
	{25, "Keep scrolling, explorer!"},
}

var activityIcons = map[string]string{
	analytics.ActivityVisit:  "^",
	analytics.ActivityEaster: "!",
	analytics.ActivityScroll: "v",
	analytics.ActivityExport: ">",
	analytics.ActivityReset:  "x",
}

// Zones are the world clocks shown on the panel.
var Zones = []*time.Location{
	time.FixedZone("NPT", 5*3600+45*60),
	time.UTC,
	time.FixedZone("EST", -5*3600),
}

// Snapshot is everything the panel displays, computed at one instant.
type Snapshot struct {
	GeneratedAt     time.Time    `json:"generatedAt"`
	TodayVisits     int          `json:"todayVisits"`
	TotalVisits     int          `json:"totalVisits"`
	AvgSession      int          `json:"avgSessionSeconds"`
	AvgSessionText  string       `json:"avgSession"`
	SessionProgress float64      `json:"sessionProgress"`
	ScrollDepth     int          `json:"scrollDepth"`
	ScrollMessage   string       `json:"scrollMessage"`
	Sections        []SectionBar `json:"sections"`
	Sparkline       []SparkPoint `json:"sparkline"`
	Eggs            []EggSlot    `json:"eggs"`
	EggsFound       int          `json:"eggsFound"`
	EggSummary      string       `json:"eggSummary"`
	Feed            []FeedItem   `json:"feed"`
	Clocks          []WorldClock `json:"clocks"`
}

// SectionBar is one row of the section-views chart.
type SectionBar struct {
	Name    string `json:"name"`
	Views   int    `json:"views"`
	Percent int    `json:"percent"`
}

// SparkPoint is one day of the visitor sparkline.
type SparkPoint struct {
	Date   string  `json:"date"`
	Visits int     `json:"visits"`
	Height float64 `json:"height"`
}

// EggSlot is one cell of the easter-egg grid.
type EggSlot struct {
	ID       int    `json:"id"`
	Unlocked bool   `json:"unlocked"`
	Title    string `json:"title"`
}

// FeedItem is one rendered activity.
type FeedItem struct {
	Icon string `json:"icon"`
	Type string `json:"type"`
	Text string `json:"text"`
	When string `json:"when"`
}

// WorldClock is the wall time in one zone.
type WorldClock struct {
	Zone string `json:"zone"`
	Time string `json:"time"`
}

// Build computes the panel snapshot for rec at now. Calendar days are taken
// in loc. rec is not modified.
func Build(rec *analytics.Record, now time.Time, loc *time.Location) Snapshot {
	if rec == nil {
		rec = analytics.NewRecord()
	}
	if loc == nil {
		loc = time.UTC
	}
	today := now.In(loc).Format(time.DateOnly)
	avg := AverageSession(rec.SessionDurations)

	snap := Snapshot{
		GeneratedAt:     now,
		TodayVisits:     rec.DailyVisits[today],
		TotalVisits:     rec.VisitCount,
		AvgSession:      avg,
		AvgSessionText:  FormatDuration(avg),
		SessionProgress: math.Min(float64(avg)/SessionTarget*100, 100),
		ScrollDepth:     rec.MaxScrollDepthPercent,
		ScrollMessage:   ScrollMessage(rec.MaxScrollDepthPercent),
		Sections:        SectionBars(rec.SectionViewCounts),
		Sparkline:       Sparkline(rec.DailyVisits, now, loc),
		EggsFound:       len(rec.EasterEggsFound),
		Feed:            Feed(rec.ActivityLog, now),
		Clocks:          Clocks(now),
	}
	for id := 1; id <= analytics.TotalEasterEggs; id++ {
		slot := EggSlot{ID: id, Unlocked: rec.HasEasterEgg(id), Title: fmt.Sprintf("Secret #%d", id)}
		if slot.Unlocked {
			slot.Title = "Unlocked!"
		}
		snap.Eggs = append(snap.Eggs, slot)
	}
	snap.EggSummary = fmt.Sprintf("%d / %d unlocked", snap.EggsFound, analytics.TotalEasterEggs)
	return snap
}

// AverageSession returns the rounded mean session length in seconds, or 0.
func AverageSession(durations []int) int {
	if len(durations) == 0 {
		return 0
	}
	sum := 0
	for _, d := range durations {
		sum += d
	}
	return int(math.Round(float64(sum) / float64(len(durations))))
}

// ScrollMessage returns the encouragement shown under the scroll gauge.
func ScrollMessage(depth int) string {
	for _, m := range scrollMessages {
		if depth >= m.min {
			return m.text
		}
	}
	return defaultScrollText
}

// SectionBars returns each section's share of all views, in page order.
func SectionBars(counts map[string]int) []SectionBar {
	total := 0
	for _, name := range analytics.SectionNames {
		total += counts[name]
	}
	bars := make([]SectionBar, 0, len(analytics.SectionNames))
	for _, name := range analytics.SectionNames {
		bar := SectionBar{Name: name, Views: counts[name]}
		if total > 0 {
			bar.Percent = int(math.Round(float64(bar.Views) / float64(total) * 100))
		}
		bars = append(bars, bar)
	}
	return bars
}

// Sparkline returns the last SparklineDays days ending today, oldest first,
// with heights normalized to the busiest day.
func Sparkline(daily map[string]int, now time.Time, loc *time.Location) []SparkPoint {
	day := now.In(loc)
	points := make([]SparkPoint, SparklineDays)
	maxVal := 1
	for i := range points {
		date := day.AddDate(0, 0, i-(SparklineDays-1)).Format(time.DateOnly)
		points[i] = SparkPoint{Date: date, Visits: daily[date]}
		maxVal = max(maxVal, points[i].Visits)
	}
	for i := range points {
		points[i].Height = float64(points[i].Visits) / float64(maxVal) * 100
	}
	return points
}

// Feed renders the newest FeedSize activities.
func Feed(log []analytics.Activity, now time.Time) []FeedItem {
	n := min(len(log), FeedSize)
	items := make([]FeedItem, 0, n)
	for _, a := range log[:n] {
		icon, ok := activityIcons[a.Type]
		if !ok {
			icon = "*"
		}
		items = append(items, FeedItem{Icon: icon, Type: a.Type, Text: a.Text, When: TimeAgo(a.Timestamp, now)})
	}
	return items
}

// Clocks returns the world clocks at now.
func Clocks(now time.Time) []WorldClock {
	clocks := make([]WorldClock, 0, len(Zones))
	for _, z := range Zones {
		clocks = append(clocks, WorldClock{Zone: z.String(), Time: now.In(z).Format(ClockFormat)})
	}
	return clocks
}
