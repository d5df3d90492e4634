package dashboard

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/missioncontrol/analytics"
)

var testNow = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)

func TestBuildDefaults(t *testing.T) {
	snap := Build(analytics.NewRecord(), testNow, time.UTC)

	assert.Equal(t, 0, snap.TotalVisits)
	assert.Equal(t, 0, snap.TodayVisits)
	assert.Equal(t, "0m 0s", snap.AvgSessionText)
	assert.Equal(t, 0.0, snap.SessionProgress)
	assert.Equal(t, "Start exploring!", snap.ScrollMessage)
	assert.Empty(t, snap.Feed)
	assert.Equal(t, "0 / 6 unlocked", snap.EggSummary)
	require.Len(t, snap.Sections, len(analytics.SectionNames))
	for _, b := range snap.Sections {
		assert.Zero(t, b.Percent)
	}
	require.Len(t, snap.Sparkline, SparklineDays)
	for _, p := range snap.Sparkline {
		assert.Zero(t, p.Height)
	}
}

func TestBuildScenario(t *testing.T) {
	rec := analytics.NewRecord()
	rec.VisitCount = 2
	rec.DailyVisits = map[string]int{"2024-01-01": 1, "2024-01-02": 1}
	rec.SessionDurations = []int{10, 20, 30}
	rec.SectionViewCounts["hero"] = 3
	rec.SectionViewCounts["research"] = 1
	rec.EasterEggsFound = []int{1, 3}
	rec.MaxScrollDepthPercent = 60
	rec.ActivityLog = []analytics.Activity{
		{Type: analytics.ActivityVisit, Text: "New session started", Timestamp: testNow.Add(-30 * time.Second)},
		{Type: "custom", Text: "Something", Timestamp: testNow.Add(-2 * time.Hour)},
	}

	snap := Build(rec, testNow, time.UTC)

	assert.Equal(t, 2, snap.TotalVisits)
	assert.Equal(t, 1, snap.TodayVisits)
	assert.Equal(t, 20, snap.AvgSession)
	assert.Equal(t, "0m 20s", snap.AvgSessionText)
	assert.InDelta(t, 6.67, snap.SessionProgress, 0.01)
	assert.Equal(t, "Halfway through the journey!", snap.ScrollMessage)

	percents := map[string]int{}
	for _, b := range snap.Sections {
		percents[b.Name] = b.Percent
	}
	assert.Equal(t, 75, percents["hero"])
	assert.Equal(t, 25, percents["research"])
	assert.Equal(t, 0, percents["contact"])

	last := snap.Sparkline[SparklineDays-1]
	assert.Equal(t, "2024-01-02", last.Date)
	assert.Equal(t, 100.0, last.Height)
	assert.Equal(t, "2023-12-27", snap.Sparkline[0].Date)

	assert.True(t, snap.Eggs[0].Unlocked)
	assert.False(t, snap.Eggs[1].Unlocked)
	assert.True(t, snap.Eggs[2].Unlocked)
	assert.Equal(t, "Unlocked!", snap.Eggs[0].Title)
	assert.Equal(t, "Secret #2", snap.Eggs[1].Title)
	assert.Equal(t, "2 / 6 unlocked", snap.EggSummary)

	require.Len(t, snap.Feed, 2)
	assert.Equal(t, FeedItem{Icon: "^", Type: "visit", Text: "New session started", When: "Just now"}, snap.Feed[0])
	assert.Equal(t, "*", snap.Feed[1].Icon)
	assert.Equal(t, "2 hours ago", snap.Feed[1].When)
}

func TestBuildDoesNotMutate(t *testing.T) {
	rec := analytics.NewRecord()
	rec.SessionDurations = []int{5}
	before := *rec
	Build(rec, testNow, time.UTC)
	assert.Equal(t, before, *rec)
}

func TestScrollMessages(t *testing.T) {
	cases := map[int]string{
		0:   "Start exploring!",
		24:  "Start exploring!",
		25:  "Keep scrolling, explorer!",
		50:  "Halfway through the journey!",
		75:  "Almost to the cosmos!",
		99:  "Almost to the cosmos!",
		100: "You reached the stars!",
	}
	for depth, want := range cases {
		assert.Equal(t, want, ScrollMessage(depth), "depth %d", depth)
	}
}

func TestSessionProgressCapped(t *testing.T) {
	snap := Build(&analytics.Record{SessionDurations: []int{600}}, testNow, time.UTC)
	assert.Equal(t, "10m 0s", snap.AvgSessionText)
	assert.Equal(t, 100.0, snap.SessionProgress)
}

func TestSparklineNormalized(t *testing.T) {
	daily := map[string]int{"2024-01-01": 2, "2024-01-02": 4}
	points := Sparkline(daily, testNow, time.UTC)
	assert.Equal(t, 50.0, points[5].Height)
	assert.Equal(t, 100.0, points[6].Height)
}

func TestSparklineUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-10", -10*3600)
	points := Sparkline(map[string]int{"2024-01-01": 1}, testNow, loc)
	assert.Equal(t, "2024-01-01", points[SparklineDays-1].Date)
	assert.Equal(t, 100.0, points[SparklineDays-1].Height)
}

func TestFeedTruncated(t *testing.T) {
	var log []analytics.Activity
	for i := 0; i < 30; i++ {
		log = append(log, analytics.Activity{Type: "visit", Text: fmt.Sprintf("a%d", i), Timestamp: testNow})
	}
	items := Feed(log, testNow)
	require.Len(t, items, FeedSize)
	assert.Equal(t, "a0", items[0].Text)
}

func TestClocks(t *testing.T) {
	clocks := Clocks(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, []WorldClock{
		{Zone: "NPT", Time: "17:45:00"},
		{Zone: "UTC", Time: "12:00:00"},
		{Zone: "EST", Time: "07:00:00"},
	}, clocks)
}
