package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordVisitOncePerDay(t *testing.T) {
	s, _, clock := setupTestStore(t)
	ctx := context.Background()

	rec, err := s.RecordVisit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.VisitCount)
	assert.Equal(t, 1, rec.DailyVisits["2024-01-01"])
	assert.Equal(t, "2024-01-01", rec.LastVisitDate)

	clock.Advance(3 * time.Hour)
	rec, err = s.RecordVisit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.VisitCount, "same-day visit must not count")
	assert.Equal(t, 1, rec.DailyVisits["2024-01-01"])
	require.NotNil(t, rec.CurrentSessionStart)
	assert.True(t, rec.CurrentSessionStart.Equal(clock.Now()))

	clock.Advance(24 * time.Hour)
	rec, err = s.RecordVisit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.VisitCount)
	assert.Equal(t, 1, rec.DailyVisits["2024-01-02"])

	require.Len(t, rec.ActivityLog, 3)
	assert.Equal(t, Activity{Type: ActivityVisit, Text: "New session started", Timestamp: clock.Now()}, rec.ActivityLog[0])
}

func TestEndSession(t *testing.T) {
	s, _, clock := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.EndSession(ctx), "no session is a no-op")

	_, err := s.RecordVisit(ctx)
	require.NoError(t, err)
	clock.Advance(95*time.Second + 600*time.Millisecond)
	require.NoError(t, s.EndSession(ctx))

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{95}, rec.SessionDurations)
	assert.Nil(t, rec.CurrentSessionStart)

	require.NoError(t, s.EndSession(ctx))
	rec, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.SessionDurations, 1, "ending twice must not append twice")
}

func TestSessionDurationsCapped(t *testing.T) {
	s, _, clock := setupTestStore(t)
	ctx := context.Background()

	for i := 1; i <= MaxSessionDurations+1; i++ {
		_, err := s.RecordVisit(ctx)
		require.NoError(t, err)
		clock.Advance(time.Duration(i) * time.Second)
		require.NoError(t, s.EndSession(ctx))
	}

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rec.SessionDurations, MaxSessionDurations)
	assert.Equal(t, 2, rec.SessionDurations[0], "oldest session evicted")
	assert.Equal(t, MaxSessionDurations+1, rec.SessionDurations[MaxSessionDurations-1])
}

func TestActivityLogCapped(t *testing.T) {
	s, _, clock := setupTestStore(t)
	ctx := context.Background()

	for i := 1; i <= MaxActivities+1; i++ {
		clock.Advance(time.Second)
		require.NoError(t, s.AddActivity(ctx, "note", fmt.Sprintf("entry %d", i)))
	}

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rec.ActivityLog, MaxActivities)
	assert.Equal(t, "entry 51", rec.ActivityLog[0].Text)
	assert.Equal(t, "entry 2", rec.ActivityLog[MaxActivities-1].Text, "oldest entry evicted from the tail")
}

func TestRecordSectionView(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()

	ok, err := s.RecordSectionView(ctx, "hero")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.RecordSectionView(ctx, "blog")
	require.NoError(t, err)
	assert.False(t, ok)

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.SectionViewCounts["hero"])
	assert.NotContains(t, rec.SectionViewCounts, "blog")
}

func TestRecordScrollDepthMonotonic(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()

	prev := 0
	for _, p := range []int{10, 40, 25, 0, 90, 60, 150, -5} {
		require.NoError(t, s.RecordScrollDepth(ctx, p))
		rec, err := s.Load(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rec.MaxScrollDepthPercent, prev)
		assert.LessOrEqual(t, rec.MaxScrollDepthPercent, 100)
		prev = rec.MaxScrollDepthPercent
	}
	assert.Equal(t, 100, prev)
}

func TestRecordEasterEggIdempotent(t *testing.T) {
	s, _, _ := setupTestStore(t)
	ctx := context.Background()

	first, err := s.RecordEasterEgg(ctx, 2)
	require.NoError(t, err)
	assert.True(t, first)
	first, err = s.RecordEasterEgg(ctx, 2)
	require.NoError(t, err)
	assert.False(t, first)

	rec, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, rec.EasterEggsFound)
	require.Len(t, rec.ActivityLog, 1)
	assert.Equal(t, "Easter egg #2 discovered!", rec.ActivityLog[0].Text)
	assert.Equal(t, ActivityEaster, rec.ActivityLog[0].Type)
}

func TestRecordEasterEggUnknown(t *testing.T) {
	s, _, _ := setupTestStore(t)
	for _, id := range []int{0, 7, 10} {
		_, err := s.RecordEasterEgg(context.Background(), id)
		assert.ErrorIs(t, err, ErrUnknownEasterEgg)
	}
}

func TestScrollPercent(t *testing.T) {
	tests := []struct {
		y, h, vh float64
		want     int
	}{
		{0, 2000, 1000, 0},
		{500, 2000, 1000, 50},
		{333, 2000, 1000, 33},
		{1000, 2000, 1000, 100},
		{1200, 2000, 1000, 100},
		{10, 800, 1000, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScrollPercent(tt.y, tt.h, tt.vh), "ScrollPercent(%v, %v, %v)", tt.y, tt.h, tt.vh)
	}
}
