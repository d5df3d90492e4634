// Package analytics keeps the single persisted record behind the portfolio's
// Mission Control panel and the recorders that mutate it.
package analytics

import (
	"errors"
	"slices"
	"time"
)

// Record and cache keys in the backing store.
const (
	RecordKey = "portfolio_analytics"
)

// Record limits.
const (
	MaxSessionDurations = 20
	MaxActivities       = 50
	TotalEasterEggs     = 6
	MaxScrollDepth      = 100
)

// Activity types written to the log.
const (
	ActivityVisit  = "visit"
	ActivityEaster = "easter"
	ActivityScroll = "scroll"
	ActivityExport = "export"
	ActivityReset  = "reset"
)

// SectionNames is the fixed set of page sections whose views are counted.
var SectionNames = []string{"hero", "philosophy", "research", "education", "contact"}

var (
	// ErrUnknownEasterEgg is returned for egg ids outside 1..TotalEasterEggs.
	ErrUnknownEasterEgg = errors.New("analytics: unknown easter egg")
	// ErrPageViewNotFound is returned when a page view id is unknown or expired.
	ErrPageViewNotFound = errors.New("analytics: page view not found")
)

// IsSection reports whether name is one of SectionNames.
func IsSection(name string) bool {
	return slices.Contains(SectionNames, name)
}

// Activity is one entry of the activity log.
type Activity struct {
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the whole persisted analytics state. It is stored as one JSON blob.
type Record struct {
	VisitCount            int            `json:"visitCount"`
	DailyVisits           map[string]int `json:"dailyVisits"`
	LastVisitDate         string         `json:"lastVisitDate"`
	SessionDurations      []int          `json:"sessionDurations"`
	CurrentSessionStart   *time.Time     `json:"currentSessionStart"`
	SectionViewCounts     map[string]int `json:"sectionViewCounts"`
	EasterEggsFound       []int          `json:"easterEggsFound"`
	MaxScrollDepthPercent int            `json:"maxScrollDepthPercent"`
	ActivityLog           []Activity     `json:"activityLog"`
}

// NewRecord returns a record with zeroed defaults.
func NewRecord() *Record {
	sections := make(map[string]int, len(SectionNames))
	for _, name := range SectionNames {
		sections[name] = 0
	}
	return &Record{
		DailyVisits:       map[string]int{},
		SessionDurations:  []int{},
		SectionViewCounts: sections,
		EasterEggsFound:   []int{},
		ActivityLog:       []Activity{},
	}
}

// Normalize restores the record invariants on data read from storage: caps,
// clamps, the fixed section key set and a duplicate-free egg set.
func (r *Record) Normalize() {
	if r.VisitCount < 0 {
		r.VisitCount = 0
	}
	if r.DailyVisits == nil {
		r.DailyVisits = map[string]int{}
	}
	for day, n := range r.DailyVisits {
		if n < 0 {
			r.DailyVisits[day] = 0
		}
	}

	if r.SessionDurations == nil {
		r.SessionDurations = []int{}
	}
	if n := len(r.SessionDurations); n > MaxSessionDurations {
		r.SessionDurations = slices.Clone(r.SessionDurations[n-MaxSessionDurations:])
	}

	sections := make(map[string]int, len(SectionNames))
	for _, name := range SectionNames {
		sections[name] = max(r.SectionViewCounts[name], 0)
	}
	r.SectionViewCounts = sections

	eggs := make([]int, 0, len(r.EasterEggsFound))
	for _, id := range r.EasterEggsFound {
		if !slices.Contains(eggs, id) {
			eggs = append(eggs, id)
		}
	}
	r.EasterEggsFound = eggs

	r.MaxScrollDepthPercent = clampPercent(r.MaxScrollDepthPercent)

	if r.ActivityLog == nil {
		r.ActivityLog = []Activity{}
	}
	if len(r.ActivityLog) > MaxActivities {
		r.ActivityLog = r.ActivityLog[:MaxActivities]
	}
}

// HasEasterEgg reports whether id has been found.
func (r *Record) HasEasterEgg(id int) bool {
	return slices.Contains(r.EasterEggsFound, id)
}

// appendSession adds a finished session, evicting the oldest beyond the cap.
func (r *Record) appendSession(seconds int) {
	r.SessionDurations = append(r.SessionDurations, seconds)
	if n := len(r.SessionDurations); n > MaxSessionDurations {
		r.SessionDurations = slices.Clone(r.SessionDurations[n-MaxSessionDurations:])
	}
}

// prependActivity puts a at the head of the log and truncates the tail.
func (r *Record) prependActivity(a Activity) {
	r.ActivityLog = slices.Insert(r.ActivityLog, 0, a)
	if len(r.ActivityLog) > MaxActivities {
		r.ActivityLog = r.ActivityLog[:MaxActivities]
	}
}

func clampPercent(p int) int {
	return min(max(p, 0), MaxScrollDepth)
}
