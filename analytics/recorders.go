package analytics

import (
	"context"
	"fmt"
	"math"

	"github.com/eringen/missioncontrol/metrics"
)

// RecordVisit counts a visit once per calendar day and starts a session.
func (s *Store) RecordVisit(ctx context.Context) (*Record, error) {
	now := s.now()
	today := s.DateKey(now)
	rec, err := s.Update(ctx, func(r *Record) error {
		if r.LastVisitDate != today {
			r.VisitCount++
			r.DailyVisits[today]++
		}
		r.LastVisitDate = today
		start := now
		r.CurrentSessionStart = &start
		r.prependActivity(Activity{Type: ActivityVisit, Text: "New session started", Timestamp: now})
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.EventsRecorded.WithLabelValues("visit").Inc()
	return rec, nil
}

// EndSession appends the elapsed time of the current session, if any, and
// clears the session start. The write happens before it returns.
func (s *Store) EndSession(ctx context.Context) error {
	now := s.now()
	_, err := s.Update(ctx, func(r *Record) error {
		if r.CurrentSessionStart == nil {
			return errNoChange
		}
		elapsed := int(now.Sub(*r.CurrentSessionStart).Seconds())
		r.appendSession(max(elapsed, 0))
		r.CurrentSessionStart = nil
		return nil
	})
	if err != nil {
		return err
	}
	metrics.EventsRecorded.WithLabelValues("session_end").Inc()
	return nil
}

// RecordSectionView adds one view to section. Unknown sections are ignored
// and reported as false.
func (s *Store) RecordSectionView(ctx context.Context, section string) (bool, error) {
	if !IsSection(section) {
		metrics.EventsDropped.WithLabelValues("unknown_section").Inc()
		return false, nil
	}
	_, err := s.Update(ctx, func(r *Record) error {
		r.SectionViewCounts[section]++
		return nil
	})
	if err != nil {
		return false, err
	}
	metrics.EventsRecorded.WithLabelValues("section").Inc()
	return true, nil
}

// RecordScrollDepth raises the persisted maximum scroll depth to percent.
// Lower values leave the record untouched.
func (s *Store) RecordScrollDepth(ctx context.Context, percent int) error {
	percent = clampPercent(percent)
	_, err := s.Update(ctx, func(r *Record) error {
		if percent <= r.MaxScrollDepthPercent {
			return errNoChange
		}
		r.MaxScrollDepthPercent = percent
		return nil
	})
	if err != nil {
		return err
	}
	metrics.EventsRecorded.WithLabelValues("scroll").Inc()
	return nil
}

// RecordEasterEgg marks egg id as found. It reports whether this was the
// first discovery; only then is an activity entry written.
func (s *Store) RecordEasterEgg(ctx context.Context, id int) (bool, error) {
	if id < 1 || id > TotalEasterEggs {
		return false, fmt.Errorf("%w: %d", ErrUnknownEasterEgg, id)
	}
	now := s.now()
	first := false
	_, err := s.Update(ctx, func(r *Record) error {
		if r.HasEasterEgg(id) {
			return errNoChange
		}
		first = true
		r.EasterEggsFound = append(r.EasterEggsFound, id)
		r.prependActivity(Activity{
			Type:      ActivityEaster,
			Text:      fmt.Sprintf("Easter egg #%d discovered!", id),
			Timestamp: now,
		})
		return nil
	})
	if err != nil {
		return false, err
	}
	if first {
		metrics.EventsRecorded.WithLabelValues("easter_egg").Inc()
	}
	return first, nil
}

// AddActivity prepends an entry to the activity log.
func (s *Store) AddActivity(ctx context.Context, typ, text string) error {
	now := s.now()
	_, err := s.Update(ctx, func(r *Record) error {
		r.prependActivity(Activity{Type: typ, Text: text, Timestamp: now})
		return nil
	})
	return err
}

// ScrollPercent converts a scroll position to a whole percentage of the
// scrollable distance. A page that cannot scroll reports 0.
func ScrollPercent(scrollY, scrollHeight, viewportHeight float64) int {
	scrollable := scrollHeight - viewportHeight
	if scrollable <= 0 || scrollY <= 0 {
		return 0
	}
	return clampPercent(int(math.Round(scrollY / scrollable * 100)))
}
