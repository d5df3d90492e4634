package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/eringen/missioncontrol/keys"
)

// SectionThreshold is the visible fraction at which a section counts as viewed.
const SectionThreshold = 0.3

// PageView is the state of one page load: the scroll high-water mark, which
// sections are currently above the visibility threshold, and keyboard input.
// Its fields change only after the matching record write succeeded, so a
// failed write is retried by the next event.
type PageView struct {
	ID      string
	Started time.Time
	Keys    *keys.Detector

	store *Store

	mu        sync.Mutex
	maxScroll int
	visible   map[string]bool
	ended     bool
}

// BeginPageView records a visit and returns the state for the new page load.
func (s *Store) BeginPageView(ctx context.Context) (*PageView, error) {
	if _, err := s.RecordVisit(ctx); err != nil {
		return nil, err
	}
	return &PageView{
		ID:      uuid.NewString(),
		Started: s.now(),
		Keys:    keys.NewDetector(),
		store:   s,
		visible: make(map[string]bool, len(SectionNames)),
	}, nil
}

// Scroll handles a scroll event. The record is written only when the depth
// beats the highest value seen during this page load.
func (p *PageView) Scroll(ctx context.Context, scrollY, scrollHeight, viewportHeight float64) error {
	percent := ScrollPercent(scrollY, scrollHeight, viewportHeight)
	p.mu.Lock()
	defer p.mu.Unlock()
	if percent <= p.maxScroll {
		return nil
	}
	if err := p.store.RecordScrollDepth(ctx, percent); err != nil {
		return err
	}
	p.maxScroll = percent
	return nil
}

// MaxScroll returns this page load's scroll high-water mark.
func (p *PageView) MaxScroll() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxScroll
}

// ObserveSection handles a visibility change of a section. A view is counted
// when the visible fraction crosses SectionThreshold upwards; the section must
// drop below the threshold before it can be counted again.
func (p *PageView) ObserveSection(ctx context.Context, section string, ratio float64) (bool, error) {
	if !IsSection(section) {
		return false, nil
	}
	above := ratio >= SectionThreshold
	p.mu.Lock()
	defer p.mu.Unlock()
	if !above || p.visible[section] {
		p.visible[section] = above
		return false, nil
	}
	counted, err := p.store.RecordSectionView(ctx, section)
	if err != nil {
		return false, err
	}
	p.visible[section] = true
	return counted, nil
}

// End finishes the session. Only the first call writes.
func (p *PageView) End(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ended {
		return nil
	}
	if err := p.store.EndSession(ctx); err != nil {
		return err
	}
	p.ended = true
	return nil
}

// Age returns how long the page has been open at now.
func (p *PageView) Age(now time.Time) time.Duration {
	return now.Sub(p.Started)
}

// Registry tracks live page views by id. Views left open expire after ttl.
type Registry struct {
	views *lru.LRU[string, *PageView]
}

// NewRegistry creates a Registry holding at most size page views.
func NewRegistry(size int, ttl time.Duration) *Registry {
	return &Registry{views: lru.NewLRU[string, *PageView](size, nil, ttl)}
}

// Add registers pv.
func (r *Registry) Add(pv *PageView) {
	r.views.Add(pv.ID, pv)
}

// Get returns the page view with id or ErrPageViewNotFound.
func (r *Registry) Get(id string) (*PageView, error) {
	pv, ok := r.views.Get(id)
	if !ok {
		return nil, ErrPageViewNotFound
	}
	return pv, nil
}

// Remove forgets id.
func (r *Registry) Remove(id string) {
	r.views.Remove(id)
}

// Len returns the number of live page views.
func (r *Registry) Len() int {
	return r.views.Len()
}
