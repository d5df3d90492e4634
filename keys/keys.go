// Package keys matches keyboard input against the hidden codes that unlock
// easter eggs and open the Mission Control panel.
package keys

import (
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"
)

// Easter egg ids unlocked from the keyboard.
const (
	EggSpeedOfLight   = 1
	EggRelativity     = 2
	EggMissionControl = 3
)

const (
	SpeedOfLightCode = "299792458" // m/s
	RelativityCode   = "emc2"
	PanelPhrase      = "mission control"

	// InactivityReset clears a code buffer after this long without a matching key.
	InactivityReset = 2 * time.Second
)

// Press is a single keydown as reported by the browser (KeyboardEvent.key).
type Press struct {
	Key string    `json:"key"`
	At  time.Time `json:"at"`
}

// singleRune returns the lowercased rune of a one-character key.
func singleRune(key string) (rune, bool) {
	if utf8.RuneCountInString(key) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(key)
	return unicode.ToLower(r), true
}

// Digits accepts 0-9.
func Digits(r rune) bool { return r >= '0' && r <= '9' }

// Alphanumeric accepts a-z and 0-9.
func Alphanumeric(r rune) bool { return (r >= 'a' && r <= 'z') || Digits(r) }

// SequenceMatcher matches a fixed code typed as consecutive accepted keys.
// The buffer resets after InactivityReset without input, on a match, or once
// it reaches the code length without matching.
type SequenceMatcher struct {
	code    string
	accept  func(rune) bool
	timeout time.Duration

	buf  []rune
	last time.Time
}

// NewSequence creates a matcher for code. Keys rejected by accept are ignored.
func NewSequence(code string, accept func(rune) bool, timeout time.Duration) *SequenceMatcher {
	return &SequenceMatcher{code: code, accept: accept, timeout: timeout}
}

// Feed records a key press and reports whether it completed the code.
func (m *SequenceMatcher) Feed(key string, at time.Time) bool {
	r, ok := singleRune(key)
	if !ok || !m.accept(r) {
		return false
	}
	if !m.last.IsZero() && at.Sub(m.last) >= m.timeout {
		m.buf = m.buf[:0]
	}
	m.last = at
	m.buf = append(m.buf, r)

	typed := string(m.buf)
	if typed == m.code {
		m.buf = m.buf[:0]
		return true
	}
	if len(m.buf) >= utf8.RuneCountInString(m.code) {
		m.buf = m.buf[:0]
	}
	return false
}

// Buffered returns the pending input.
func (m *SequenceMatcher) Buffered() string { return string(m.buf) }

// PhraseMatcher looks for a phrase anywhere in the recent typed text.
// The buffer is trimmed to its last keep runes once it grows past max.
type PhraseMatcher struct {
	phrase string
	max    int
	keep   int
	buf    []rune
}

// NewPhrase creates a phrase matcher with the panel's buffer limits.
func NewPhrase(phrase string) *PhraseMatcher {
	return &PhraseMatcher{phrase: phrase, max: 20, keep: 15}
}

// Feed records a key press and reports whether the phrase is now present.
func (m *PhraseMatcher) Feed(key string) bool {
	r, ok := singleRune(key)
	if !ok {
		return false
	}
	m.buf = append(m.buf, r)
	matched := false
	if strings.Contains(string(m.buf), m.phrase) {
		m.buf = m.buf[:0]
		matched = true
	}
	if len(m.buf) > m.max {
		m.buf = append(m.buf[:0], m.buf[len(m.buf)-m.keep:]...)
	}
	return matched
}

// Result is what a batch of key presses triggered.
type Result struct {
	Eggs      []int `json:"eggs"`
	OpenPanel bool  `json:"openPanel"`
}

// Detector feeds every press to all matchers of one page load.
type Detector struct {
	mu         sync.Mutex
	speed      *SequenceMatcher
	relativity *SequenceMatcher
	panel      *PhraseMatcher
}

// NewDetector returns a Detector with the built-in codes.
func NewDetector() *Detector {
	return &Detector{
		speed:      NewSequence(SpeedOfLightCode, Digits, InactivityReset),
		relativity: NewSequence(RelativityCode, Alphanumeric, InactivityReset),
		panel:      NewPhrase(PanelPhrase),
	}
}

// Feed processes presses in order.
func (d *Detector) Feed(presses ...Press) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	res := Result{Eggs: []int{}}
	for _, p := range presses {
		if d.speed.Feed(p.Key, p.At) {
			res.Eggs = appendUnique(res.Eggs, EggSpeedOfLight)
		}
		if d.relativity.Feed(p.Key, p.At) {
			res.Eggs = appendUnique(res.Eggs, EggRelativity)
		}
		if d.panel.Feed(p.Key) {
			res.OpenPanel = true
			res.Eggs = appendUnique(res.Eggs, EggMissionControl)
		}
	}
	return res
}

func appendUnique(ids []int, id int) []int {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}
