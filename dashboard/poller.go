package dashboard

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Default refresh cadence of an open panel.
const (
	RefreshEvery = 30 * time.Second
	TickEvery    = time.Second
)

// Poller schedules the two timers of an open panel: a data refresh and a
// clock tick. Each Start creates an independent schedule.
type Poller struct {
	Refresh time.Duration
	Tick    time.Duration
	log     zerolog.Logger
}

// NewPoller creates a Poller with the default cadence.
func NewPoller(log zerolog.Logger) *Poller {
	return &Poller{Refresh: RefreshEvery, Tick: TickEvery, log: log}
}

// Handle controls one running schedule.
type Handle struct {
	c    *cron.Cron
	once sync.Once
}

// Start runs refresh and tick on their schedules until the returned
// handle is stopped. A job still running when its next turn comes is
// skipped.
func (p *Poller) Start(refresh, tick func()) (*Handle, error) {
	logger := cronLogger{p.log}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.Refresh), refresh); err != nil {
		return nil, fmt.Errorf("schedule refresh: %w", err)
	}
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", p.Tick), tick); err != nil {
		return nil, fmt.Errorf("schedule tick: %w", err)
	}
	c.Start()
	return &Handle{c: c}, nil
}

// Stop cancels both jobs and waits for a running one to return. It is safe
// to call more than once.
func (h *Handle) Stop() {
	h.once.Do(func() {
		<-h.c.Stop().Done()
	})
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Trace().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
