package dashboard

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/missioncontrol/analytics"
	"github.com/eringen/missioncontrol/metrics"
	"github.com/eringen/missioncontrol/views"
)

// Handler serves the dashboard snapshot, its renderings and the live stream.
type Handler struct {
	store  *analytics.Store
	poller *Poller
	log    zerolog.Logger
}

// NewHandler creates a dashboard handler reading from store.
func NewHandler(store *analytics.Store, poller *Poller, log zerolog.Logger) *Handler {
	if poller == nil {
		poller = NewPoller(log)
	}
	return &Handler{store: store, poller: poller, log: log}
}

// RegisterRoutes registers the JSON snapshot on api (normally /api) and the
// panel routes on mc (normally /mission-control).
func (h *Handler) RegisterRoutes(api, mc *echo.Group) {
	api.GET("/dashboard", h.JSON)
	mc.GET("/sparkline.png", h.SparklinePNG)
	mc.GET("/stream", h.Stream)
	mc.GET("/fragments/panel", h.PanelFragment)
	mc.GET("/fragments/clocks", h.ClocksFragment)
}

// Snapshot builds the current snapshot from the persisted record.
func (h *Handler) Snapshot(ctx context.Context) (Snapshot, error) {
	rec, err := h.store.Load(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Build(rec, h.store.Now(), h.store.Location()), nil
}

func (h *Handler) JSON(c echo.Context) error {
	snap, err := h.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

func (h *Handler) PanelFragment(c echo.Context) error {
	snap, err := h.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	return views.Render(c, Panel(snap))
}

func (h *Handler) ClocksFragment(c echo.Context) error {
	return views.Render(c, ClockStrip(Clocks(h.store.Now())))
}

func (h *Handler) SparklinePNG(c echo.Context) error {
	snap, err := h.Snapshot(c.Request().Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := RenderSparkline(&buf, snap.Sparkline); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

type event struct {
	name string
	data string
}

// Stream pushes panel and clock updates as server-sent events while the
// panel is open. The schedule is stopped when the client disconnects.
func (h *Handler) Stream(c echo.Context) error {
	ctx, cancel := context.WithCancel(c.Request().Context())

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.Header().Set("X-Accel-Buffering", "no")
	res.WriteHeader(http.StatusOK)
	_ = http.NewResponseController(res.Writer).SetWriteDeadline(time.Time{})

	metrics.DashboardStreams.Inc()
	defer metrics.DashboardStreams.Dec()

	events := make(chan event, 4)
	push := func(name string, cmp templ.Component) {
		var buf bytes.Buffer
		if err := cmp.Render(ctx, &buf); err != nil {
			h.log.Error().Err(err).Str("event", name).Msg("render stream event")
			return
		}
		select {
		case events <- event{name: name, data: buf.String()}:
		case <-ctx.Done():
		}
	}
	refresh := func() {
		snap, err := h.Snapshot(ctx)
		if err != nil {
			h.log.Error().Err(err).Msg("dashboard refresh")
			return
		}
		push("panel", Panel(snap))
	}
	tick := func() {
		push("clocks", ClockStrip(Clocks(h.store.Now())))
	}

	handle, err := h.poller.Start(refresh, tick)
	if err != nil {
		cancel()
		return err
	}
	defer func() {
		cancel()
		handle.Stop()
	}()
	go refresh()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if err := writeEvent(res, ev); err != nil {
				h.log.Debug().Err(err).Msg("dashboard stream closed")
				return nil
			}
		}
	}
}

func writeEvent(res *echo.Response, ev event) error {
	var b strings.Builder
	b.WriteString("event: ")
	b.WriteString(ev.name)
	b.WriteByte('\n')
	for _, line := range strings.Split(ev.data, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	if _, err := res.Write([]byte(b.String())); err != nil {
		return err
	}
	res.Flush()
	return nil
}
