package analytics

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/eringen/missioncontrol/keys"
	"github.com/eringen/missioncontrol/metrics"
)

// Input validation limits for the tracking endpoints.
const (
	maxPageViewIDLen = 64
	maxSectionLen    = 64
	maxKeyLen        = 32
	maxKeysPerBatch  = 64
	maxGeometry      = 10_000_000
)

// Handler serves the tracking API used by the embedded tracker script.
type Handler struct {
	store   *Store
	views   *Registry
	limiter *httprate.RateLimiter
	log     zerolog.Logger
}

// NewHandler creates a tracking handler. Each client IP may send 240
// requests per minute.
func NewHandler(store *Store, views *Registry, log zerolog.Logger) *Handler {
	return &Handler{
		store:   store,
		views:   views,
		limiter: httprate.NewRateLimiter(240, time.Minute),
		log:     log,
	}
}

// VisitResponse is returned when a page load starts.
type VisitResponse struct {
	PageView string `json:"pageView"`
}

// ScrollRequest reports the current scroll position of a page view.
type ScrollRequest struct {
	PageView       string  `json:"pageView"`
	ScrollY        float64 `json:"scrollY"`
	ScrollHeight   float64 `json:"scrollHeight"`
	ViewportHeight float64 `json:"viewportHeight"`
}

// SectionRequest reports the visible fraction of a section.
type SectionRequest struct {
	PageView string  `json:"pageView"`
	Section  string  `json:"section"`
	Ratio    float64 `json:"ratio"`
}

// EggRequest reports an easter egg unlocked in the browser.
type EggRequest struct {
	ID int `json:"id"`
}

// EndRequest closes a page view. It is sent with navigator.sendBeacon.
type EndRequest struct {
	PageView string `json:"pageView"`
}

// KeysRequest carries a batch of key presses of a page view.
type KeysRequest struct {
	PageView string       `json:"pageView"`
	Keys     []keys.Press `json:"keys"`
}

// RegisterRoutes registers the tracking endpoints on g (normally /api/analytics).
func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.Use(h.rateLimit)
	g.POST("/visit", h.Visit)
	g.POST("/scroll", h.Scroll)
	g.POST("/section", h.Section)
	g.POST("/egg", h.Egg)
	g.POST("/end", h.End)
	g.POST("/keys", h.Keys)
}

func (h *Handler) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.limiter.OnLimit(c.Response(), c.Request(), c.RealIP()) {
			metrics.EventsDropped.WithLabelValues("rate_limited").Inc()
			return c.NoContent(http.StatusTooManyRequests)
		}
		return next(c)
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

func (h *Handler) internalError(c echo.Context, err error, msg string) error {
	h.log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

func (h *Handler) pageView(c echo.Context, id string) (*PageView, error) {
	if id == "" || len(id) > maxPageViewIDLen {
		return nil, badRequest(c, "invalid pageView")
	}
	pv, err := h.views.Get(id)
	if err != nil {
		return nil, c.JSON(http.StatusNotFound, map[string]string{"error": "unknown pageView"})
	}
	return pv, nil
}

func validGeometry(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > maxGeometry {
			return false
		}
	}
	return true
}

// Visit records a visit and opens a page view.
func (h *Handler) Visit(c echo.Context) error {
	pv, err := h.store.BeginPageView(c.Request().Context())
	if err != nil {
		return h.internalError(c, err, "record visit")
	}
	h.views.Add(pv)
	return c.JSON(http.StatusOK, VisitResponse{PageView: pv.ID})
}

// Scroll records scroll depth for a page view.
func (h *Handler) Scroll(c echo.Context) error {
	var req ScrollRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if !validGeometry(req.ScrollY, req.ScrollHeight, req.ViewportHeight) {
		return badRequest(c, "invalid scroll geometry")
	}
	pv, err := h.pageView(c, req.PageView)
	if pv == nil {
		return err
	}
	if err := pv.Scroll(c.Request().Context(), req.ScrollY, req.ScrollHeight, req.ViewportHeight); err != nil {
		return h.internalError(c, err, "record scroll")
	}
	return c.JSON(http.StatusOK, map[string]int{"maxScroll": pv.MaxScroll()})
}

// Section records a section visibility change for a page view.
func (h *Handler) Section(c echo.Context) error {
	var req SectionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if len(req.Section) > maxSectionLen || math.IsNaN(req.Ratio) || req.Ratio < 0 || req.Ratio > 1 {
		return badRequest(c, "invalid section")
	}
	pv, err := h.pageView(c, req.PageView)
	if pv == nil {
		return err
	}
	counted, err := pv.ObserveSection(c.Request().Context(), req.Section, req.Ratio)
	if err != nil {
		return h.internalError(c, err, "record section view")
	}
	return c.JSON(http.StatusOK, map[string]bool{"counted": counted})
}

// Egg records an easter egg unlocked client-side.
func (h *Handler) Egg(c echo.Context) error {
	var req EggRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	first, err := h.store.RecordEasterEgg(c.Request().Context(), req.ID)
	if errors.Is(err, ErrUnknownEasterEgg) {
		return badRequest(c, "unknown easter egg")
	}
	if err != nil {
		return h.internalError(c, err, "record easter egg")
	}
	return c.JSON(http.StatusOK, map[string]bool{"first": first})
}

// End closes a page view and stores the session duration before responding.
func (h *Handler) End(c echo.Context) error {
	var req EndRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if req.PageView == "" {
		req.PageView = c.QueryParam("pageView")
	}
	pv, err := h.pageView(c, req.PageView)
	if pv == nil {
		return err
	}
	if err := pv.End(c.Request().Context()); err != nil {
		return h.internalError(c, err, "end session")
	}
	h.views.Remove(pv.ID)
	h.log.Debug().Str("pageView", pv.ID).Dur("age", pv.Age(h.store.now())).Msg("page view ended")
	return c.NoContent(http.StatusNoContent)
}

// Keys feeds key presses to the page view's detector and records any
// easter eggs they unlock.
func (h *Handler) Keys(c echo.Context) error {
	var req KeysRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if len(req.Keys) > maxKeysPerBatch {
		return badRequest(c, "too many keys")
	}
	for _, k := range req.Keys {
		if len(k.Key) > maxKeyLen {
			return badRequest(c, "invalid key")
		}
	}
	pv, err := h.pageView(c, req.PageView)
	if pv == nil {
		return err
	}
	res := pv.Keys.Feed(req.Keys...)
	for _, id := range res.Eggs {
		if _, err := h.store.RecordEasterEgg(c.Request().Context(), id); err != nil {
			return h.internalError(c, err, "record easter egg")
		}
	}
	return c.JSON(http.StatusOK, res)
}
