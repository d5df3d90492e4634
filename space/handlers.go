package space

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/missioncontrol/views"
)

// Handler serves the space widgets as JSON and as HTML fragments.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler backed by svc.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the JSON endpoints on api (normally /api/space)
// and the fragments on frag (normally /mission-control/fragments/space).
func (h *Handler) RegisterRoutes(api, frag *echo.Group) {
	api.GET("/iss", h.ISSJSON)
	api.GET("/launch", h.LaunchJSON)
	api.GET("/apod", h.APODJSON)

	frag.GET("/iss", h.ISSFragment)
	frag.GET("/launch", h.LaunchFragment)
	frag.GET("/apod", h.APODFragment)
	frag.GET("/weather", h.WeatherFragment)
}

// ISSWidget fetches the ISS position, degrading to a placeholder.
func (h *Handler) ISSWidget(c echo.Context) ISSWidget {
	pos, err := h.svc.ISS(c.Request().Context())
	if err != nil {
		return UnavailableISS()
	}
	return NewISSWidget(pos)
}

// LaunchWidget fetches the next launch, degrading to a placeholder.
func (h *Handler) LaunchWidget(c echo.Context) LaunchWidget {
	l, err := h.svc.Launch(c.Request().Context())
	if err != nil {
		return UnavailableLaunch()
	}
	return NewLaunchWidget(l, h.svc.now())
}

// APODWidget fetches today's picture, degrading to a placeholder.
func (h *Handler) APODWidget(c echo.Context) APODWidget {
	a, err := h.svc.AstronomyPicture(c.Request().Context())
	if err != nil {
		return UnavailableAPOD()
	}
	return NewAPODWidget(a)
}

func widgetJSON(c echo.Context, available bool, v any) error {
	if !available {
		return c.JSON(http.StatusBadGateway, v)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ISSJSON(c echo.Context) error {
	w := h.ISSWidget(c)
	return widgetJSON(c, w.Available, w)
}

func (h *Handler) LaunchJSON(c echo.Context) error {
	w := h.LaunchWidget(c)
	return widgetJSON(c, w.Available, w)
}

func (h *Handler) APODJSON(c echo.Context) error {
	w := h.APODWidget(c)
	return widgetJSON(c, w.Available, w)
}

func (h *Handler) ISSFragment(c echo.Context) error {
	return views.Render(c, ISSCard(h.ISSWidget(c)))
}

func (h *Handler) LaunchFragment(c echo.Context) error {
	return views.Render(c, LaunchCard(h.LaunchWidget(c)))
}

func (h *Handler) APODFragment(c echo.Context) error {
	return views.Render(c, APODCard(h.APODWidget(c)))
}

func (h *Handler) WeatherFragment(c echo.Context) error {
	return views.Render(c, WeatherCard(Weather()))
}
