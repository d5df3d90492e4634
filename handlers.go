package missioncontrol

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/missioncontrol/views"
)

// ResetConfirmation is the word a reset request must carry.
const ResetConfirmation = "RESET"

// ExportFilename is the download name of the exported record.
const ExportFilename = "portfolio_analytics.json"

var sections = []views.Section{
	{ID: "hero", Title: "Hello, Explorer"},
	{ID: "philosophy", Title: "Philosophy"},
	{ID: "research", Title: "Research"},
	{ID: "education", Title: "Education"},
	{ID: "contact", Title: "Contact"},
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{Name: a.Config.Name, Description: a.Config.Description}
}

func (a *App) handleHome(c echo.Context) error {
	meta := views.PageMeta{
		Title:       a.Config.Name,
		Description: a.Config.Description,
		CSRFToken:   CsrfToken(c),
	}
	return views.Render(c, views.Page(a.site(), meta, sections, popFlash(c)))
}

func (a *App) handleExport(c echo.Context) error {
	b, err := a.Analytics.Export(c.Request().Context())
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+ExportFilename+`"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, b)
}

type resetRequest struct {
	Confirm string `json:"confirm" form:"confirm"`
}

func (a *App) handleReset(c echo.Context) error {
	if a.resetLimiter.OnLimit(c.Response(), c.Request(), c.RealIP()) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "Too many reset attempts")
	}

	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request")
	}
	if req.Confirm != ResetConfirmation {
		return echo.NewHTTPError(http.StatusBadRequest, "Reset requires confirm="+ResetConfirmation)
	}
	if err := a.Analytics.Reset(c.Request().Context()); err != nil {
		return err
	}

	if isFormPost(c) {
		if err := setFlash(c, "Analytics data reset"); err != nil {
			a.Log.Warn().Err(err).Msg("set flash")
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.JSON(http.StatusOK, map[string]bool{"reset": true})
}

func isFormPost(c echo.Context) bool {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	return strings.HasPrefix(ct, echo.MIMEApplicationForm) || strings.HasPrefix(ct, echo.MIMEMultipartForm)
}

func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/api/") ||
		strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) ||
		strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		a.Log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("server error")
		msg = http.StatusText(code)
	}

	var werr error
	switch {
	case c.Request().Method == http.MethodHead:
		werr = c.NoContent(code)
	case wantsJSON(c):
		werr = c.JSON(code, map[string]string{"error": msg})
	default:
		werr = c.String(code, msg)
	}
	if werr != nil {
		a.Log.Debug().Err(werr).Msg("write error response")
	}
}
