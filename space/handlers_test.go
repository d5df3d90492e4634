package space

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestEcho(t *testing.T, s *Service) *echo.Echo {
	t.Helper()
	e := echo.New()
	NewHandler(s).RegisterRoutes(e.Group("/api/space"), e.Group("/mission-control/fragments/space"))
	return e
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLaunchJSON(t *testing.T) {
	s, _, _, _ := setupTestService(t)
	e := setupTestEcho(t, s)

	rec := get(e, "/api/space/launch")
	require.Equal(t, http.StatusOK, rec.Code)
	var w LaunchWidget
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &w))
	assert.True(t, w.Available)
	assert.Equal(t, "Starlink A", w.Name)
	assert.Equal(t, "T-10d 0h 0m", w.Countdown)
}

func TestJSONPlaceholderOnFailure(t *testing.T) {
	s, u, _, _ := setupTestService(t)
	u.failing.Store(true)
	e := setupTestEcho(t, s)

	for _, path := range []string{"/api/space/iss", "/api/space/launch", "/api/space/apod"} {
		rec := get(e, path)
		assert.Equal(t, http.StatusBadGateway, rec.Code, path)
		assert.Contains(t, rec.Body.String(), `"available":false`, path)
	}
}

func TestFragments(t *testing.T) {
	s, u, _, _ := setupTestService(t)
	e := setupTestEcho(t, s)

	rec := get(e, "/mission-control/fragments/space/apod")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `src="https://apod.example/pillars.jpg"`)
	assert.Contains(t, rec.Body.String(), "Pillars A")

	rec = get(e, "/mission-control/fragments/space/weather")
	assert.Contains(t, rec.Body.String(), APIKeyRequired)

	u.failing.Store(true)
	rec = get(e, "/mission-control/fragments/space/iss")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), NoValue)

	rec = get(e, "/mission-control/fragments/space/launch")
	assert.Contains(t, rec.Body.String(), Unavailable)
}
