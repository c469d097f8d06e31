package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/graphdb"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/hexgrid"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/internal/config"
)

func TestPlanHandler_Success(t *testing.T) {
	s := newServer(config.Default())
	body := `{
		"polygon": [
			{"lat": 37.7749, "lon": -122.4194},
			{"lat": 37.7749, "lon": -122.4184},
			{"lat": 37.7759, "lon": -122.4184},
			{"lat": 37.7759, "lon": -122.4194}
		],
		"spacingM": 50,
		"angleSamples": 1
	}`

	w := httptest.NewRecorder()
	s.planHandler(w, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, w.Code)

	var resp planResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.True(t, resp.Success)
	// 0.001 degrees of longitude is ~111 projected meters, so a 50 m spacing
	// crosses the square with three passes.
	assert.Len(t, resp.Path, 6)
	assert.Greater(t, resp.DistanceMeters, 0.0)
	assert.Empty(t, resp.PlanID, "nothing should be persisted without save")

	for _, p := range resp.Path {
		assert.InDelta(t, 37.7754, p.Lat, 0.002)
		assert.InDelta(t, -122.4189, p.Lon, 0.002)
	}
}

func TestPlanHandler_RejectsTooFewVertices(t *testing.T) {
	s := newServer(config.Default())
	body := `{"polygon": [{"lat": 37.0, "lon": -122.0}, {"lat": 37.1, "lon": -122.0}]}`

	w := httptest.NewRecorder()
	s.planHandler(w, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_RejectsBadBody(t *testing.T) {
	s := newServer(config.Default())

	w := httptest.NewRecorder()
	s.planHandler(w, httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanHandler_MethodNotAllowed(t *testing.T) {
	s := newServer(config.Default())

	w := httptest.NewRecorder()
	s.planHandler(w, httptest.NewRequest(http.MethodGet, "/plan", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestGridCellsHandler_RequiresBounds(t *testing.T) {
	s := newServer(config.Default())

	w := httptest.NewRecorder()
	s.gridCellsHandler(w, httptest.NewRequest(http.MethodGet, "/grid/cells?minX=1&minY=2", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler(t *testing.T) {
	s := newServer(config.Default())

	w := httptest.NewRecorder()
	s.healthHandler(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, "benedrone-coverage-planner", resp["service"])
	assert.Equal(t, "not connected", resp["neo4j"])
	assert.Equal(t, false, resp["gridIndexed"])
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	handler := corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodOptions, "/plan", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, called, "preflight must not reach the handler")
}

func TestBuildRoutes(t *testing.T) {
	assignments := []graphdb.Assignment{
		{UAV: 0, Cell: hexgrid.Cell{ID: 0, Q: 0, R: 0, Priority: 1}},
		{UAV: 0, Cell: hexgrid.Cell{ID: 2, Q: 1, R: 0, Priority: 5}},
		{UAV: 1, Cell: hexgrid.Cell{ID: 1, Q: 0, R: 1, Priority: 2}},
	}

	routes := buildRoutes(assignments, 1.0, 0.6)

	require.Len(t, routes, 2)

	assert.Equal(t, 0, routes[0].UAV)
	require.Len(t, routes[0].Cells, 2)
	// The high-priority cell starts the tour.
	assert.Equal(t, 2, routes[0].Cells[0].ID)
	assert.Equal(t, 0, routes[0].Cells[1].ID)
	// Centers are (0,0) and (1.5, sqrt(3)/2), so one hop of ~1.732.
	assert.InDelta(t, 1.732, routes[0].TourLength, 0.001)

	assert.Equal(t, 1, routes[1].UAV)
	require.Len(t, routes[1].Cells, 1)
	assert.Zero(t, routes[1].TourLength)
}

func TestBuildRoutes_Empty(t *testing.T) {
	assert.Empty(t, buildRoutes(nil, 1.0, 0.6))
}
