package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/paulmach/orb"
	"github.com/spf13/cobra"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/coverage"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/geodesy"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/graphdb"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/hexgrid"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner and the survey grid over HTTP",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}

	return newServer(cfg).listen(cmd.Context(), addr)
}

type latLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type planRequest struct {
	Polygon      []latLon `json:"polygon"`
	SpacingM     float64  `json:"spacingM,omitempty"`
	AngleSamples int      `json:"angleSamples,omitempty"`
	Save         bool     `json:"save,omitempty"`
	UAVID        *int     `json:"uavId,omitempty"`
}

type planResponse struct {
	Success        bool     `json:"success"`
	Path           []latLon `json:"path,omitempty"`
	DistanceMeters float64  `json:"distanceMeters,omitempty"`
	PlanID         string   `json:"planId,omitempty"`
	Message        string   `json:"message,omitempty"`
}

type gridBuildRequest struct {
	Radius   int   `json:"radius,omitempty"`
	Clusters int   `json:"clusters,omitempty"`
	UAVs     int   `json:"uavs,omitempty"`
	Seed     int64 `json:"seed,omitempty"`
}

// server holds the lazily opened Neo4j store and the cached cell index
type server struct {
	cfg config.Config

	mu    sync.RWMutex
	db    *graphdb.Store
	index *hexgrid.Index
}

func newServer(cfg config.Config) *server {
	return &server{cfg: cfg}
}

// corsMiddleware adds CORS headers to allow frontend requests
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func (s *server) listen(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/plan", corsMiddleware(s.planHandler))
	mux.HandleFunc("/grid/build", corsMiddleware(s.gridBuildHandler))
	mux.HandleFunc("/grid/assignments", corsMiddleware(s.gridAssignmentsHandler))
	mux.HandleFunc("/grid/cells", corsMiddleware(s.gridCellsHandler))
	mux.HandleFunc("/health", corsMiddleware(s.healthHandler))

	log.Println("========================================")
	log.Println("🚁 Benedrone Coverage Planner Server")
	log.Println("========================================")
	log.Printf("Server starting on %s\n", addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /plan              - Plan a coverage path for a polygon")
	log.Println("  POST /grid/build        - Seed the hex survey grid in Neo4j")
	log.Println("  GET  /grid/assignments  - Per-UAV cells in visiting order")
	log.Println("  GET  /grid/cells        - Query cells by bounding box")
	log.Println("  GET  /health            - Check server status")
	log.Println("")
	log.Println("CORS enabled for all origins")
	log.Println("========================================")

	httpServer := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Println("🛑 Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := httpServer.Shutdown(shutdownCtx)
		s.closeStore()
		return err
	case err := <-errCh:
		s.closeStore()
		return err
	}
}

// POST /plan - Plan a coverage path for a geographic polygon
func (s *server) planHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📍 Coverage plan request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	settings := s.cfg.PlannerSettings()
	if req.SpacingM > 0 {
		settings.SpacingM = req.SpacingM
	}
	if req.AngleSamples > 0 {
		settings.AngleSamples = req.AngleSamples
	}

	log.Printf("   Polygon vertices: %d\n", len(req.Polygon))
	log.Printf("   Spacing: %.2f m, angle samples: %d\n", settings.SpacingM, settings.AngleSamples)

	vertices := make([]coverage.Point, len(req.Polygon))
	for i, c := range req.Polygon {
		x, y := geodesy.Forward(c.Lat, c.Lon)
		vertices[i] = coverage.Point{X: x, Y: y}
	}

	path, err := coverage.Plan(coverage.Polygon{Vertices: vertices}, settings)
	switch {
	case errors.Is(err, coverage.ErrInvalidPolygon):
		log.Printf("❌ Invalid polygon: %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Println("========================================")
		return
	case errors.Is(err, coverage.ErrPlanningFailed):
		log.Printf("❌ Planning failed: %v\n", err)
		writeJSON(w, http.StatusOK, planResponse{Success: false, Message: err.Error()})
		log.Println("========================================")
		return
	case err != nil:
		log.Printf("❌ Planner error: %v\n", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		log.Println("========================================")
		return
	}

	line := geodesy.PathToGeographic(path)
	distance := geodesy.LineLengthMeters(line)

	resp := planResponse{
		Success:        true,
		Path:           make([]latLon, len(line)),
		DistanceMeters: distance,
	}
	for i, p := range line {
		resp.Path[i] = latLon{Lat: p.Lat(), Lon: p.Lon()}
	}

	if req.Save {
		planID, err := s.savePlan(r.Context(), line, req.UAVID)
		if err != nil {
			log.Printf("⚠️  Failed to save plan: %v\n", err)
			resp.Message = "plan computed but not saved: " + err.Error()
		} else {
			resp.PlanID = planID
			log.Printf("   Saved as plan %s\n", planID)
		}
	}

	log.Printf("✅ Path found with %d waypoints\n", len(line))
	log.Printf("   Distance: %.2f meters (%.2f km)\n", distance, distance/1000)
	writeJSON(w, http.StatusOK, resp)
	log.Println("========================================")
}

// POST /grid/build - Seed the hex survey grid in Neo4j
func (s *server) gridBuildHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("🗺️  Grid build request received")

	if r.Method != http.MethodPost {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req gridBuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Invalid request body: %v\n", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	grid := s.cfg.Grid
	if req.Radius > 0 {
		grid.MapRadius = req.Radius
	}
	if req.Clusters > 0 {
		grid.Clusters = req.Clusters
	}
	if req.UAVs > 0 {
		grid.UAVs = req.UAVs
	}
	if req.Seed != 0 {
		grid.Seed = req.Seed
	}

	seed := grid.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cells := hexgrid.Generate(grid.MapRadius)
	hexgrid.ClusterPriorities(cells, grid.Clusters, rand.New(rand.NewSource(seed)))

	log.Printf("   Cells: %d (map radius %d)\n", len(cells), grid.MapRadius)
	log.Printf("   Priority clusters: %d, UAVs: %d, seed: %d\n", grid.Clusters, grid.UAVs, seed)

	store, err := s.store(r.Context())
	if err != nil {
		log.Printf("❌ Neo4j unavailable: %v\n", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		log.Println("========================================")
		return
	}

	ctx := r.Context()
	seedErr := store.Reset(ctx)
	if seedErr == nil {
		seedErr = store.CreateCells(ctx, cells)
	}
	if seedErr == nil {
		seedErr = store.CreateUAVs(ctx, grid.UAVs)
	}
	if seedErr == nil {
		seedErr = store.AssignCells(ctx)
	}
	if seedErr != nil {
		log.Printf("❌ Failed to seed grid: %v\n", seedErr)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   seedErr.Error(),
		})
		log.Println("========================================")
		return
	}

	s.mu.Lock()
	s.index = hexgrid.NewIndex(cells, grid.HexSize)
	s.mu.Unlock()

	log.Printf("✅ Survey grid seeded: %d cells assigned to %d UAVs\n", len(cells), grid.UAVs)
	log.Println("========================================")

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cells":   len(cells),
		"uavs":    grid.UAVs,
		"seed":    seed,
	})
}

// GET /grid/assignments - Per-UAV cells in visiting order
func (s *server) gridAssignmentsHandler(w http.ResponseWriter, r *http.Request) {
	log.Println("========================================")
	log.Println("📋 Grid assignments request received")

	if r.Method != http.MethodGet {
		log.Printf("❌ Method not allowed: %s\n", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	weight := s.cfg.Routing.PriorityWeight
	if raw := r.URL.Query().Get("weight"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Printf("❌ Invalid weight: %q\n", raw)
			http.Error(w, "Invalid weight parameter", http.StatusBadRequest)
			return
		}
		weight = parsed
	}

	store, err := s.store(r.Context())
	if err != nil {
		log.Printf("❌ Neo4j unavailable: %v\n", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		log.Println("========================================")
		return
	}

	assignments, err := store.FetchAssignments(r.Context())
	if err != nil {
		log.Printf("❌ Failed to fetch assignments: %v\n", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		log.Println("========================================")
		return
	}

	routes := buildRoutes(assignments, s.cfg.Grid.HexSize, weight)

	log.Printf("✅ Returning %d UAV routes (%d assignments)\n", len(routes), len(assignments))
	log.Println("========================================")

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"routes":  routes,
	})
}

// GET /grid/cells?minX=&minY=&maxX=&maxY= - Cells intersecting a region
func (s *server) gridCellsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	bounds := make([]float64, 4)
	for i, key := range []string{"minX", "minY", "maxX", "maxY"} {
		v, err := strconv.ParseFloat(query.Get(key), 64)
		if err != nil {
			http.Error(w, "minX, minY, maxX and maxY query parameters are required", http.StatusBadRequest)
			return
		}
		bounds[i] = v
	}

	idx, err := s.cellIndex(r.Context())
	if err != nil {
		log.Printf("❌ Cell index unavailable: %v\n", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	cells := idx.QueryRegion(bounds[0], bounds[1], bounds[2], bounds[3])

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(cells),
		"cells":   cells,
	})
}

// GET /health - Health check endpoint
func (s *server) healthHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	db := s.db
	gridIndexed := s.index != nil
	s.mu.RUnlock()

	// Report on the existing connection only; a health probe should not dial.
	neo4jStatus := "not connected"
	if db != nil {
		if err := db.Ping(r.Context()); err != nil {
			neo4jStatus = "unreachable"
		} else {
			neo4jStatus = "connected"
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"service":     "benedrone-coverage-planner",
		"neo4j":       neo4jStatus,
		"gridIndexed": gridIndexed,
	})
}

// savePlan persists the waypoints and optionally assigns them to a UAV
func (s *server) savePlan(ctx context.Context, line orb.LineString, uavID *int) (string, error) {
	store, err := s.store(ctx)
	if err != nil {
		return "", err
	}

	fixes := make([]graphdb.Waypoint, len(line))
	for i, p := range line {
		fixes[i] = graphdb.Waypoint{Lat: p.Lat(), Lon: p.Lon()}
	}

	planID, err := store.SavePlan(ctx, fixes)
	if err != nil {
		return "", err
	}

	if uavID != nil {
		for i := range fixes {
			if err := store.AssignUAVToWaypoint(ctx, *uavID, graphdb.WaypointID(planID, i)); err != nil {
				return "", err
			}
		}
	}

	return planID, nil
}

// store opens the Neo4j connection on first use
func (s *server) store(ctx context.Context) (*graphdb.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := graphdb.Connect(ctx, s.cfg.Neo4j)
		if err != nil {
			return nil, err
		}
		s.db = db
	}
	return s.db, nil
}

// cellIndex returns the cached index, building it from the store when the
// grid has not been loaded yet. An unseeded grid is not cached so a later
// seed run is picked up.
func (s *server) cellIndex(ctx context.Context) (*hexgrid.Index, error) {
	s.mu.RLock()
	idx := s.index
	s.mu.RUnlock()
	if idx != nil {
		return idx, nil
	}

	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}
	cells, err := store.FetchCells(ctx)
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return hexgrid.NewIndex(nil, s.cfg.Grid.HexSize), nil
	}

	s.mu.Lock()
	s.index = hexgrid.NewIndex(cells, s.cfg.Grid.HexSize)
	idx = s.index
	s.mu.Unlock()
	return idx, nil
}

func (s *server) closeStore() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		_ = s.db.Close(context.Background())
		s.db = nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("⚠️  Failed to encode response: %v\n", err)
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "HTTP listen address")
}
