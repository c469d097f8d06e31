// Package graphdb persists the survey graph in Neo4j: hex cells, UAVs,
// saved coverage plans and the ASSIGNED relations between them.
package graphdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/hexgrid"
)

// Config holds Neo4j connection settings
type Config struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DefaultConfig returns settings matching a local Neo4j started for the demo
func DefaultConfig() Config {
	return Config{
		URI:      "bolt://localhost:7687",
		Username: "neo4j",
		Password: "test1234",
	}
}

// Validate checks that the config can be used to open a connection
func (c Config) Validate() error {
	if c.URI == "" {
		return errors.New("neo4j uri is required")
	}
	if c.Username == "" {
		return errors.New("neo4j username is required")
	}
	return nil
}

// Waypoint is one geographic fix of a saved coverage plan
type Waypoint struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Assignment links a UAV to a hex cell it is responsible for
type Assignment struct {
	UAV  int          `json:"uav"`
	Cell hexgrid.Cell `json:"cell"`
}

// WaypointAssignment links a UAV to a waypoint of a saved plan
type WaypointAssignment struct {
	UAV      int    `json:"uav"`
	Waypoint string `json:"waypoint"`
}

// Store wraps a Neo4j driver with the queries the planner needs
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// Connect opens a driver and verifies the database is reachable
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("failed to reach neo4j at %s: %w", cfg.URI, err)
	}

	return &Store{driver: driver, database: cfg.Database}, nil
}

// Close releases the underlying driver
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// Ping verifies the database is still reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// Reset deletes every node and relationship
func (s *Store) Reset(ctx context.Context) error {
	err := s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to reset graph: %w", err)
	}
	return nil
}

// CreateCells stores the hex map as Hex nodes
func (s *Store) CreateCells(ctx context.Context, cells []hexgrid.Cell) error {
	err := s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, `
			UNWIND $cells AS c
			CREATE (:Hex {id: c.id, q: c.q, r: c.r, priority: c.priority})
			`, map[string]any{"cells": cellParams(cells)})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create hex cells: %w", err)
	}
	return nil
}

// CreateUAVs replaces the fleet with UAV nodes numbered 0..n-1
func (s *Store) CreateUAVs(ctx context.Context, n int) error {
	if n <= 0 {
		return fmt.Errorf("fleet size must be positive, got %d", n)
	}

	err := s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		// Remove existing UAV nodes to avoid duplicates when re-creating
		if _, err := tx.Run(ctx, "MATCH (u:UAV) DETACH DELETE u", nil); err != nil {
			return err
		}
		_, err := tx.Run(ctx, `
			UNWIND range(0, $n - 1) AS id
			CREATE (:UAV {id: id})
			`, map[string]any{"n": n})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create uavs: %w", err)
	}
	return nil
}

// AssignCells distributes hex cells over the fleet round-robin, walking the
// cells in descending priority so every UAV gets a share of the hot spots
func (s *Store) AssignCells(ctx context.Context) error {
	err := s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		// Remove previous assignment relationships to avoid accumulating duplicates
		if _, err := tx.Run(ctx, "MATCH ()-[r:ASSIGNED]->(:Hex) DELETE r", nil); err != nil {
			return err
		}
		_, err := tx.Run(ctx, `
			MATCH (h:Hex)
			WITH h ORDER BY h.priority DESC
			MATCH (u:UAV)
			WITH h, collect(u) AS uavs
			WITH h, uavs[h.id % size(uavs)] AS uav
			CREATE (uav)-[:ASSIGNED]->(h)
			`, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to assign cells: %w", err)
	}
	return nil
}

// FetchCells returns the stored hex map ordered by cell ID
func (s *Store) FetchCells(ctx context.Context) ([]hexgrid.Cell, error) {
	records, err := s.read(ctx, `
		MATCH (h:Hex)
		RETURN h.id AS id, h.q AS q, h.r AS r, h.priority AS priority
		ORDER BY h.id
		`, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch hex cells: %w", err)
	}

	cells := make([]hexgrid.Cell, 0, len(records))
	for _, record := range records {
		cell, err := cellFromRecord(record)
		if err != nil {
			return nil, err
		}
		cells = append(cells, cell)
	}
	return cells, nil
}

// FetchAssignments returns every UAV-to-cell assignment ordered by UAV then cell
func (s *Store) FetchAssignments(ctx context.Context) ([]Assignment, error) {
	records, err := s.read(ctx, `
		MATCH (u:UAV)-[:ASSIGNED]->(h:Hex)
		RETURN u.id AS uav, h.id AS id, h.q AS q, h.r AS r, h.priority AS priority
		ORDER BY u.id, h.id
		`, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}

	assignments := make([]Assignment, 0, len(records))
	for _, record := range records {
		uav, err := intValue(record, "uav")
		if err != nil {
			return nil, err
		}
		cell, err := cellFromRecord(record)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{UAV: uav, Cell: cell})
	}
	return assignments, nil
}

// SavePlan stores a planned path as Waypoint nodes and returns the plan ID.
// Waypoint IDs take the form "<planID>:<sequence>".
func (s *Store) SavePlan(ctx context.Context, fixes []Waypoint) (string, error) {
	if len(fixes) == 0 {
		return "", errors.New("refusing to save an empty plan")
	}

	planID := uuid.NewString()
	rows := make([]map[string]any, len(fixes))
	for i, fix := range fixes {
		rows[i] = map[string]any{
			"id":  WaypointID(planID, i),
			"lat": fix.Lat,
			"lon": fix.Lon,
			"seq": i,
		}
	}

	err := s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, `
			UNWIND $rows AS row
			MERGE (w:Waypoint {id: row.id})
			SET w.lat = row.lat, w.lon = row.lon, w.plan = $plan, w.seq = row.seq
			`, map[string]any{"rows": rows, "plan": planID})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to save plan: %w", err)
	}
	return planID, nil
}

// AssignUAVToWaypoint records that a UAV will service a waypoint
func (s *Store) AssignUAVToWaypoint(ctx context.Context, uavID int, waypointID string) error {
	err := s.write(ctx, func(tx neo4j.ManagedTransaction) error {
		_, err := tx.Run(ctx, `
			MATCH (u:UAV {id: $uav}), (w:Waypoint {id: $wp})
			MERGE (u)-[:ASSIGNED]->(w)
			`, map[string]any{"uav": uavID, "wp": waypointID})
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to assign uav %d to waypoint %s: %w", uavID, waypointID, err)
	}
	return nil
}

// ListWaypointAssignments returns every UAV-to-waypoint assignment
func (s *Store) ListWaypointAssignments(ctx context.Context) ([]WaypointAssignment, error) {
	records, err := s.read(ctx, `
		MATCH (u:UAV)-[:ASSIGNED]->(w:Waypoint)
		RETURN u.id AS uav, w.id AS waypoint
		ORDER BY u.id, w.id
		`, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list waypoint assignments: %w", err)
	}

	assignments := make([]WaypointAssignment, 0, len(records))
	for _, record := range records {
		uav, err := intValue(record, "uav")
		if err != nil {
			return nil, err
		}
		wp, err := stringValue(record, "waypoint")
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, WaypointAssignment{UAV: uav, Waypoint: wp})
	}
	return assignments, nil
}

// WaypointID builds the node ID for the waypoint at the given position of a plan
func WaypointID(planID string, seq int) string {
	return fmt.Sprintf("%s:%d", planID, seq)
}

func (s *Store) write(ctx context.Context, run func(tx neo4j.ManagedTransaction) error) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return nil, run(tx)
	})
	return err
}

func (s *Store) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]*neo4j.Record), nil
}

func cellParams(cells []hexgrid.Cell) []map[string]any {
	params := make([]map[string]any, len(cells))
	for i, cell := range cells {
		params[i] = map[string]any{
			"id":       cell.ID,
			"q":        cell.Q,
			"r":        cell.R,
			"priority": cell.Priority,
		}
	}
	return params
}

func cellFromRecord(record *neo4j.Record) (hexgrid.Cell, error) {
	var cell hexgrid.Cell
	var err error

	if cell.ID, err = intValue(record, "id"); err != nil {
		return cell, err
	}
	if cell.Q, err = intValue(record, "q"); err != nil {
		return cell, err
	}
	if cell.R, err = intValue(record, "r"); err != nil {
		return cell, err
	}
	if cell.Priority, err = intValue(record, "priority"); err != nil {
		return cell, err
	}
	return cell, nil
}

func intValue(record *neo4j.Record, key string) (int, error) {
	v, ok := record.Get(key)
	if !ok {
		return 0, fmt.Errorf("record is missing %q", key)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("record field %q has type %T, want int64", key, v)
	}
	return int(n), nil
}

func stringValue(record *neo4j.Record, key string) (string, error) {
	v, ok := record.Get(key)
	if !ok {
		return "", fmt.Errorf("record is missing %q", key)
	}
	str, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("record field %q has type %T, want string", key, v)
	}
	return str, nil
}
