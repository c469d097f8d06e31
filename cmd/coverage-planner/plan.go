package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/spf13/cobra"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/coverage"
	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/geodesy"
)

var (
	planIn      string
	planOut     string
	planSpacing float64
	planSamples int
	planWorkers int
	planMerc    bool
)

// demoPolygon is the built-in survey ring over San Francisco used when no
// input file is given. Coordinates are GeoJSON order, lon then lat.
var demoPolygon = orb.Ring{
	{-122.4194, 37.7749},
	{-122.4184, 37.7749},
	{-122.4184, 37.7740},
	{-122.4194, 37.7740},
	{-122.4196, 37.7741},
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan a coverage path for a survey polygon",
	Long: `plan sweeps a polygon with evenly spaced parallel passes and prints the
resulting waypoints one per line as lat,lon. Without --in a built-in demo
polygon is used. Input polygons are GeoJSON (FeatureCollection, Feature or
bare geometry); with --merc coordinates are treated as planar Web Mercator
meters instead of lon/lat.`,
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	ring := demoPolygon
	if planIn != "" {
		data, err := os.ReadFile(planIn)
		if err != nil {
			return fmt.Errorf("failed to read polygon file: %w", err)
		}
		ring, err = ringFromGeoJSON(data)
		if err != nil {
			return err
		}
	}

	var vertices []coverage.Point
	if planMerc {
		vertices = ringToPlanarVerbatim(ring)
	} else {
		vertices = geodesy.RingToPlanar(ring)
	}

	path, err := coverage.Plan(coverage.Polygon{Vertices: vertices}, coverage.Config{
		SpacingM:     planSpacing,
		AngleSamples: planSamples,
		Workers:      planWorkers,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d waypoints:\n", len(path))

	var line orb.LineString
	var distance float64
	if planMerc {
		distance = coverage.PathLength(path)
		for _, p := range path {
			fmt.Printf("%.2f,%.2f\n", p.X, p.Y)
		}
		line = make(orb.LineString, len(path))
		for i, p := range path {
			line[i] = orb.Point{p.X, p.Y}
		}
	} else {
		line = geodesy.PathToGeographic(path)
		distance = geodesy.LineLengthMeters(line)
		for _, p := range line {
			fmt.Printf("%.6f,%.6f\n", p.Lat(), p.Lon())
		}
	}

	if planOut != "" {
		if err := writePlanGeoJSON(planOut, ring, line, distance); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", planOut)
	}

	return nil
}

// ringFromGeoJSON pulls the outer ring of the first polygon found in a
// GeoJSON document, which may be a FeatureCollection, a Feature or a bare
// geometry
func ringFromGeoJSON(data []byte) (orb.Ring, error) {
	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse geojson: %w", err)
	}

	switch doc.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse geojson: %w", err)
		}
		for _, f := range fc.Features {
			if ring, ok := outerRing(f.Geometry); ok {
				return ring, nil
			}
		}
		return nil, errors.New("no polygon feature in collection")
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse geojson: %w", err)
		}
		if ring, ok := outerRing(f.Geometry); ok {
			return ring, nil
		}
		return nil, errors.New("feature has no polygon geometry")
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse geojson: %w", err)
		}
		if ring, ok := outerRing(g.Geometry()); ok {
			return ring, nil
		}
		return nil, errors.New("geometry is not a polygon")
	}
}

func outerRing(g orb.Geometry) (orb.Ring, bool) {
	switch geom := g.(type) {
	case orb.Polygon:
		if len(geom) > 0 {
			return geom[0], true
		}
	case orb.MultiPolygon:
		if len(geom) > 0 && len(geom[0]) > 0 {
			return geom[0][0], true
		}
	case orb.Ring:
		return geom, true
	}
	return nil, false
}

// ringToPlanarVerbatim takes ring coordinates as planar meters as-is, only
// dropping the GeoJSON closing vertex
func ringToPlanarVerbatim(ring orb.Ring) []coverage.Point {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}

	points := make([]coverage.Point, len(ring))
	for i, p := range ring {
		points[i] = coverage.Point{X: p[0], Y: p[1]}
	}
	return points
}

// writePlanGeoJSON writes the survey area and the planned path as a GeoJSON
// FeatureCollection
func writePlanGeoJSON(path string, ring orb.Ring, line orb.LineString, distance float64) error {
	closed := make(orb.Ring, len(ring))
	copy(closed, ring)
	if len(closed) > 0 && closed[0] != closed[len(closed)-1] {
		closed = append(closed, closed[0])
	}

	area := geojson.NewFeature(orb.Polygon{closed})
	area.Properties["role"] = "survey-area"

	route := geojson.NewFeature(line)
	route.Properties["role"] = "coverage-path"
	route.Properties["spacing_m"] = planSpacing
	route.Properties["angle_samples"] = planSamples
	route.Properties["distance_m"] = distance

	fc := geojson.NewFeatureCollection()
	fc.Append(area)
	fc.Append(route)

	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func init() {
	planCmd.Flags().StringVar(&planIn, "in", "", "GeoJSON file with the survey polygon")
	planCmd.Flags().StringVar(&planOut, "out", "", "Write area and path as a GeoJSON FeatureCollection")
	planCmd.Flags().Float64Var(&planSpacing, "spacing", 10.0, "Sweep spacing in meters")
	planCmd.Flags().IntVar(&planSamples, "samples", coverage.DefaultAngleSamples, "Number of sweep orientations to try")
	planCmd.Flags().IntVar(&planWorkers, "workers", 0, "Goroutines for the angle search (0 = all CPUs)")
	planCmd.Flags().BoolVar(&planMerc, "merc", false, "Treat coordinates as planar Web Mercator meters")
}
