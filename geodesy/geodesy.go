// Package geodesy converts between WGS84 geographic coordinates and the
// planar Web Mercator frame the coverage planner works in. Mercator meters
// are locally consistent over a survey area (forward then inverse reproduces
// the input to well under a meter), which is all the planner requires of its
// projection.
package geodesy

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/MaastrichtU-BISS/benedrone-coverage-planner/coverage"
)

// Forward projects a WGS84 coordinate to Web Mercator meters
func Forward(lat, lon float64) (x, y float64) {
	p := project.WGS84.ToMercator(orb.Point{lon, lat})
	return p[0], p[1]
}

// Inverse projects Web Mercator meters back to a WGS84 coordinate
func Inverse(x, y float64) (lat, lon float64) {
	p := project.Mercator.ToWGS84(orb.Point{x, y})
	return p.Lat(), p.Lon()
}

// RingToPlanar projects a geographic ring into planner vertices. GeoJSON
// rings repeat the first coordinate at the end; that closing vertex is
// dropped because the planner treats the ring as implicitly closed.
func RingToPlanar(ring orb.Ring) []coverage.Point {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}

	points := make([]coverage.Point, len(ring))
	for i, p := range ring {
		x, y := Forward(p.Lat(), p.Lon())
		points[i] = coverage.Point{X: x, Y: y}
	}
	return points
}

// PathToGeographic projects planner waypoints back into a geographic line
func PathToGeographic(path []coverage.Point) orb.LineString {
	line := make(orb.LineString, len(path))
	for i, p := range path {
		lat, lon := Inverse(p.X, p.Y)
		line[i] = orb.Point{lon, lat}
	}
	return line
}

// HaversineMeters calculates the great-circle distance in meters between two
// geographic points
func HaversineMeters(a, b orb.Point) float64 {
	const earthRadiusMeters = 6371000.0 // Earth's radius in meters

	// Convert degrees to radians
	lat1 := a.Lat() * math.Pi / 180.0
	lat2 := b.Lat() * math.Pi / 180.0
	deltaLat := (b.Lat() - a.Lat()) * math.Pi / 180.0
	deltaLon := (b.Lon() - a.Lon()) * math.Pi / 180.0

	// Haversine formula
	h := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

// LineLengthMeters sums the haversine distances along a geographic line
func LineLengthMeters(line orb.LineString) float64 {
	var total float64
	for i := 1; i < len(line); i++ {
		total += HaversineMeters(line[i-1], line[i])
	}
	return total
}
