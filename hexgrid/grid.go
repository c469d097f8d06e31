// Package hexgrid generates the hexagonal survey map the demo fleet operates
// on. Cells live on flat-top axial coordinates (q, r); priorities cluster
// around a few randomly chosen hot spots and decay with axial distance.
package hexgrid

import (
	"math"
	"math/rand"
)

// Map and priority config
const (
	DefaultHexSize   = 1.0 // circumradius of a cell in planar units
	DefaultMapRadius = 4
	DefaultClusters  = 3 // number of high-priority regions
	MaxPriority      = 5
)

// Cell is one hexagon of the survey map
type Cell struct {
	ID       int `json:"id"`
	Q        int `json:"q"`
	R        int `json:"r"`
	Priority int `json:"priority"`
}

// AxialToCart converts flat-top axial coordinates to Cartesian
func AxialToCart(q, r int, size float64) (x, y float64) {
	x = size * 1.5 * float64(q)
	y = size * math.Sqrt(3) * (float64(r) + float64(q)/2)
	return x, y
}

// Center returns the Cartesian center of the cell for the given hex size
func (c Cell) Center(size float64) (x, y float64) {
	return AxialToCart(c.Q, c.R, size)
}

// Generate builds a hexagonal map of the given radius around the origin.
// IDs are assigned sequentially in generation order, so the same radius
// always produces the same cells.
func Generate(radius int) []Cell {
	var cells []Cell
	id := 0
	for q := -radius; q <= radius; q++ {
		r1 := max(-radius, -q-radius)
		r2 := min(radius, -q+radius)
		for r := r1; r <= r2; r++ {
			cells = append(cells, Cell{ID: id, Q: q, R: r})
			id++
		}
	}
	return cells
}

// ClusterPriorities assigns every cell a priority between 1 and MaxPriority.
// It picks the given number of distinct cluster centers at random, scores
// each cell by its axial distance to the nearest center and adds mild noise
// so the clusters are not perfectly concentric.
func ClusterPriorities(cells []Cell, clusters int, rng *rand.Rand) {
	if len(cells) == 0 || clusters <= 0 {
		return
	}
	if clusters > len(cells) {
		clusters = len(cells)
	}

	perm := rng.Perm(len(cells))
	centers := make([]Cell, clusters)
	for i := range centers {
		centers[i] = cells[perm[i]]
	}

	for i := range cells {
		minDist := axialDistance(cells[i], centers[0])
		for _, center := range centers[1:] {
			if d := axialDistance(cells[i], center); d < minDist {
				minDist = d
			}
		}

		base := max(MaxPriority-minDist, 1)
		noise := 0
		if rng.Intn(3) == 2 {
			noise = 1
		}
		cells[i].Priority = min(base+noise, MaxPriority)
	}
}

func axialDistance(a, b Cell) int {
	return absInt(a.Q-b.Q) + absInt(a.R-b.R)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
