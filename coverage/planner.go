// Package coverage plans boustrophedon area-coverage paths for simple
// polygons in planar metric coordinates. The planner sweeps the polygon with
// parallel lines at a fixed spacing, stitches the per-line crossings into a
// single back-and-forth route, and samples candidate sweep orientations over
// [0, 180) degrees to keep the shortest one. It handles non-convex polygons,
// where a single sweep line can cross the interior several times.
//
// Inputs and outputs are planar meters; callers working in geographic
// coordinates project before and after planning (see the geodesy package).
package coverage

import (
	"fmt"
	"runtime"
	"sync"
)

// Planner defaults, chosen for survey flights: 20 m between passes and a
// 5-degree orientation resolution.
const (
	DefaultSpacingM     = 20.0
	DefaultAngleSamples = 36
)

// Config controls a planning run. The zero value is usable: non-positive
// SpacingM and AngleSamples fall back to the package defaults, and Workers
// defaults to the number of CPUs.
type Config struct {
	SpacingM     float64 // distance between adjacent sweep lines in meters
	AngleSamples int     // sweep orientations sampled evenly over [0, 180)
	Workers      int     // concurrent angle evaluations; <=0 means NumCPU
}

func (c Config) normalized() Config {
	if c.SpacingM <= 0 {
		c.SpacingM = DefaultSpacingM
	}
	if c.AngleSamples <= 0 {
		c.AngleSamples = DefaultAngleSamples
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Workers > c.AngleSamples {
		c.Workers = c.AngleSamples
	}
	return c
}

// candidate is the stitched route for one sampled orientation, already
// rotated back into the original frame. A nil path means the orientation
// produced no coverage.
type candidate struct {
	path   []Point
	length float64
}

// evaluateAngle rotates the polygon into a working frame where the sweep
// lines are vertical, builds the serpentine route there, and rotates the
// route back about the same pivot so sweep geometry and output share one
// reference frame.
func evaluateAngle(poly Polygon, pivot Point, angleDeg, spacing float64) candidate {
	rotated := Polygon{Vertices: Rotate(poly.Vertices, -angleDeg, pivot)}
	path := StitchPath(SweepSegments(rotated, spacing))
	if len(path) == 0 {
		return candidate{}
	}

	back := Rotate(path, angleDeg, pivot)
	return candidate{path: back, length: PathLength(back)}
}

// Plan computes the shortest boustrophedon coverage path for the polygon.
// Every sampled orientation is evaluated independently on a fixed pool of
// workers, each writing only its own result slot, and the winner is chosen
// afterwards in angle order so that exact length ties always go to the lower
// angle. The same input therefore always yields the same path, regardless
// of worker scheduling.
//
// Plan returns ErrInvalidPolygon for rings with fewer than 3 vertices and
// ErrPlanningFailed when no orientation yields a non-empty route (a
// degenerate, zero-area ring). There are no partial results: the returned
// path is complete or the error is the only outcome.
func Plan(poly Polygon, cfg Config) ([]Point, error) {
	if len(poly.Vertices) < 3 {
		return nil, fmt.Errorf("%w: need at least 3 vertices, got %d", ErrInvalidPolygon, len(poly.Vertices))
	}
	cfg = cfg.normalized()

	pivot := Centroid(poly)
	candidates := make([]candidate, cfg.AngleSamples)

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				angle := 180.0 * float64(i) / float64(cfg.AngleSamples)
				candidates[i] = evaluateAngle(poly, pivot, angle, cfg.SpacingM)
			}
		}()
	}
	for i := 0; i < cfg.AngleSamples; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	// Strict < keeps the earliest angle on exact ties
	best := -1
	for i, c := range candidates {
		if c.path == nil {
			continue
		}
		if best == -1 || c.length < candidates[best].length {
			best = i
		}
	}

	if best == -1 {
		return nil, fmt.Errorf("%w: no sweep orientation crossed the polygon at spacing %.2f m", ErrPlanningFailed, cfg.SpacingM)
	}
	return candidates[best].path, nil
}
