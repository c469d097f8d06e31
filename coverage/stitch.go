package coverage

import (
	"slices"
	"sort"
)

// StitchPath joins per-line segment lists into one continuous serpentine
// route. Within a line the segments are ordered top to bottom by their mean
// y-coordinate, then flattened to (top, bottom, top, bottom, ...) waypoints.
// Every other non-empty line is reversed before appending, so the route runs
// down one line and back up the next instead of jumping to the top each
// time. The mean-y ordering is a deterministic tie-break: reordering it
// would change the output shape for non-convex polygons.
func StitchPath(lines [][]Segment) []Point {
	var path []Point

	strip := 0
	for _, segments := range lines {
		if len(segments) == 0 {
			continue
		}

		ordered := make([]Segment, len(segments))
		copy(ordered, segments)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].midY() > ordered[j].midY()
		})

		flat := make([]Point, 0, 2*len(ordered))
		for _, s := range ordered {
			flat = append(flat, s.P1, s.P2)
		}

		if strip%2 == 1 {
			slices.Reverse(flat)
		}

		path = append(path, flat...)
		strip++
	}

	return path
}
