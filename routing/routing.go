// Package routing orders survey sites into a single-vehicle tour using a
// nearest-neighbor heuristic biased toward high-priority sites.
package routing

import "math"

// DefaultPriorityWeight balances detour length against site priority. Larger
// values make the tour chase priority harder.
const DefaultPriorityWeight = 0.6

// Site is a point of interest with a visit priority
type Site struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Priority int     `json:"priority"`
}

// VisitOrder returns the sites ordered by a nearest-neighbor heuristic that
// favors priority. The tour starts at the highest-priority site, ties broken
// by lowest ID, and repeatedly hops to the site minimizing
// distance - weight*priority. With a weight of 0 this is plain nearest
// neighbor. The input slice is not modified.
func VisitOrder(sites []Site, weight float64) []Site {
	if len(sites) == 0 {
		return nil
	}

	pool := make([]Site, len(sites))
	copy(pool, sites)

	start := 0
	for i := 1; i < len(pool); i++ {
		if betterStart(pool[i], pool[start]) {
			start = i
		}
	}

	ordered := make([]Site, 0, len(pool))
	ordered = append(ordered, pool[start])
	pool = append(pool[:start], pool[start+1:]...)

	for len(pool) > 0 {
		last := ordered[len(ordered)-1]

		next := 0
		nextScore := visitScore(last, pool[0], weight)
		for i := 1; i < len(pool); i++ {
			if s := visitScore(last, pool[i], weight); s < nextScore {
				next, nextScore = i, s
			}
		}

		ordered = append(ordered, pool[next])
		pool = append(pool[:next], pool[next+1:]...)
	}

	return ordered
}

// TourLength calculates the total Euclidean length of the tour
func TourLength(sites []Site) float64 {
	var total float64
	for i := 1; i < len(sites); i++ {
		total += math.Hypot(sites[i].X-sites[i-1].X, sites[i].Y-sites[i-1].Y)
	}
	return total
}

func betterStart(candidate, current Site) bool {
	if candidate.Priority != current.Priority {
		return candidate.Priority > current.Priority
	}
	return candidate.ID < current.ID
}

func visitScore(from, to Site, weight float64) float64 {
	dist := math.Hypot(to.X-from.X, to.Y-from.Y)
	return dist - weight*float64(to.Priority)
}
