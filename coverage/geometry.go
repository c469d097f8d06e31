package coverage

import (
	"math"
	"sort"
)

// Point represents a position in planar metric coordinates (meters)
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Polygon represents a survey area as a list of vertices forming a closed
// ring; the last vertex connects back to the first implicitly. The ring must
// be simple (non-self-intersecting) and holes are not supported.
type Polygon struct {
	Vertices []Point `json:"vertices"`
}

// Segment represents one chord where a sweep line crosses the polygon
// interior, ordered top endpoint (P1) first, bottom endpoint (P2) second
type Segment struct {
	P1, P2 Point
}

// midY is the mean y-coordinate of the segment endpoints, used to order
// multiple chords on the same sweep line top to bottom
func (s Segment) midY() float64 {
	return (s.P1.Y + s.P2.Y) / 2
}

// BBox represents a bounding box
type BBox struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoundingBox calculates the bounding box of a polygon
func BoundingBox(poly Polygon) BBox {
	if len(poly.Vertices) == 0 {
		return BBox{}
	}

	bbox := BBox{
		MinX: poly.Vertices[0].X,
		MinY: poly.Vertices[0].Y,
		MaxX: poly.Vertices[0].X,
		MaxY: poly.Vertices[0].Y,
	}

	for _, v := range poly.Vertices[1:] {
		bbox.MinX = math.Min(bbox.MinX, v.X)
		bbox.MinY = math.Min(bbox.MinY, v.Y)
		bbox.MaxX = math.Max(bbox.MaxX, v.X)
		bbox.MaxY = math.Max(bbox.MaxY, v.Y)
	}

	return bbox
}

// Rotate returns a copy of the points rotated counterclockwise by the given
// angle in degrees about the origin point. Rotating by -angle about the same
// origin inverts the operation up to floating-point tolerance.
func Rotate(points []Point, angleDeg float64, origin Point) []Point {
	rad := angleDeg * math.Pi / 180.0
	sin, cos := math.Sincos(rad)

	rotated := make([]Point, len(points))
	for i, p := range points {
		dx := p.X - origin.X
		dy := p.Y - origin.Y
		rotated[i] = Point{
			X: origin.X + dx*cos - dy*sin,
			Y: origin.Y + dx*sin + dy*cos,
		}
	}
	return rotated
}

// Centroid calculates the area centroid of a polygon using the shoelace
// formula. For near-zero signed area (collinear or repeated vertices) it
// falls back to the vertex mean so callers always get a finite pivot.
func Centroid(poly Polygon) Point {
	n := len(poly.Vertices)
	if n == 0 {
		return Point{}
	}

	var area, cx, cy float64
	for i := 0; i < n; i++ {
		v1 := poly.Vertices[i]
		v2 := poly.Vertices[(i+1)%n]
		cross := v1.X*v2.Y - v2.X*v1.Y
		area += cross
		cx += (v1.X + v2.X) * cross
		cy += (v1.Y + v2.Y) * cross
	}
	area /= 2

	if math.Abs(area) < 1e-12 {
		// Degenerate ring: average the vertices instead
		var sx, sy float64
		for _, v := range poly.Vertices {
			sx += v.X
			sy += v.Y
		}
		return Point{X: sx / float64(n), Y: sy / float64(n)}
	}

	return Point{X: cx / (6 * area), Y: cy / (6 * area)}
}

// PathLength calculates the total Euclidean length of a waypoint sequence;
// it is 0 for fewer than two points
func PathLength(points []Point) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	return total
}

// minChordLength filters out touch-point intersections, where a sweep line
// grazes a vertex or runs along a boundary edge without entering the interior
const minChordLength = 1e-9

// IntersectVerticalLine computes every chord where the vertical line x = at,
// clipped to the extent [yMin, yMax], crosses the polygon interior. The
// result holds zero, one, or multiple segments: non-convex polygons yield
// several disjoint chords on a single line. Each edge is tested with the
// half-open rule min(x1,x2) <= at < max(x1,x2) so a vertex lying exactly on
// the line is counted once, and edges collinear with the line contribute no
// crossing of their own. Degenerate (touch-point) chords are discarded.
func IntersectVerticalLine(poly Polygon, at, yMin, yMax float64) []Segment {
	n := len(poly.Vertices)
	if n < 3 {
		return nil
	}

	// Collect the y-coordinates where edges cross the line
	var crossings []float64
	for i := 0; i < n; i++ {
		v1 := poly.Vertices[i]
		v2 := poly.Vertices[(i+1)%n]

		lo, hi := v1.X, v2.X
		if lo > hi {
			lo, hi = hi, lo
		}
		if at < lo || at >= hi {
			continue
		}

		t := (at - v1.X) / (v2.X - v1.X)
		crossings = append(crossings, v1.Y+t*(v2.Y-v1.Y))
	}

	if len(crossings) < 2 {
		return nil
	}
	sort.Float64s(crossings)

	// Consecutive pairs of crossings bound the interior (even-odd rule)
	var segments []Segment
	for i := 0; i+1 < len(crossings); i += 2 {
		bottom := math.Max(crossings[i], yMin)
		top := math.Min(crossings[i+1], yMax)
		if top-bottom <= minChordLength {
			continue
		}
		segments = append(segments, Segment{
			P1: Point{X: at, Y: top},
			P2: Point{X: at, Y: bottom},
		})
	}

	return segments
}
