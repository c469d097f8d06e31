package coverage

// SweepSegments intersects a family of evenly spaced vertical sweep lines
// against the polygon and returns the chords per line, in increasing-x
// order. Offsets start one spacing before the bounding box and step by
// spacing until one spacing past it, and each line is clipped to the box's
// vertical extent widened by the same margin, so the first and last real
// crossings are always captured. Lines that miss the polygon entirely are
// dropped.
func SweepSegments(poly Polygon, spacing float64) [][]Segment {
	bbox := BoundingBox(poly)
	yMin := bbox.MinY - spacing
	yMax := bbox.MaxY + spacing

	var lines [][]Segment
	for x := bbox.MinX - spacing; x <= bbox.MaxX+spacing; x += spacing {
		segments := IntersectVerticalLine(poly, x, yMin, yMax)
		if len(segments) == 0 {
			continue
		}
		lines = append(lines, segments)
	}
	return lines
}
