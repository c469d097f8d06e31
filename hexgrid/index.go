package hexgrid

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// cellEntry wraps a cell for R-tree storage
type cellEntry struct {
	cell Cell
	bbox rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *cellEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// Index manages spatial queries over a hex map in Cartesian coordinates
type Index struct {
	tree *rtreego.Rtree
	size float64
}

// NewIndex creates a spatial index over the given cells
func NewIndex(cells []Cell, size float64) *Index {
	if size <= 0 {
		size = DefaultHexSize
	}
	halfHeight := size * math.Sqrt(3) / 2

	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node
	for _, cell := range cells {
		x, y := AxialToCart(cell.Q, cell.R, size)
		bbox, err := rtreego.NewRect(
			rtreego.Point{x - size, y - halfHeight},
			[]float64{2 * size, 2 * halfHeight},
		)
		if err == nil {
			tree.Insert(&cellEntry{cell: cell, bbox: bbox})
		}
	}

	return &Index{tree: tree, size: size}
}

// HexSize returns the cell circumradius the index was built with
func (idx *Index) HexSize() float64 {
	return idx.size
}

// QueryRegion returns cells whose bounds intersect the given bounding box
func (idx *Index) QueryRegion(minX, minY, maxX, maxY float64) []Cell {
	bbox, err := rtreego.NewRect(
		rtreego.Point{minX, minY},
		[]float64{maxX - minX, maxY - minY},
	)
	if err != nil {
		return []Cell{}
	}

	results := idx.tree.SearchIntersect(bbox)
	cells := make([]Cell, 0, len(results))

	for _, item := range results {
		entry := item.(*cellEntry)
		cells = append(cells, entry.cell)
	}

	return cells
}
