package hexgrid

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_QueryRegionAroundOrigin(t *testing.T) {
	cells := Generate(2)
	idx := NewIndex(cells, 1.0)

	// A tiny box at the origin only touches the center cell.
	got := idx.QueryRegion(-0.1, -0.1, 0.1, 0.1)

	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Q)
	assert.Equal(t, 0, got[0].R)
}

func TestIndex_QueryRegionCoversWholeMap(t *testing.T) {
	cells := Generate(2)
	idx := NewIndex(cells, 1.0)

	got := idx.QueryRegion(-10, -10, 10, 10)

	assert.Len(t, got, len(cells))
	assert.ElementsMatch(t, cells, got)
}

func TestIndex_QueryRegionMiss(t *testing.T) {
	cells := Generate(2)
	idx := NewIndex(cells, 1.0)

	got := idx.QueryRegion(100, 100, 110, 110)

	assert.Empty(t, got)
}

func TestIndex_CarriesPriorities(t *testing.T) {
	cells := Generate(2)
	ClusterPriorities(cells, DefaultClusters, rand.New(rand.NewSource(3)))
	idx := NewIndex(cells, 1.0)

	got := idx.QueryRegion(-10, -10, 10, 10)

	require.Len(t, got, len(cells))
	byID := make(map[int]Cell, len(got))
	for _, cell := range got {
		byID[cell.ID] = cell
	}
	for _, cell := range cells {
		assert.Equal(t, cell, byID[cell.ID])
	}
}

func TestIndex_DefaultsHexSize(t *testing.T) {
	idx := NewIndex(Generate(1), 0)

	assert.Equal(t, DefaultHexSize, idx.HexSize())
}
