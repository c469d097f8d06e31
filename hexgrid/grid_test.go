package hexgrid

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_CellCount(t *testing.T) {
	// A hex map of radius r has 3r^2 + 3r + 1 cells.
	cases := []struct {
		radius int
		want   int
	}{
		{0, 1},
		{1, 7},
		{2, 19},
		{4, 61},
	}

	for _, tc := range cases {
		cells := Generate(tc.radius)
		assert.Len(t, cells, tc.want, "radius %d", tc.radius)
	}
}

func TestGenerate_SequentialIDsAndBounds(t *testing.T) {
	radius := 4
	cells := Generate(radius)

	for i, cell := range cells {
		assert.Equal(t, i, cell.ID)
		assert.LessOrEqual(t, absInt(cell.Q), radius)
		assert.LessOrEqual(t, absInt(cell.R), radius)
		assert.LessOrEqual(t, absInt(cell.Q+cell.R), radius)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	assert.Equal(t, Generate(3), Generate(3))
}

func TestAxialToCart_KnownValues(t *testing.T) {
	x, y := AxialToCart(0, 0, 1.0)
	assert.Zero(t, x)
	assert.Zero(t, y)

	// One step along q moves 1.5 east and half a hex height north.
	x, y = AxialToCart(1, 0, 1.0)
	assert.InDelta(t, 1.5, x, 1e-9)
	assert.InDelta(t, math.Sqrt(3)/2, y, 1e-9)

	// One step along r moves a full hex height north.
	x, y = AxialToCart(0, 1, 1.0)
	assert.InDelta(t, 0.0, x, 1e-9)
	assert.InDelta(t, math.Sqrt(3), y, 1e-9)

	// Size scales linearly.
	x, y = AxialToCart(1, 0, 2.0)
	assert.InDelta(t, 3.0, x, 1e-9)
	assert.InDelta(t, math.Sqrt(3), y, 1e-9)
}

func TestClusterPriorities_WithinBounds(t *testing.T) {
	cells := Generate(DefaultMapRadius)
	rng := rand.New(rand.NewSource(42))

	ClusterPriorities(cells, DefaultClusters, rng)

	sawMax := false
	for _, cell := range cells {
		assert.GreaterOrEqual(t, cell.Priority, 1)
		assert.LessOrEqual(t, cell.Priority, MaxPriority)
		if cell.Priority == MaxPriority {
			sawMax = true
		}
	}
	// Every cluster center scores the maximum, so at least one cell must.
	assert.True(t, sawMax)
}

func TestClusterPriorities_SeededRunsMatch(t *testing.T) {
	first := Generate(3)
	second := Generate(3)

	ClusterPriorities(first, DefaultClusters, rand.New(rand.NewSource(7)))
	ClusterPriorities(second, DefaultClusters, rand.New(rand.NewSource(7)))

	assert.Equal(t, first, second)
}

func TestClusterPriorities_MoreClustersThanCells(t *testing.T) {
	cells := Generate(0)
	require.Len(t, cells, 1)

	ClusterPriorities(cells, 5, rand.New(rand.NewSource(1)))

	assert.Equal(t, MaxPriority, cells[0].Priority)
}

func TestClusterPriorities_NoCells(t *testing.T) {
	assert.NotPanics(t, func() {
		ClusterPriorities(nil, DefaultClusters, rand.New(rand.NewSource(1)))
	})
}
