package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitOrder_StartsAtHighestPriority(t *testing.T) {
	sites := []Site{
		{ID: 0, X: 0, Y: 0, Priority: 1},
		{ID: 1, X: 5, Y: 5, Priority: 4},
		{ID: 2, X: 9, Y: 0, Priority: 2},
	}

	ordered := VisitOrder(sites, DefaultPriorityWeight)

	require.NotEmpty(t, ordered)
	assert.Equal(t, 1, ordered[0].ID)
}

func TestVisitOrder_StartTieBreaksOnLowestID(t *testing.T) {
	sites := []Site{
		{ID: 7, X: 0, Y: 0, Priority: 3},
		{ID: 2, X: 5, Y: 0, Priority: 3},
		{ID: 4, X: 9, Y: 0, Priority: 3},
	}

	ordered := VisitOrder(sites, DefaultPriorityWeight)

	require.NotEmpty(t, ordered)
	assert.Equal(t, 2, ordered[0].ID)
}

func TestVisitOrder_ZeroWeightIsNearestNeighbor(t *testing.T) {
	sites := []Site{
		{ID: 0, X: 0, Y: 0, Priority: 5},
		{ID: 1, X: 1, Y: 0, Priority: 1},
		{ID: 2, X: 2, Y: 0, Priority: 1},
		{ID: 3, X: 3, Y: 0, Priority: 1},
	}

	ordered := VisitOrder(sites, 0)

	ids := make([]int, len(ordered))
	for i, s := range ordered {
		ids[i] = s.ID
	}
	assert.Equal(t, []int{0, 1, 2, 3}, ids)
}

func TestVisitOrder_PriorityPullsTourOffNearest(t *testing.T) {
	sites := []Site{
		{ID: 0, X: 0, Y: 0, Priority: 5},
		{ID: 1, X: 1, Y: 0, Priority: 1}, // nearest to the start
		{ID: 2, X: 2, Y: 0, Priority: 5}, // farther but high priority
	}

	// score(1) = 1 - 0.6*1 = 0.4, score(2) = 2 - 0.6*5 = -1.0
	ordered := VisitOrder(sites, DefaultPriorityWeight)

	ids := make([]int, len(ordered))
	for i, s := range ordered {
		ids[i] = s.ID
	}
	assert.Equal(t, []int{0, 2, 1}, ids)

	// Without the bias the nearest site wins.
	plain := VisitOrder(sites, 0)
	assert.Equal(t, 1, plain[1].ID)
}

func TestVisitOrder_VisitsEverySiteOnce(t *testing.T) {
	sites := []Site{
		{ID: 0, X: 0, Y: 0, Priority: 2},
		{ID: 1, X: 3, Y: 1, Priority: 5},
		{ID: 2, X: -2, Y: 4, Priority: 1},
		{ID: 3, X: 1, Y: -3, Priority: 3},
		{ID: 4, X: 4, Y: 4, Priority: 1},
	}

	ordered := VisitOrder(sites, DefaultPriorityWeight)

	assert.Len(t, ordered, len(sites))
	assert.ElementsMatch(t, sites, ordered)
}

func TestVisitOrder_EquidistantTiesKeepInputOrder(t *testing.T) {
	sites := []Site{
		{ID: 0, X: 0, Y: 0, Priority: 5},
		{ID: 1, X: 1, Y: 0, Priority: 1},
		{ID: 2, X: -1, Y: 0, Priority: 1},
	}

	ordered := VisitOrder(sites, DefaultPriorityWeight)

	ids := make([]int, len(ordered))
	for i, s := range ordered {
		ids[i] = s.ID
	}
	assert.Equal(t, []int{0, 1, 2}, ids)
}

func TestVisitOrder_DoesNotMutateInput(t *testing.T) {
	sites := []Site{
		{ID: 0, X: 0, Y: 0, Priority: 1},
		{ID: 1, X: 1, Y: 0, Priority: 5},
	}
	original := make([]Site, len(sites))
	copy(original, sites)

	VisitOrder(sites, DefaultPriorityWeight)

	assert.Equal(t, original, sites)
}

func TestVisitOrder_Empty(t *testing.T) {
	assert.Empty(t, VisitOrder(nil, DefaultPriorityWeight))
}

func TestTourLength(t *testing.T) {
	tour := []Site{
		{ID: 0, X: 0, Y: 0},
		{ID: 1, X: 3, Y: 4},
		{ID: 2, X: 3, Y: 10},
	}

	assert.InDelta(t, 11.0, TourLength(tour), 1e-9)
	assert.Zero(t, TourLength(tour[:1]))
	assert.Zero(t, TourLength(nil))
}
