package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ftth-viability-be/pkg/inventory"
)

// Offsets in latitude degrees near the equator: one degree of latitude is
// about 110.57km, so 0.00045 deg is roughly 50m.
var testCabinets = []inventory.Cabinet{
	{ID: "CTO-NEAR", Label: "cto-near", Lat: 0.00045, Lon: 0},  // ~50m
	{ID: "CTO-MID", Label: "cto-mid", Lat: 0.0018, Lon: 0},     // ~200m
	{ID: "CTO-FAR", Label: "cto-far", Lat: 0.0045, Lon: 0},     // ~500m
}

func TestFindCandidatesFiltersByRadius(t *testing.T) {
	got := FindCandidates(0, 0, testCabinets, 300, 0)

	assert.Len(t, got, 2)
	assert.Equal(t, "CTO-NEAR", got[0].Cabinet.ID)
	assert.Equal(t, "CTO-MID", got[1].Cabinet.ID)
	assert.InDelta(t, 50, got[0].DistanceM, 5)
	assert.InDelta(t, 200, got[1].DistanceM, 5)
}

func TestFindCandidatesWideRadius(t *testing.T) {
	got := FindCandidates(0, 0, testCabinets, 600, 0)

	assert.Len(t, got, 3)
	// Nearest first.
	assert.Equal(t, "CTO-NEAR", got[0].Cabinet.ID)
	assert.Equal(t, "CTO-MID", got[1].Cabinet.ID)
	assert.Equal(t, "CTO-FAR", got[2].Cabinet.ID)
}

func TestFindCandidatesNoneInRange(t *testing.T) {
	got := FindCandidates(0, 0, testCabinets, 10, 0)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFindCandidatesLimit(t *testing.T) {
	got := FindCandidates(0, 0, testCabinets, 600, 1)
	assert.Len(t, got, 1)
	assert.Equal(t, "CTO-NEAR", got[0].Cabinet.ID)
}

func TestFindCandidatesTieBreakByID(t *testing.T) {
	tied := []inventory.Cabinet{
		{ID: "CTO-B", Lat: 0.0009, Lon: 0},
		{ID: "CTO-A", Lat: 0.0009, Lon: 0},
	}

	got := FindCandidates(0, 0, tied, 500, 0)
	assert.Len(t, got, 2)
	assert.Equal(t, "CTO-A", got[0].Cabinet.ID)
	assert.Equal(t, "CTO-B", got[1].Cabinet.ID)
}

func TestFindCandidatesEmptyInventory(t *testing.T) {
	got := FindCandidates(0, 0, nil, 300, 0)
	assert.Empty(t, got)
}

func TestFindCandidatesIsDeterministic(t *testing.T) {
	first := FindCandidates(0, 0, testCabinets, 600, 0)
	second := FindCandidates(0, 0, testCabinets, 600, 0)
	assert.Equal(t, first, second)
}
