package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadStack/internal/geometry"
	"github.com/piwi3910/LoadStack/internal/model"
)

// placedAt builds a placement with the given centroid for collision tests.
func placedAt(item model.Item, x, y, z float64) model.Placement {
	return model.Placement{Item: item, Position: geometry.Vec3{X: x, Y: y, Z: z}}
}

func TestDetectCollisions_ReportsOverlappingPairs(t *testing.T) {
	a := model.NewItem("A", 2, 2, 2, 10)
	b := model.NewItem("B", 2, 2, 2, 10)
	c := model.NewItem("C", 2, 2, 2, 10)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(a, 0, 1, 0),
		placedAt(b, 1, 1, 0), // overlaps A
		placedAt(c, 8, 1, 0), // clear of both
	}}

	pairs := DetectCollisions(arr)
	require.Len(t, pairs, 1)
	assert.Equal(t, newPair(a.ID, b.ID), pairs[0])
}

func TestDetectCollisions_TouchingFacesAreClear(t *testing.T) {
	a := model.NewItem("A", 2, 2, 2, 10)
	b := model.NewItem("B", 2, 2, 2, 10)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(a, 0, 1, 0),
		placedAt(b, 2, 1, 0), // faces meet exactly at x=1
	}}

	assert.Empty(t, DetectCollisions(arr))
}

func TestDetectCollisions_Deterministic(t *testing.T) {
	a := model.NewItem("A", 4, 4, 4, 10)
	b := model.NewItem("B", 4, 4, 4, 10)
	c := model.NewItem("C", 4, 4, 4, 10)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(a, 0, 2, 0),
		placedAt(b, 1, 2, 0),
		placedAt(c, 2, 2, 0),
	}}

	first := DetectCollisions(arr)
	second := DetectCollisions(arr)
	assert.Equal(t, first, second)
	require.Len(t, first, 3, "all three boxes mutually overlap")
}

func TestNearContacts_CountsCloseButClearPairs(t *testing.T) {
	a := model.NewItem("A", 2, 2, 2, 10)
	b := model.NewItem("B", 2, 2, 2, 10)
	c := model.NewItem("C", 2, 2, 2, 10)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(a, 0, 1, 0),
		placedAt(b, 2.05, 1, 0), // 0.05 ft gap
		placedAt(c, 9, 1, 0),    // far away
	}}

	contacts := NearContacts(arr, 0.1)
	require.Len(t, contacts, 1)
	assert.Equal(t, newPair(a.ID, b.ID), contacts[0])
}

func TestNearContacts_OverlappingPairsAreNotContacts(t *testing.T) {
	a := model.NewItem("A", 2, 2, 2, 10)
	b := model.NewItem("B", 2, 2, 2, 10)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(a, 0, 1, 0),
		placedAt(b, 1, 1, 0),
	}}

	assert.Empty(t, NearContacts(arr, 0.1))
}

func TestSupportsOf_FindsItemDirectlyBeneath(t *testing.T) {
	base := model.NewItem("Base", 4, 2, 4, 100)
	top := model.NewItem("Top", 2, 2, 2, 20)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(base, 0, 1, 0), // top face at y=2
		placedAt(top, 0, 3, 0),  // bottom face at y=2
	}}

	assert.Equal(t, []string{base.ID}, SupportsOf(top.ID, arr, 0.05))
	assert.Empty(t, SupportsOf(base.ID, arr, 0.05), "the base rests on the floor")
}

func TestSupportsOf_RequiresFootprintOverlap(t *testing.T) {
	base := model.NewItem("Base", 2, 2, 2, 100)
	top := model.NewItem("Top", 2, 2, 2, 20)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(base, 0, 1, 0),
		placedAt(top, 5, 3, 0), // right height, no overlap
	}}

	assert.Empty(t, SupportsOf(top.ID, arr, 0.05))
}

func TestRestingOn_IsInverseOfSupportsOf(t *testing.T) {
	base := model.NewItem("Base", 4, 2, 4, 100)
	left := model.NewItem("Left", 2, 2, 2, 20)
	right := model.NewItem("Right", 2, 2, 2, 20)

	arr := model.Arrangement{Placements: []model.Placement{
		placedAt(base, 0, 1, 0),
		placedAt(left, -1, 3, 0),
		placedAt(right, 1, 3, 0),
	}}

	above := RestingOn(base.ID, arr, 0.05)
	require.Len(t, above, 2)
	assert.Contains(t, above, left.ID)
	assert.Contains(t, above, right.ID)
}

func TestSupportsOf_UnknownID(t *testing.T) {
	arr := model.Arrangement{}
	assert.Nil(t, SupportsOf("nope", arr, 0.05))
	assert.Nil(t, RestingOn("nope", arr, 0.05))
}
