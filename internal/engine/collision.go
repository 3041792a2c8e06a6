package engine

import (
	"sort"

	"github.com/piwi3910/LoadStack/internal/model"
)

// Pair is an unordered pair of colliding item ids. A is always the
// lexicographically smaller id so pairs compare and sort deterministically.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

func newPair(a, b string) Pair {
	if b < a {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// DetectCollisions reports every pair of placed items whose bounding boxes
// share interior volume. Touching faces are not collisions. The result is
// sorted by id pair, so identical input yields identical output.
//
// The check is a plain O(n²) pairwise scan, which is fine at the expected
// scale of tens to a few hundred items per vehicle.
func DetectCollisions(arr model.Arrangement) []Pair {
	var pairs []Pair
	for i := 0; i < len(arr.Placements); i++ {
		bi := arr.Placements[i].Box()
		for j := i + 1; j < len(arr.Placements); j++ {
			if bi.Overlaps(arr.Placements[j].Box()) {
				pairs = append(pairs, newPair(arr.Placements[i].Item.ID, arr.Placements[j].Item.ID))
			}
		}
	}
	sortPairs(pairs)
	return pairs
}

// NearContacts reports pairs whose boxes are within tol of each other but
// not overlapping. The dynamics validator counts these as near-misses.
func NearContacts(arr model.Arrangement, tol float64) []Pair {
	var pairs []Pair
	for i := 0; i < len(arr.Placements); i++ {
		bi := arr.Placements[i].Box()
		grown := bi.Expand(tol)
		for j := i + 1; j < len(arr.Placements); j++ {
			bj := arr.Placements[j].Box()
			if !bi.Overlaps(bj) && grown.Overlaps(bj) {
				pairs = append(pairs, newPair(arr.Placements[i].Item.ID, arr.Placements[j].Item.ID))
			}
		}
	}
	sortPairs(pairs)
	return pairs
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
}

// SupportsOf returns the ids of the items directly beneath the given item:
// those whose top face the item's bottom rests on (within tol) and whose
// floor footprint overlaps the item's. Sorted by id.
func SupportsOf(id string, arr model.Arrangement, tol float64) []string {
	idx := arr.Find(id)
	if idx < 0 {
		return nil
	}
	box := arr.Placements[idx].Box()

	var supports []string
	for _, p := range arr.Placements {
		if p.Item.ID == id {
			continue
		}
		other := p.Box()
		gap := box.Min.Y - other.Max.Y
		if gap >= -tol && gap <= tol && box.OverlapsXZ(other) {
			supports = append(supports, p.Item.ID)
		}
	}
	sort.Strings(supports)
	return supports
}

// RestingOn returns the ids of the items resting directly on top of the
// given item. This is the inverse of SupportsOf and drives stack-limit
// enforcement. Sorted by id.
func RestingOn(id string, arr model.Arrangement, tol float64) []string {
	idx := arr.Find(id)
	if idx < 0 {
		return nil
	}
	box := arr.Placements[idx].Box()

	var above []string
	for _, p := range arr.Placements {
		if p.Item.ID == id {
			continue
		}
		other := p.Box()
		gap := other.Min.Y - box.Max.Y
		if gap >= -tol && gap <= tol && box.OverlapsXZ(other) {
			above = append(above, p.Item.ID)
		}
	}
	sort.Strings(above)
	return above
}
