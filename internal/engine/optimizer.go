// Package engine implements the load placement optimizer, the collision
// detector, and the arrangement scoring used by the dynamics validator and
// by external collaborators.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/LoadStack/internal/geometry"
	"github.com/piwi3910/LoadStack/internal/model"
)

// InfeasibleItemError reports an item whose own dimensions exceed the
// vehicle envelope in every orientation. It is fatal for that item only;
// placement continues for the rest of the batch.
type InfeasibleItemError struct {
	ItemID string
	Label  string
}

func (e *InfeasibleItemError) Error() string {
	return fmt.Sprintf("item %s (%s) exceeds the vehicle envelope in every orientation", e.ItemID, e.Label)
}

// Optimizer runs the greedy 3D placement heuristic.
type Optimizer struct {
	Settings model.LoadSettings
}

func New(settings model.LoadSettings) *Optimizer {
	return &Optimizer{Settings: settings}
}

// zoneOrder is the placement order of the temperature bands. The frozen band
// sits deepest in the vehicle, so its items are physically loaded first.
var zoneOrder = []model.TemperatureZone{model.ZoneFrozen, model.ZoneCold, model.ZoneRegular}

// Place assigns every item a non-overlapping position inside its temperature
// band and records the loading sequence (the order of successful placement).
//
// Items that cannot fit the envelope in any orientation are reported via a
// joined InfeasibleItemError and listed in Infeasible. Items that fit the
// envelope but not their band are returned in Unplaced; over-capacity is
// never a placement failure, it is flagged by the safety score.
//
// A call fully replaces any prior arrangement: this is a batch recompute,
// not an incremental patch. The same item list and vehicle always produce
// the same arrangement.
func (o *Optimizer) Place(items []model.Item, vehicle model.Vehicle) (model.PlaceResult, error) {
	result := model.PlaceResult{}
	var errs []error

	for _, zone := range zoneOrder {
		var group []model.Item
		for _, it := range items {
			if it.Zone == zone {
				group = append(group, it)
			}
		}
		if len(group) == 0 {
			continue
		}
		sortForLoading(group)

		minZ, maxZ := o.Settings.Zones.Band(zone, vehicle)
		band := newBandPacker(vehicle, minZ, maxZ)

		for _, item := range group {
			if !fitsEnvelope(item, vehicle) {
				result.Infeasible = append(result.Infeasible, item)
				errs = append(errs, &InfeasibleItemError{ItemID: item.ID, Label: item.Label})
				continue
			}

			pl, ok := band.place(item, result.Arrangement, o.Settings.SupportTolerance)
			if !ok {
				result.Unplaced = append(result.Unplaced, item)
				continue
			}
			result.Arrangement.Placements = append(result.Arrangement.Placements, pl)
			result.Arrangement.LoadingSequence = append(result.Arrangement.LoadingSequence, item.ID)
			band.addAnchors(pl)
		}
	}

	return result, errors.Join(errs...)
}

// sortForLoading orders a zone partition by the composite loading key:
// destination descending (last stop loaded first, so the first stop ends up
// nearest the door), then weight descending (heavy items form the base
// layer), then volume descending, with item id as the deterministic
// tie-breaker.
func sortForLoading(group []model.Item) {
	sort.Slice(group, func(i, j int) bool {
		a, b := group[i], group[j]
		if a.Destination != b.Destination {
			return a.Destination > b.Destination
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		if a.Volume() != b.Volume() {
			return a.Volume() > b.Volume()
		}
		return a.ID < b.ID
	})
}

// fitsEnvelope reports whether the item fits the vehicle interior in at
// least one orientation.
func fitsEnvelope(item model.Item, v model.Vehicle) bool {
	if item.Height > v.Height {
		return false
	}
	normal := item.Width <= v.Width && item.Length <= v.Length
	rotated := item.Length <= v.Width && item.Width <= v.Length
	return normal || rotated
}

// Relocate is the manual repositioning path: it moves a placed item's
// centroid without re-running the optimizer. Violations introduced by the
// move are not corrected here; they surface through the safety checklist
// on the next score. Returns false if the id is not placed.
func Relocate(arr *model.Arrangement, id string, pos geometry.Vec3) bool {
	idx := arr.Find(id)
	if idx < 0 {
		return false
	}
	arr.Placements[idx].Position = pos
	return true
}

// anchor is a candidate min-corner position on the band floor plan.
// The resting height at an anchor is derived from what is already placed,
// so anchors carry no Y coordinate.
type anchor struct {
	x, z float64
}

// bandPacker places items inside one temperature band using an
// extreme-point strategy: anchors start at the four floor corners of the
// band and grow along the +X and +Z faces of each placed box. Anchors are
// never consumed, which lets later items stack on top of earlier ones at
// the same floor position.
type bandPacker struct {
	vehicle    model.Vehicle
	minZ, maxZ float64
	anchors    []anchor
	seen       map[anchor]bool
}

func newBandPacker(v model.Vehicle, minZ, maxZ float64) *bandPacker {
	bp := &bandPacker{
		vehicle: v,
		minZ:    minZ,
		maxZ:    maxZ,
		seen:    map[anchor]bool{},
	}
	halfW := v.Width / 2
	for _, a := range []anchor{
		{-halfW, minZ}, {-halfW, maxZ}, {halfW, minZ}, {halfW, maxZ},
	} {
		bp.push(a)
	}
	return bp
}

func (bp *bandPacker) push(a anchor) {
	if bp.seen[a] {
		return
	}
	bp.seen[a] = true
	bp.anchors = append(bp.anchors, a)
	sort.Slice(bp.anchors, func(i, j int) bool {
		if bp.anchors[i].x != bp.anchors[j].x {
			return bp.anchors[i].x < bp.anchors[j].x
		}
		return bp.anchors[i].z < bp.anchors[j].z
	})
}

// addAnchors registers the extreme points exposed by a new placement.
func (bp *bandPacker) addAnchors(pl model.Placement) {
	box := pl.Box()
	if box.Max.X < bp.vehicle.Width/2 {
		bp.push(anchor{box.Max.X, box.Min.Z})
	}
	if box.Max.Z < bp.maxZ {
		bp.push(anchor{box.Min.X, box.Max.Z})
	}
}

// candidate is one feasible placement under evaluation.
type candidate struct {
	x, y, z float64 // min corner
	w, l    float64 // placed X/Z extents
	rotated bool
	cost    float64
}

// place evaluates every anchor in both orientations and returns the
// cheapest feasible placement.
//
// Reach cost is the Manhattan distance of the candidate from the deep
// (front) edge of the band plus its resting height. Earlier-placed items —
// which the loading sort dedicates to the later stops — therefore fill the
// band from its deep end, keeping the first stop nearest the door.
func (bp *bandPacker) place(item model.Item, arr model.Arrangement, tol float64) (model.Placement, bool) {
	var best candidate
	found := false

	orientations := []bool{false}
	// Rotation only changes feasibility when the footprint is not square.
	if item.Width != item.Length {
		orientations = append(orientations, true)
	}

	for _, a := range bp.anchors {
		for _, rotated := range orientations {
			c, ok := bp.evaluate(item, a, rotated, arr, tol)
			if !ok {
				continue
			}
			if !found || c.cost < best.cost {
				best = c
				found = true
			}
		}
	}
	if !found {
		return model.Placement{}, false
	}

	pos := geometry.Vec3{
		X: best.x + best.w/2,
		Y: best.y + item.Height/2,
		Z: best.z + best.l/2,
	}
	return model.Placement{Item: item, Position: pos, Rotated: best.rotated}, true
}

// evaluate tests one anchor/orientation combination. The candidate box is
// corner-justified into the band, dropped to the lowest available resting
// height, and checked against the envelope, the band, the stacking rules,
// and the collision detector.
func (bp *bandPacker) evaluate(item model.Item, a anchor, rotated bool, arr model.Arrangement, tol float64) (candidate, bool) {
	w, l := item.Width, item.Length
	if rotated {
		w, l = l, w
	}
	halfW := bp.vehicle.Width / 2
	if w > bp.vehicle.Width || l > bp.maxZ-bp.minZ {
		return candidate{}, false
	}

	x := clamp(a.x, -halfW, halfW-w)
	z := clamp(a.z, bp.minZ, bp.maxZ-l)

	// Drop to rest: the bottom face lands on the highest top face among
	// items whose floor footprint overlaps the candidate's, or the floor.
	y := 0.0
	for _, p := range arr.Placements {
		pb := p.Box()
		if footprintOverlaps(x, z, w, l, pb) && pb.Max.Y > y {
			y = pb.Max.Y
		}
	}
	if y+item.Height > bp.vehicle.Height {
		return candidate{}, false
	}

	if y > 0 {
		// Resting on cargo: every supporting item must accept more load.
		for _, p := range arr.Placements {
			pb := p.Box()
			if !footprintOverlaps(x, z, w, l, pb) {
				continue
			}
			if math.Abs(pb.Max.Y-y) > tol {
				continue
			}
			if p.Item.Fragile || p.Item.StackLimit == 0 {
				return candidate{}, false
			}
			if len(RestingOn(p.Item.ID, arr, tol)) >= p.Item.StackLimit {
				return candidate{}, false
			}
		}
	}

	box := geometry.Box{
		Min: geometry.Vec3{X: x, Y: y, Z: z},
		Max: geometry.Vec3{X: x + w, Y: y + item.Height, Z: z + l},
	}
	for _, p := range arr.Placements {
		if box.Overlaps(p.Box()) {
			return candidate{}, false
		}
	}

	centerX := x + w/2
	cost := (z - bp.minZ) + math.Abs(centerX) + y
	return candidate{x: x, y: y, z: z, w: w, l: l, rotated: rotated, cost: cost}, true
}

// footprintOverlaps reports strict XZ overlap between a candidate footprint
// and a placed box.
func footprintOverlaps(x, z, w, l float64, b geometry.Box) bool {
	return x < b.Max.X && x+w > b.Min.X && z < b.Max.Z && z+l > b.Min.Z
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
