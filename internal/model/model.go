package model

import (
	"github.com/google/uuid"

	"github.com/piwi3910/LoadStack/internal/geometry"
)

// TemperatureZone classifies cargo by the vehicle band it must ride in.
type TemperatureZone int

const (
	ZoneRegular TemperatureZone = iota // Rear band, ambient temperature
	ZoneCold                           // Middle band, chilled
	ZoneFrozen                         // Front band, frozen
)

func (z TemperatureZone) String() string {
	switch z {
	case ZoneCold:
		return "Cold"
	case ZoneFrozen:
		return "Frozen"
	default:
		return "Regular"
	}
}

// Item represents a cargo unit to be placed. Dimensions are in feet,
// weight in pounds.
type Item struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Width  float64 `json:"width"`  // ft, along the vehicle X axis when not rotated
	Height float64 `json:"height"` // ft, floor to top
	Length float64 `json:"length"` // ft, along the vehicle Z axis when not rotated
	Weight float64 `json:"weight"` // lb

	Zone        TemperatureZone `json:"zone"`
	Fragile     bool            `json:"fragile"`
	Destination int             `json:"destination"` // Ordered stop index, 1..N

	// StackLimit is the maximum number of items (by count) that may rest
	// directly on top of this item. 0 means nothing may rest on it.
	StackLimit int `json:"stack_limit"`
	// CrushFactor in [0,1] expresses compressibility under load. Advisory
	// only: it derates weight-bearing response in the dynamics validator
	// and is never a hard placement constraint.
	CrushFactor float64 `json:"crush_factor"`
}

// NewItem creates an item with a fresh id and conservative defaults:
// regular zone, first stop, one item allowed on top, rigid.
func NewItem(label string, width, height, length, weight float64) Item {
	return Item{
		ID:          uuid.New().String()[:8],
		Label:       label,
		Width:       width,
		Height:      height,
		Length:      length,
		Weight:      weight,
		Zone:        ZoneRegular,
		Destination: 1,
		StackLimit:  1,
		CrushFactor: 0,
	}
}

func (i Item) Volume() float64 {
	return i.Width * i.Height * i.Length
}

// Vehicle defines the loading envelope and the coordinate system:
// x in [-Width/2, Width/2], z in [-Length/2, Length/2] (front to rear),
// y in [0, Height].
type Vehicle struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Width     float64 `json:"width"`      // ft
	Length    float64 `json:"length"`     // ft, front-to-back axis
	Height    float64 `json:"height"`     // ft
	MaxWeight float64 `json:"max_weight"` // lb
}

func NewVehicle(label string, width, length, height, maxWeight float64) Vehicle {
	return Vehicle{
		ID:        uuid.New().String()[:8],
		Label:     label,
		Width:     width,
		Length:    length,
		Height:    height,
		MaxWeight: maxWeight,
	}
}

func (v Vehicle) Volume() float64 {
	return v.Width * v.Length * v.Height
}

// Envelope returns the vehicle interior as a box in vehicle coordinates.
func (v Vehicle) Envelope() geometry.Box {
	return geometry.Box{
		Min: geometry.Vec3{X: -v.Width / 2, Y: 0, Z: -v.Length / 2},
		Max: geometry.Vec3{X: v.Width / 2, Y: v.Height, Z: v.Length / 2},
	}
}

// ZoneLayout partitions the vehicle's length axis into three contiguous
// bands: frozen at the front, cold in the middle, regular at the rear
// (loading-door end). Fractions are of the total vehicle length; the
// regular band takes the remainder.
type ZoneLayout struct {
	FrozenFraction float64 `json:"frozen_fraction"`
	ColdFraction   float64 `json:"cold_fraction"`
}

func DefaultZoneLayout() ZoneLayout {
	return ZoneLayout{FrozenFraction: 0.25, ColdFraction: 0.25}
}

// Band returns the [minZ, maxZ] range of the given zone's band for a vehicle.
func (zl ZoneLayout) Band(zone TemperatureZone, v Vehicle) (minZ, maxZ float64) {
	front := -v.Length / 2
	frozenEnd := front + v.Length*zl.FrozenFraction
	coldEnd := frozenEnd + v.Length*zl.ColdFraction
	switch zone {
	case ZoneFrozen:
		return front, frozenEnd
	case ZoneCold:
		return frozenEnd, coldEnd
	default:
		return coldEnd, v.Length / 2
	}
}

// ZoneAt returns the zone whose band contains the given z coordinate.
func (zl ZoneLayout) ZoneAt(z float64, v Vehicle) TemperatureZone {
	front := -v.Length / 2
	frozenEnd := front + v.Length*zl.FrozenFraction
	coldEnd := frozenEnd + v.Length*zl.ColdFraction
	switch {
	case z < frozenEnd:
		return ZoneFrozen
	case z < coldEnd:
		return ZoneCold
	default:
		return ZoneRegular
	}
}

// Placement is a single placed item with its centroid position in vehicle
// coordinates. Rotated means width and length are exchanged for placement
// purposes only; the item's nominal dimensions never change.
type Placement struct {
	Item     Item          `json:"item"`
	Position geometry.Vec3 `json:"position"`
	Rotated  bool          `json:"rotated"`
}

// PlacedWidth returns the effective X extent considering rotation.
func (p Placement) PlacedWidth() float64 {
	if p.Rotated {
		return p.Item.Length
	}
	return p.Item.Width
}

// PlacedLength returns the effective Z extent considering rotation.
func (p Placement) PlacedLength() float64 {
	if p.Rotated {
		return p.Item.Width
	}
	return p.Item.Length
}

// Box returns the placement's bounding box in vehicle coordinates.
func (p Placement) Box() geometry.Box {
	return geometry.NewBox(p.Position, p.PlacedWidth(), p.Item.Height, p.PlacedLength())
}

// Arrangement is the complete set of placed items plus the loading sequence:
// the order in which items are physically loaded, which is the reverse of
// the intended unloading order by destination.
type Arrangement struct {
	Placements      []Placement `json:"placements"`
	LoadingSequence []string    `json:"loading_sequence"`
}

// Find returns the index of the placement with the given item id, or -1.
func (a Arrangement) Find(id string) int {
	for i, p := range a.Placements {
		if p.Item.ID == id {
			return i
		}
	}
	return -1
}

func (a Arrangement) TotalWeight() float64 {
	var total float64
	for _, p := range a.Placements {
		total += p.Item.Weight
	}
	return total
}

func (a Arrangement) TotalVolume() float64 {
	var total float64
	for _, p := range a.Placements {
		total += p.Item.Volume()
	}
	return total
}

// Clone returns a deep copy. The dynamics validator works on a clone so the
// caller's arrangement is never mutated mid-simulation.
func (a Arrangement) Clone() Arrangement {
	cp := Arrangement{
		Placements:      make([]Placement, len(a.Placements)),
		LoadingSequence: make([]string, len(a.LoadingSequence)),
	}
	copy(cp.Placements, a.Placements)
	copy(cp.LoadingSequence, a.LoadingSequence)
	return cp
}

// Remove deletes the item with the given id from the placements and drops
// its loading-sequence entry. Scores must be recomputed by the caller.
func (a *Arrangement) Remove(id string) bool {
	idx := a.Find(id)
	if idx < 0 {
		return false
	}
	a.Placements = append(a.Placements[:idx], a.Placements[idx+1:]...)
	for i, sid := range a.LoadingSequence {
		if sid == id {
			a.LoadingSequence = append(a.LoadingSequence[:i], a.LoadingSequence[i+1:]...)
			break
		}
	}
	return true
}

// PlaceResult holds the full placement solution. Unplaced items did not fit
// their zone band and are surfaced to the caller, never silently dropped.
// Infeasible items exceed the vehicle envelope in every orientation.
type PlaceResult struct {
	Arrangement Arrangement `json:"arrangement"`
	Unplaced    []Item      `json:"unplaced_items"`
	Infeasible  []Item      `json:"infeasible_items"`
}

// ScoreTriple is derived from the current arrangement on demand and is
// never persisted as authoritative state.
type ScoreTriple struct {
	Stability    float64 `json:"stability"`
	Safety       float64 `json:"safety"`
	Optimization float64 `json:"optimization"`
}

// SafetyCheck names one entry of the safety checklist.
type SafetyCheck string

const (
	CheckWeightLimit    SafetyCheck = "weight_limit"
	CheckFragileClear   SafetyCheck = "fragile_clear"
	CheckStackLimits    SafetyCheck = "stack_limits"
	CheckZoneSeparation SafetyCheck = "zone_separation"
)

// SafetyReport carries the safety score together with the checks that
// failed, for diagnostics.
type SafetyReport struct {
	Score  float64       `json:"score"`
	Failed []SafetyCheck `json:"failed,omitempty"`
}

// LoadSettings holds optimizer and validator configuration.
type LoadSettings struct {
	Zones ZoneLayout `json:"zones"`

	// SupportTolerance is the vertical gap (ft) within which an item counts
	// as resting on the surface beneath it.
	SupportTolerance float64 `json:"support_tolerance"`
	// ContactTolerance is the gap (ft) within which two non-overlapping
	// items count as a near-contact in the dynamics validator.
	ContactTolerance float64 `json:"contact_tolerance"`

	// Dynamics validator tuning
	Gravity         float64 `json:"gravity"`          // ft/s²
	BaselineWeight  float64 `json:"baseline_weight"`  // lb, force scaling reference
	ScenarioForce   float64 `json:"scenario_force"`   // ft/s², magnitude of accel/brake/turn
	FragileResponse float64 `json:"fragile_response"` // force multiplier for fragile items
	JitterScale     float64 `json:"jitter_scale"`     // lateral jitter at full stack height, ft/s²
	LinearDamping   float64 `json:"linear_damping"`   // per-second velocity decay
	AngularDamping  float64 `json:"angular_damping"`  // per-second spin decay
	Seed            int64   `json:"seed"`             // jitter RNG seed
}

func DefaultSettings() LoadSettings {
	return LoadSettings{
		Zones:            DefaultZoneLayout(),
		SupportTolerance: 0.05,
		ContactTolerance: 0.1,
		Gravity:          32.174,
		BaselineWeight:   100.0,
		ScenarioForce:    8.0,
		FragileResponse:  1.5,
		JitterScale:      0.5,
		LinearDamping:    2.0,
		AngularDamping:   4.0,
		Seed:             42,
	}
}

// Plan ties a load together for handoff to collaborators.
type Plan struct {
	Name     string       `json:"name"`
	Vehicle  Vehicle      `json:"vehicle"`
	Items    []Item       `json:"items"`
	Settings LoadSettings `json:"settings"`
	Result   *PlaceResult `json:"result,omitempty"`
}

func NewPlan() Plan {
	return Plan{
		Name:     "Untitled",
		Items:    []Item{},
		Settings: DefaultSettings(),
	}
}
