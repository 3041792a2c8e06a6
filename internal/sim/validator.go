// Package sim implements the dynamics validator: a discrete-time stress
// test that perturbs a static arrangement with simulated vehicle motion
// (acceleration, braking, turning, gravity) to surface marginal placements.
// It is a scoring instrument, not a faithful rigid-body simulation: motion
// uses explicit Euler integration with damping and no external physics
// engine.
package sim

import (
	"errors"
	"math/rand"

	"github.com/piwi3910/LoadStack/internal/engine"
	"github.com/piwi3910/LoadStack/internal/geometry"
	"github.com/piwi3910/LoadStack/internal/model"
)

// ErrNotRunning is returned by Step when no simulation has been started.
var ErrNotRunning = errors.New("sim: validator is not running")

// State is the validator's observable per-tick state. It is reset on Start
// and meaningless while no simulation is running.
type State struct {
	Tick            int      `json:"tick"`
	Scenario        Scenario `json:"scenario"`
	CollisionCount  int      `json:"collision_count"`
	ContactCount    int      `json:"contact_count"`
	Stability       float64  `json:"stability"`
	AngularVelocity float64  `json:"angular_velocity"` // mean |spin| across items, rad/s
}

// Snapshot is the per-tick view handed to collaborators for rendering:
// item centroid positions plus the simulation state after the tick settled.
type Snapshot struct {
	Positions map[string]geometry.Vec3 `json:"positions"`
	State     State                    `json:"state"`
}

// Validator owns item positions while a simulation runs. It works on a
// clone of the arrangement handed to Start, so the caller's arrangement is
// never touched; Stop returns the perturbed arrangement with positions
// frozen at their last computed value.
type Validator struct {
	settings model.LoadSettings
	vehicle  model.Vehicle

	running    bool
	arr        model.Arrangement
	policy     ScenarioPolicy
	rng        *rand.Rand
	velocities map[string]geometry.Vec3
	spins      map[string]float64
	state      State
}

func New(settings model.LoadSettings, vehicle model.Vehicle) *Validator {
	return &Validator{settings: settings, vehicle: vehicle}
}

func (v *Validator) Running() bool {
	return v.running
}

// Start transitions Idle -> Running and resets the simulation state. A nil
// policy runs gravity only. Calling Start while running restarts from the
// new arrangement.
func (v *Validator) Start(arr model.Arrangement, policy ScenarioPolicy) {
	if policy == nil {
		policy = ScriptedPolicy{}
	}
	v.arr = arr.Clone()
	v.policy = policy
	v.rng = rand.New(rand.NewSource(v.settings.Seed))
	v.velocities = make(map[string]geometry.Vec3, len(arr.Placements))
	v.spins = make(map[string]float64, len(arr.Placements))
	v.state = State{Stability: engine.Stability(v.arr, v.vehicle)}
	v.running = true
}

// Stop transitions Running -> Idle, discards forces, and returns the
// arrangement with positions left at their last computed value. Stopping
// mid-run freezes state; nothing is rolled back.
func (v *Validator) Stop() model.Arrangement {
	v.running = false
	v.velocities = nil
	v.spins = nil
	return v.arr.Clone()
}

// Arrangement returns a copy of the validator's current working
// arrangement.
func (v *Validator) Arrangement() model.Arrangement {
	return v.arr.Clone()
}

// Step advances the simulation by dt seconds and returns the settled
// snapshot for the tick. Collision detection runs after integration, so a
// snapshot never exposes partial-tick positions.
//
// Step never fails on a degraded load: rising collision and contact counts
// are the intended signal of an unsafe arrangement.
func (v *Validator) Step(dt float64) (Snapshot, error) {
	if !v.running {
		return Snapshot{}, ErrNotRunning
	}

	scenario := v.policy.Next(v.state.Tick)
	scenarioForce := scenario.force(v.settings.ScenarioForce)

	// Integrate from the previous tick's boxes so the outcome does not
	// depend on placement iteration order.
	prev := make([]geometry.Box, len(v.arr.Placements))
	for i, p := range v.arr.Placements {
		prev[i] = p.Box()
	}

	for i := range v.arr.Placements {
		p := &v.arr.Placements[i]
		id := p.Item.ID

		scale := p.Item.Weight / v.settings.BaselineWeight
		applied := geometry.Vec3{Y: -v.settings.Gravity * scale}.Add(scenarioForce.Scale(scale))
		if p.Item.Fragile {
			// Fragile items are modeled as more responsive to jostling.
			applied = applied.Scale(v.settings.FragileResponse)
		}

		// Height-scaled lateral jitter: items higher in the stack get more
		// leverage, and soft supports below amplify the wobble. Jitter only
		// acts while a maneuver force is active; coasting ticks are purely
		// vertical, so a settled arrangement stays exactly where it rests.
		mag := 0.0
		if scenario != ScenarioNone {
			heightFactor := p.Position.Y / v.vehicle.Height
			mag = v.settings.JitterScale * heightFactor * (1 + v.maxSupportCrush(i, prev))
			applied.X += (v.rng.Float64()*2 - 1) * mag
			applied.Z += (v.rng.Float64()*2 - 1) * mag
		}

		vel := v.velocities[id].Add(applied.Scale(dt))
		vel = vel.Scale(dampingFactor(v.settings.LinearDamping, dt))
		p.Position = p.Position.Add(vel.Scale(dt))

		spin := v.spins[id] + (v.rng.Float64()*2-1)*mag*dt
		spin *= dampingFactor(v.settings.AngularDamping, dt)
		v.spins[id] = spin

		// Items do not fall through the floor or through whatever they were
		// resting on at the start of the tick.
		restY := v.restHeight(i, prev)
		halfH := p.Item.Height / 2
		if p.Position.Y-halfH < restY {
			p.Position.Y = restY + halfH
			if vel.Y < 0 {
				vel.Y = 0
			}
		}
		v.velocities[id] = vel
	}

	v.state.Tick++
	v.state.Scenario = scenario
	v.state.CollisionCount += len(engine.DetectCollisions(v.arr))
	v.state.ContactCount += len(engine.NearContacts(v.arr, v.settings.ContactTolerance))
	v.state.Stability = engine.Stability(v.arr, v.vehicle)
	v.state.AngularVelocity = v.meanSpin()

	return v.snapshot(), nil
}

// StepN runs n ticks of dt and returns the final snapshot.
func (v *Validator) StepN(n int, dt float64) (Snapshot, error) {
	var snap Snapshot
	var err error
	for i := 0; i < n; i++ {
		snap, err = v.Step(dt)
		if err != nil {
			return snap, err
		}
	}
	return snap, nil
}

// State returns the current simulation state.
func (v *Validator) State() State {
	return v.state
}

func (v *Validator) snapshot() Snapshot {
	positions := make(map[string]geometry.Vec3, len(v.arr.Placements))
	for _, p := range v.arr.Placements {
		positions[p.Item.ID] = p.Position
	}
	return Snapshot{Positions: positions, State: v.state}
}

// restHeight returns the highest surface under item i that it was resting
// on at the start of the tick: the floor, or the top face of any box whose
// footprint overlaps and whose top was at or below the item's bottom.
func (v *Validator) restHeight(i int, prev []geometry.Box) float64 {
	box := prev[i]
	rest := 0.0
	for j, other := range prev {
		if j == i {
			continue
		}
		if !box.OverlapsXZ(other) {
			continue
		}
		if other.Max.Y <= box.Min.Y+v.settings.SupportTolerance && other.Max.Y > rest {
			rest = other.Max.Y
		}
	}
	return rest
}

// maxSupportCrush returns the largest crush factor among the items that
// item i rests on. Crush factor is advisory: a soft support means more
// jitter for whatever sits on it, never a placement failure.
func (v *Validator) maxSupportCrush(i int, prev []geometry.Box) float64 {
	box := prev[i]
	crush := 0.0
	for j, other := range prev {
		if j == i {
			continue
		}
		if !box.OverlapsXZ(other) {
			continue
		}
		gap := box.Min.Y - other.Max.Y
		if gap >= -v.settings.SupportTolerance && gap <= v.settings.SupportTolerance {
			if cf := v.arr.Placements[j].Item.CrushFactor; cf > crush {
				crush = cf
			}
		}
	}
	return crush
}

// meanSpin accumulates in placement order so the float sum is reproducible.
func (v *Validator) meanSpin() float64 {
	if len(v.arr.Placements) == 0 {
		return 0
	}
	var total float64
	for _, p := range v.arr.Placements {
		s := v.spins[p.Item.ID]
		if s < 0 {
			s = -s
		}
		total += s
	}
	return total / float64(len(v.arr.Placements))
}

func dampingFactor(damping, dt float64) float64 {
	f := 1 - damping*dt
	if f < 0 {
		return 0
	}
	return f
}
