package sim

import (
	"math/rand"

	"github.com/piwi3910/LoadStack/internal/geometry"
)

// Scenario identifies the vehicle maneuver whose pseudo-force acts on the
// cargo during a tick. At most one scenario is active per tick; gravity is
// always applied while the simulation runs.
type Scenario int

const (
	ScenarioNone Scenario = iota // Coasting, gravity only
	ScenarioAccelerate
	ScenarioBrake
	ScenarioTurnLeft
	ScenarioTurnRight
)

func (s Scenario) String() string {
	switch s {
	case ScenarioAccelerate:
		return "accelerating"
	case ScenarioBrake:
		return "braking"
	case ScenarioTurnLeft:
		return "turning left"
	case ScenarioTurnRight:
		return "turning right"
	default:
		return "coasting"
	}
}

// force returns the pseudo-force direction acting on the cargo, scaled by
// magnitude. Acceleration throws cargo toward the rear door (+Z), braking
// toward the front (-Z), turns sideways along X.
func (s Scenario) force(magnitude float64) geometry.Vec3 {
	switch s {
	case ScenarioAccelerate:
		return geometry.Vec3{Z: magnitude}
	case ScenarioBrake:
		return geometry.Vec3{Z: -magnitude}
	case ScenarioTurnLeft:
		return geometry.Vec3{X: magnitude}
	case ScenarioTurnRight:
		return geometry.Vec3{X: -magnitude}
	default:
		return geometry.Vec3{}
	}
}

// ScenarioPolicy supplies the active scenario for each tick. Policies are
// injected by the caller so the validator itself stays deterministic and
// testable; tests use a fixed ScriptedPolicy.
type ScenarioPolicy interface {
	Next(tick int) Scenario
}

// ScriptedPolicy cycles through a fixed sequence, holding each entry for
// Hold ticks. A nil or empty sequence means gravity only.
type ScriptedPolicy struct {
	Sequence []Scenario
	Hold     int
}

func (p ScriptedPolicy) Next(tick int) Scenario {
	if len(p.Sequence) == 0 {
		return ScenarioNone
	}
	hold := p.Hold
	if hold < 1 {
		hold = 1
	}
	return p.Sequence[(tick/hold)%len(p.Sequence)]
}

// RandomPolicy draws scenarios from a seeded source, holding each for Hold
// ticks. The seed makes runs reproducible.
type RandomPolicy struct {
	Hold int
	rng  *rand.Rand

	current Scenario
	until   int
}

func NewRandomPolicy(seed int64, hold int) *RandomPolicy {
	if hold < 1 {
		hold = 1
	}
	return &RandomPolicy{Hold: hold, rng: rand.New(rand.NewSource(seed))}
}

func (p *RandomPolicy) Next(tick int) Scenario {
	if tick >= p.until {
		p.current = Scenario(p.rng.Intn(5))
		p.until = tick + p.Hold
	}
	return p.current
}
