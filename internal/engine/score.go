package engine

import (
	"math"

	"github.com/piwi3910/LoadStack/internal/model"
)

// Stability penalty weights: horizontal centroid deviation costs up to 40
// points (split evenly between the X and Z axes), a high center of gravity
// up to 30.
const (
	horizontalPenaltyMax = 40.0
	verticalPenaltyMax   = 30.0
)

// Score derives the full score triple from an arrangement. It is a pure
// function of the current arrangement: the same input always produces the
// same scores, and mutating the arrangement afterwards does not affect a
// previously returned triple.
func Score(arr model.Arrangement, vehicle model.Vehicle, settings model.LoadSettings) model.ScoreTriple {
	return model.ScoreTriple{
		Stability:    Stability(arr, vehicle),
		Safety:       SafetyChecklist(arr, vehicle, settings).Score,
		Optimization: Optimization(arr, vehicle),
	}
}

// Optimization blends volume and weight utilization, each expressed as a
// percentage and clamped to 100.
func Optimization(arr model.Arrangement, vehicle model.Vehicle) float64 {
	if vehicle.Volume() == 0 || vehicle.MaxWeight == 0 {
		return 0
	}
	volUtil := math.Min(arr.TotalVolume()/vehicle.Volume()*100, 100)
	weightUtil := math.Min(arr.TotalWeight()/vehicle.MaxWeight*100, 100)
	return 0.5*volUtil + 0.5*weightUtil
}

// Stability scores the weighted center of gravity: horizontal deviation
// from the envelope center and overall height both cost points. An empty
// arrangement is trivially stable.
func Stability(arr model.Arrangement, vehicle model.Vehicle) float64 {
	totalWeight := arr.TotalWeight()
	if totalWeight == 0 {
		return 100
	}

	var cx, cy, cz float64
	for _, p := range arr.Placements {
		cx += p.Position.X * p.Item.Weight
		cy += p.Position.Y * p.Item.Weight
		cz += p.Position.Z * p.Item.Weight
	}
	cx /= totalWeight
	cy /= totalWeight
	cz /= totalWeight

	hx := math.Min(math.Abs(cx)/(vehicle.Width/2), 1)
	hz := math.Min(math.Abs(cz)/(vehicle.Length/2), 1)
	vy := math.Min(cy/vehicle.Height, 1)

	score := 100 - (hx+hz)*(horizontalPenaltyMax/2) - vy*verticalPenaltyMax
	return math.Max(score, 0)
}

// SafetyChecklist runs the four safety checks and averages them as
// percentages, reporting which checks failed. A failed weight check caps
// the average at 50 so an overweight load can never look mostly safe.
func SafetyChecklist(arr model.Arrangement, vehicle model.Vehicle, settings model.LoadSettings) model.SafetyReport {
	report := model.SafetyReport{}
	passed := 0

	if arr.TotalWeight() <= vehicle.MaxWeight {
		passed++
	} else {
		report.Failed = append(report.Failed, model.CheckWeightLimit)
	}

	if fragileClear(arr, settings.SupportTolerance) {
		passed++
	} else {
		report.Failed = append(report.Failed, model.CheckFragileClear)
	}

	if stackLimitsRespected(arr, settings.SupportTolerance) {
		passed++
	} else {
		report.Failed = append(report.Failed, model.CheckStackLimits)
	}

	if zonesSeparated(arr, vehicle, settings.Zones) {
		passed++
	} else {
		report.Failed = append(report.Failed, model.CheckZoneSeparation)
	}

	report.Score = float64(passed) / 4 * 100
	for _, f := range report.Failed {
		if f == model.CheckWeightLimit {
			report.Score = math.Min(report.Score, 50)
		}
	}
	return report
}

// fragileClear reports whether no fragile item has anything resting on it.
func fragileClear(arr model.Arrangement, tol float64) bool {
	for _, p := range arr.Placements {
		if p.Item.Fragile && len(RestingOn(p.Item.ID, arr, tol)) > 0 {
			return false
		}
	}
	return true
}

// stackLimitsRespected reports whether no item carries more items directly
// on top of it than its stack limit allows.
func stackLimitsRespected(arr model.Arrangement, tol float64) bool {
	for _, p := range arr.Placements {
		if len(RestingOn(p.Item.ID, arr, tol)) > p.Item.StackLimit {
			return false
		}
	}
	return true
}

// zonesSeparated reports whether every item's Z extent lies entirely within
// the band assigned to its temperature zone.
func zonesSeparated(arr model.Arrangement, vehicle model.Vehicle, zones model.ZoneLayout) bool {
	for _, p := range arr.Placements {
		minZ, maxZ := zones.Band(p.Item.Zone, vehicle)
		box := p.Box()
		if box.Min.Z < minZ-1e-9 || box.Max.Z > maxZ+1e-9 {
			return false
		}
	}
	return true
}

// Scorer memoizes the last score computed for an arrangement identity.
// Scoring is cheap, but the validator recomputes stability every tick and
// collaborators poll on every render; the memo avoids redundant passes when
// nothing changed between reads.
type Scorer struct {
	Settings model.LoadSettings

	lastArr     *model.Arrangement
	lastVehicle model.Vehicle
	lastScore   model.ScoreTriple
	valid       bool
}

func NewScorer(settings model.LoadSettings) *Scorer {
	return &Scorer{Settings: settings}
}

// Score returns the triple for the given arrangement, reusing the previous
// result when called again with the same arrangement pointer and vehicle.
// Call Invalidate after mutating the arrangement in place.
func (s *Scorer) Score(arr *model.Arrangement, vehicle model.Vehicle) model.ScoreTriple {
	if s.valid && s.lastArr == arr && s.lastVehicle == vehicle {
		return s.lastScore
	}
	s.lastArr = arr
	s.lastVehicle = vehicle
	s.lastScore = Score(*arr, vehicle, s.Settings)
	s.valid = true
	return s.lastScore
}

// Invalidate drops the memoized result.
func (s *Scorer) Invalidate() {
	s.valid = false
}
