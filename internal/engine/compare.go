package engine

import (
	"fmt"

	"github.com/piwi3910/LoadStack/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.LoadSettings
}

// ComparisonResult holds the placement result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Result        model.PlaceResult
	Scores        model.ScoreTriple
	PlacedCount   int
	UnplacedCount int
}

// CompareScenarios runs placement for each scenario and returns the results
// in scenario order. This enables side-by-side comparison of different
// loading parameters (zone band splits, support tolerance, and so on).
func CompareScenarios(scenarios []ComparisonScenario, items []model.Item, vehicle model.Vehicle) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		opt := New(scenario.Settings)
		result, _ := opt.Place(items, vehicle)

		results = append(results, ComparisonResult{
			Scenario:      scenario,
			Result:        result,
			Scores:        Score(result.Arrangement, vehicle, scenario.Settings),
			PlacedCount:   len(result.Arrangement.Placements),
			UnplacedCount: len(result.Unplaced) + len(result.Infeasible),
		})
	}

	return results
}

// BuildDefaultScenarios generates comparison scenarios based on the current
// settings, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(baseSettings model.LoadSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: baseSettings,
		},
	}

	// Scenario: widen the regular band (smaller frozen/cold bands)
	if baseSettings.Zones.FrozenFraction > 0.15 && baseSettings.Zones.ColdFraction > 0.15 {
		narrow := baseSettings
		narrow.Zones.FrozenFraction = 0.15
		narrow.Zones.ColdFraction = 0.15
		scenarios = append(scenarios, ComparisonScenario{
			Name:     "Narrow Temperature Bands",
			Settings: narrow,
		})
	}

	// Scenario: equal thirds
	thirds := baseSettings
	thirds.Zones.FrozenFraction = 1.0 / 3
	thirds.Zones.ColdFraction = 1.0 / 3
	scenarios = append(scenarios, ComparisonScenario{
		Name:     "Equal Zone Thirds",
		Settings: thirds,
	})

	// Scenario: looser support tolerance
	if baseSettings.SupportTolerance < 0.1 {
		loose := baseSettings
		loose.SupportTolerance = 0.1
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Support Tolerance %.2f ft", loose.SupportTolerance),
			Settings: loose,
		})
	}

	return scenarios
}
