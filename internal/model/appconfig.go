package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Default placement and validator settings applied to new plans
	DefaultFrozenFraction   float64 `json:"default_frozen_fraction"`
	DefaultColdFraction     float64 `json:"default_cold_fraction"`
	DefaultSupportTolerance float64 `json:"default_support_tolerance"`
	DefaultContactTolerance float64 `json:"default_contact_tolerance"`
	DefaultScenarioForce    float64 `json:"default_scenario_force"`
	DefaultJitterScale      float64 `json:"default_jitter_scale"`
	DefaultSeed             int64   `json:"default_seed"`

	// Application preferences
	RecentPlans []string `json:"recent_plans"`
}

// DefaultAppConfig returns an AppConfig populated with the values from
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultFrozenFraction:   defaults.Zones.FrozenFraction,
		DefaultColdFraction:     defaults.Zones.ColdFraction,
		DefaultSupportTolerance: defaults.SupportTolerance,
		DefaultContactTolerance: defaults.ContactTolerance,
		DefaultScenarioForce:    defaults.ScenarioForce,
		DefaultJitterScale:      defaults.JitterScale,
		DefaultSeed:             defaults.Seed,
		RecentPlans:             []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into a
// LoadSettings struct. Used when creating a new plan so it inherits the
// user's saved defaults.
func (c AppConfig) ApplyToSettings(s *LoadSettings) {
	s.Zones.FrozenFraction = c.DefaultFrozenFraction
	s.Zones.ColdFraction = c.DefaultColdFraction
	s.SupportTolerance = c.DefaultSupportTolerance
	s.ContactTolerance = c.DefaultContactTolerance
	s.ScenarioForce = c.DefaultScenarioForce
	s.JitterScale = c.DefaultJitterScale
	s.Seed = c.DefaultSeed
}
