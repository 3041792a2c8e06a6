package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LoadStack/internal/model"
)

func TestAppConfig_SaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	config := model.DefaultAppConfig()
	config.DefaultFrozenFraction = 0.3
	config.DefaultSeed = 99
	config.RecentPlans = []string{"/plans/run1.json"}

	require.NoError(t, SaveAppConfig(path, config))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}

func TestLoadAppConfig_MissingFileReturnsDefaults(t *testing.T) {
	loaded, err := LoadAppConfig(filepath.Join(t.TempDir(), "config.json"))

	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), loaded)
}

func TestLoadAppConfig_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadAppConfig(path)
	assert.Error(t, err)
}

func TestLoadAppConfig_NilRecentPlansBecomesEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"default_seed": 5}`), 0o644))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.NotNil(t, loaded.RecentPlans)
	assert.Empty(t, loaded.RecentPlans)
	assert.EqualValues(t, 5, loaded.DefaultSeed)
}

func TestAppConfig_ApplyToSettings(t *testing.T) {
	config := model.DefaultAppConfig()
	config.DefaultFrozenFraction = 0.4
	config.DefaultSupportTolerance = 0.2
	config.DefaultSeed = 7

	settings := model.DefaultSettings()
	config.ApplyToSettings(&settings)

	assert.InDelta(t, 0.4, settings.Zones.FrozenFraction, 1e-9)
	assert.InDelta(t, 0.2, settings.SupportTolerance, 1e-9)
	assert.EqualValues(t, 7, settings.Seed)
}

func TestPlan_SaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "truck.json")

	plan := model.NewPlan()
	plan.Name = "Morning Route"
	plan.Vehicle = model.NewVehicle("Truck", 8, 20, 8, 30000)
	plan.Items = append(plan.Items, model.NewItem("Crate", 2, 2, 2, 100))

	require.NoError(t, SavePlan(path, plan))

	loaded, err := LoadPlan(path)
	require.NoError(t, err)
	assert.Equal(t, plan.Name, loaded.Name)
	assert.Equal(t, plan.Vehicle, loaded.Vehicle)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, plan.Items[0].ID, loaded.Items[0].ID)
}

func TestLoadPlan_MissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestDefaultConfigPath(t *testing.T) {
	path := DefaultConfigPath()
	assert.Equal(t, "config.json", filepath.Base(path))
	assert.Contains(t, path, ".loadstack")
}
