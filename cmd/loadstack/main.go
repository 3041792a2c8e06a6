// LoadStack — vehicle load placement and stress-scoring engine.
//
// Reads a cargo manifest (CSV or Excel), places the items inside the
// vehicle envelope, scores the arrangement, and optionally stress-tests it
// with the dynamics validator. Results are written to stdout as JSON;
// import diagnostics go to stderr.
//
// Build:
//
//	go build -o loadstack ./cmd/loadstack
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/piwi3910/LoadStack/internal/engine"
	"github.com/piwi3910/LoadStack/internal/importer"
	"github.com/piwi3910/LoadStack/internal/model"
	"github.com/piwi3910/LoadStack/internal/project"
	"github.com/piwi3910/LoadStack/internal/sim"
)

// output is the JSON document written to stdout.
type output struct {
	Result  model.PlaceResult  `json:"result"`
	Scores  model.ScoreTriple  `json:"scores"`
	Safety  model.SafetyReport `json:"safety"`
	SimRun  *sim.Snapshot      `json:"simulation,omitempty"`
	Compare []compareLine      `json:"comparison,omitempty"`
}

type compareLine struct {
	Name     string            `json:"name"`
	Scores   model.ScoreTriple `json:"scores"`
	Placed   int               `json:"placed"`
	Unplaced int               `json:"unplaced"`
}

func main() {
	// A .env next to the binary may override the config location.
	_ = godotenv.Load()

	manifest := flag.String("manifest", "", "cargo manifest file (.csv or .xlsx)")
	width := flag.Float64("width", 8, "vehicle width in feet")
	length := flag.Float64("length", 20, "vehicle length in feet")
	height := flag.Float64("height", 8, "vehicle height in feet")
	maxWeight := flag.Float64("maxweight", 30000, "vehicle weight capacity in pounds")
	ticks := flag.Int("ticks", 0, "dynamics validator ticks to run after placement")
	dt := flag.Float64("dt", 1.0/30, "validator tick length in seconds")
	compare := flag.Bool("compare", false, "compare placement under default what-if scenarios")
	configPath := flag.String("config", "", "app config path (default ~/.loadstack/config.json)")
	flag.Parse()

	if *manifest == "" {
		fmt.Fprintln(os.Stderr, "loadstack: -manifest is required")
		flag.Usage()
		os.Exit(2)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = os.Getenv("LOADSTACK_CONFIG")
	}
	if cfgPath == "" {
		cfgPath = project.DefaultConfigPath()
	}
	config, err := project.LoadAppConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loadstack: cannot read config %s: %v\n", cfgPath, err)
		os.Exit(1)
	}
	settings := model.DefaultSettings()
	config.ApplyToSettings(&settings)

	items, err := importManifest(*manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loadstack: %v\n", err)
		os.Exit(1)
	}

	vehicle := model.NewVehicle(filepath.Base(*manifest), *width, *length, *height, *maxWeight)

	opt := engine.New(settings)
	result, placeErr := opt.Place(items, vehicle)
	if placeErr != nil {
		// Per-item infeasibility does not abort the batch; report and continue.
		fmt.Fprintf(os.Stderr, "loadstack: %v\n", placeErr)
	}

	out := output{
		Result: result,
		Scores: engine.Score(result.Arrangement, vehicle, settings),
		Safety: engine.SafetyChecklist(result.Arrangement, vehicle, settings),
	}

	if *ticks > 0 {
		validator := sim.New(settings, vehicle)
		validator.Start(result.Arrangement, sim.ScriptedPolicy{
			Sequence: []sim.Scenario{
				sim.ScenarioAccelerate, sim.ScenarioNone, sim.ScenarioBrake,
				sim.ScenarioTurnLeft, sim.ScenarioNone, sim.ScenarioTurnRight,
			},
			Hold: 30,
		})
		snap, err := validator.StepN(*ticks, *dt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loadstack: simulation: %v\n", err)
			os.Exit(1)
		}
		validator.Stop()
		out.SimRun = &snap
	}

	if *compare {
		for _, cr := range engine.CompareScenarios(engine.BuildDefaultScenarios(settings), items, vehicle) {
			out.Compare = append(out.Compare, compareLine{
				Name:     cr.Scenario.Name,
				Scores:   cr.Scores,
				Placed:   cr.PlacedCount,
				Unplaced: cr.UnplacedCount,
			})
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "loadstack: %v\n", err)
		os.Exit(1)
	}
}

// importManifest dispatches on the file extension and surfaces importer
// diagnostics on stderr.
func importManifest(path string) ([]model.Item, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		res = importer.ImportExcel(path)
	case ".csv", ".txt":
		res = importer.ImportCSV(path)
	default:
		return nil, fmt.Errorf("unsupported manifest format %q", filepath.Ext(path))
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "loadstack: warning: %s\n", w)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "loadstack: error: %s\n", e)
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("no importable items in %s", path)
	}
	return res.Items, nil
}
