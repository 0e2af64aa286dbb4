// Package main measures the physics tick cost of each resolution tier on this
// machine, fits a linear cost model and reports the largest tier whose steps
// fit in a frame.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/swarm/config"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Config YAML file (empty = use defaults)")
	ticks := flag.Int("ticks", 120, "Timed ticks per tier")
	outputDir := flag.String("output", "", "Output directory for tiercal.csv (empty = no file)")
	refresh := flag.Float64("refresh", 0, "Display refresh rate in Hz (0 = screen.refresh_rate, else 60)")
	budget := flag.Float64("budget", 0.5, "Fraction of the frame available to physics")
	seed := flag.Int64("seed", 1, "Noise seed")
	flag.Parse()

	if *ticks < 1 {
		log.Fatal("--ticks must be positive")
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	hz := *refresh
	if hz <= 0 {
		hz = cfg.Screen.RefreshRate
	}
	if hz <= 0 {
		hz = 60
	}
	budgetUS := 1e6 / hz * *budget
	stepsPerFrame := cfg.Simulation.StepHz / hz

	var results []TierResult
	for _, width := range cfg.Resolution.Tiers {
		r, err := measureTier(cfg, width, *ticks, *seed)
		if err != nil {
			log.Printf("skipping tier %d: %v", width, err)
			continue
		}
		fmt.Printf("tier %5d: %8d cells  mean %10.1fus  p90 %10.1fus\n", r.Width, r.Cells, r.MeanTickUS, r.P90TickUS)
		results = append(results, r)
	}
	if len(results) == 0 {
		log.Fatal("no tier could be measured")
	}

	model := FitModel(results)
	Annotate(results, model, budgetUS, stepsPerFrame)

	fmt.Printf("\nmodel: %.2fus + %.5fus/cell (R²=%.3f)\n", model.Intercept, model.Slope, model.R2)
	fmt.Printf("budget: %.0fus per frame at %.0fHz, %.2f steps per frame\n", budgetUS, hz, stepsPerFrame)
	if best := LargestFitting(results); best > 0 {
		fmt.Printf("largest tier within budget: %d\n", best)
	} else {
		fmt.Println("no tier fits the budget")
	}

	if *outputDir == "" {
		return
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	path := filepath.Join(*outputDir, "tiercal.csv")
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		log.Fatalf("failed to write %s: %v", path, err)
	}
	fmt.Printf("results written to %s\n", path)
}
