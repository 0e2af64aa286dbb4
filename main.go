package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/swarm/config"
	"github.com/pthm-cable/swarm/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults; watched for changes)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for particle buffer snapshots")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	stateDir := flag.String("state-dir", "", "Directory for the tier hint (overrides resolution.state_dir)")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (overrides telemetry.metrics_addr)")
	seed := flag.Int64("seed", 0, "Noise seed (0 = config seed, else time-based)")
	maxTicks := flag.Uint64("max-ticks", 0, "Stop after N physics steps (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Simulation.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:        rngSeed,
		Headless:    *headless,
		LogStats:    *logStats,
		ConfigPath:  *configPath,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
		StateDir:    *stateDir,
		MetricsAddr: *metricsAddr,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g, err := game.NewGame(cfg, opts)
		if err != nil {
			slog.Error("failed to start", "error", err)
			os.Exit(1)
		}

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
		)

		code := 0
		for {
			if err := g.UpdateHeadless(); err != nil {
				slog.Error("simulation stopped", "error", err)
				code = 1
				break
			}
			if *maxTicks > 0 && g.Tick() >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				break
			}
		}
		g.Unload()
		os.Exit(code)
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Swarm")
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		rl.CloseWindow()
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	code := 0
	for !rl.WindowShouldClose() {
		if err := g.Update(); err != nil {
			slog.Error("simulation stopped", "error", err)
			code = 1
			break
		}
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			break
		}
	}
	g.Unload()
	rl.CloseWindow()
	os.Exit(code)
}
