package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Simulation.Mode != "adaptive" {
		t.Errorf("Mode = %q, want adaptive", cfg.Simulation.Mode)
	}
	if cfg.Derived.Step != time.Second/60 {
		t.Errorf("Derived.Step = %v, want %v", cfg.Derived.Step, time.Second/60)
	}
	if cfg.Derived.MaxAccumulation != 200*time.Millisecond {
		t.Errorf("Derived.MaxAccumulation = %v, want 200ms", cfg.Derived.MaxAccumulation)
	}
	if cfg.Forces.Damping != 0.92 || cfg.Forces.Spring != 0.05 || cfg.Forces.Speed != 0.6 {
		t.Errorf("force defaults = %+v", cfg.Forces)
	}
	if cfg.Simulation.MinCount != 64 {
		t.Errorf("MinCount = %d, want 64", cfg.Simulation.MinCount)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	data := []byte("simulation:\n  mode: static\n  static_width: 128\ndevice:\n  memory_budget_mb: 64\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Simulation.Mode != "static" || cfg.Simulation.StaticWidth != 128 {
		t.Errorf("simulation = %+v", cfg.Simulation)
	}
	if cfg.Derived.MemoryBudget != 64<<20 {
		t.Errorf("MemoryBudget = %d, want %d", cfg.Derived.MemoryBudget, 64<<20)
	}
	// Untouched fields keep their defaults.
	if cfg.Simulation.StepHz != 60 {
		t.Errorf("StepHz = %v, want 60", cfg.Simulation.StepHz)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown mode", "simulation:\n  mode: turbo\n"},
		{"descending tiers", "resolution:\n  tiers: [256, 128]\n"},
		{"inverted fractions", "resolution:\n  high_fraction: 0.5\n  low_fraction: 0.8\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Forces.Shape = "galaxy"

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if got.Forces.Shape != "galaxy" {
		t.Errorf("Shape = %q, want galaxy", got.Forces.Shape)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swarm.yaml")
	if err := os.WriteFile(path, []byte("forces:\n  shape: sphere\n"), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 4)
	if err := Watch(ctx, path, func(c *Config) { changed <- c }); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(path, []byte("forces:\n  shape: torus\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-changed:
		if cfg.Forces.Shape != "torus" {
			t.Errorf("reloaded Shape = %q, want torus", cfg.Forces.Shape)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reload within 5s")
	}
}
