// Package config carries the teacher's YAML-driven Config/ReadConfig
// pattern (config.go), repurposed from build/profile options to the
// demo binary's dataset path, grid size, RAPTOR bound and tariff table.
// Only cmd/planner consumes this package — the core packages (dataset,
// raptor, planner) always take explicit Go values, never a config struct,
// mirroring the teacher's separation between config.go (package main) and
// its graph/routing libraries.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"golang.org/x/exp/slog"
)

// Config is the top-level demo-binary configuration.
type Config struct {
	Dataset DatasetOptions `yaml:"dataset"`
	Grid    GridOptions    `yaml:"grid"`
	Raptor  RaptorOptions  `yaml:"raptor"`
	Tariffs TariffOptions  `yaml:"tariffs"`
	Server  ServerOptions  `yaml:"server"`
}

// DatasetOptions points at the prebuilt routing dataset this core consumes
// (spec §1: ingestion is an external collaborator — the demo binary only
// loads an already-built file).
type DatasetOptions struct {
	Path string `yaml:"path"`
}

// GridOptions configures C3's zone grid (spec §3, default G=30).
type GridOptions struct {
	Size int `yaml:"size"`
}

// RaptorOptions holds C4's round cap (spec §4.4, default K_max=4). Validate
// checks it; cmd/planner does not pass it on, and the planner always runs
// RAPTOR with a round cap of 4.
type RaptorOptions struct {
	KMax int `yaml:"k-max"`
}

// TariffOptions overrides the data-driven tariff constants (spec §9 Open
// Questions: "keep them data-driven"). Zero values fall back to
// dataset.DefaultTariffTable.
type TariffOptions struct {
	BikeUnlock           int64 `yaml:"bike-unlock"`
	KickboardUnlock      int64 `yaml:"kickboard-unlock"`
	KickboardPerMinute   int64 `yaml:"kickboard-per-minute"`
	EBikeUnlock          int64 `yaml:"ebike-unlock"`
	EBikePerMinute       int64 `yaml:"ebike-per-minute"`
	TransitFlat          int64 `yaml:"transit-flat"`
	HybridSurchargePerKm int64 `yaml:"hybrid-surcharge-per-km"`
}

// ServerOptions configures cmd/planner's HTTP listener.
type ServerOptions struct {
	Addr string `yaml:"addr"`
}

// Default returns the spec's documented defaults (§3, §4.4, §6).
func Default() Config {
	return Config{
		Dataset: DatasetOptions{Path: "dataset.yaml"},
		Grid:    GridOptions{Size: 30},
		Raptor:  RaptorOptions{KMax: 4},
		Tariffs: TariffOptions{
			BikeUnlock:           1000,
			KickboardUnlock:      1200,
			KickboardPerMinute:   150,
			EBikeUnlock:          1500,
			EBikePerMinute:       180,
			TransitFlat:          1370,
			HybridSurchargePerKm: 100,
		},
		Server: ServerOptions{Addr: ":8080"},
	}
}

// Read loads and parses a YAML config file, panicking on failure the way
// the teacher's ReadConfig does — this is a startup-time fatal path, not
// something callers are expected to recover from.
func Read(file string) Config {
	slog.Info("reading config file", "path", file)
	data, err := os.ReadFile(file)
	if err != nil {
		slog.Error("failed to read config file: " + err.Error())
		panic(err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		slog.Error("failed to parse config file: " + err.Error())
		panic(err)
	}
	return cfg
}

// Validate reports a descriptive error for an empty dataset path, a
// non-positive grid size or a non-positive K_max.
func (c Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("config: dataset.path is required")
	}
	if c.Grid.Size <= 0 {
		return fmt.Errorf("config: grid.size must be positive, got %d", c.Grid.Size)
	}
	if c.Raptor.KMax <= 0 {
		return fmt.Errorf("config: raptor.k-max must be positive, got %d", c.Raptor.KMax)
	}
	return nil
}
