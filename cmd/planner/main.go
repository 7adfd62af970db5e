package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/dpark/district-planner/internal/config"
	"github.com/dpark/district-planner/internal/dataset"
	"github.com/dpark/district-planner/internal/logging"
	"github.com/dpark/district-planner/internal/metrics"
	"github.com/dpark/district-planner/internal/oracle"
	"github.com/dpark/district-planner/internal/planner"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (defaults applied when empty)")
	flag.Parse()

	log := logging.NewLogger(os.Stdout, nil)

	cfg := config.Default()
	if *configPath != "" {
		cfg = config.Read(*configPath)
	}
	if err := cfg.Validate(); err != nil {
		log.Warn("invalid config", "error", err)
		os.Exit(1)
	}

	ds, err := dataset.LoadFile(cfg.Dataset.Path)
	if err != nil {
		log.Warn("failed to load dataset", "error", err)
		os.Exit(1)
	}
	ds.Tariffs = cfg.TariffTable()
	ds.GridSize = cfg.Grid.Size

	// No road graph is wired (spec §1: loading/caching the OSM road graph is
	// out of scope for this core) — every query falls back to haversine*1.3.
	oc := oracle.New(nil, 10000, log)
	core := planner.New(ds, oc, log)
	m := metrics.New()
	core.SetMetrics(m)

	srv := NewServer(core, m, log)

	fmt.Println("district planner listening on", cfg.Server.Addr)
	log.Info("server starting", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Router()); err != nil {
		log.Warn("server stopped", "error", err)
		os.Exit(1)
	}
}
