// Command loadout-sim runs the persistent loadout engine against a simulated
// X-Plane host described by a YAML scenario file. Editing the scenario while
// the simulator runs changes the live state; changing its livery triggers a
// livery swap. The inspection API shows what the engine did.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/telephono/persistent-loadout/internal/api"
	"github.com/telephono/persistent-loadout/internal/bridge"
	"github.com/telephono/persistent-loadout/internal/config"
	"github.com/telephono/persistent-loadout/internal/controller"
	"github.com/telephono/persistent-loadout/internal/events"
	"github.com/telephono/persistent-loadout/internal/host"
	"github.com/telephono/persistent-loadout/internal/hostsim"
	"github.com/telephono/persistent-loadout/internal/livery"
	"github.com/telephono/persistent-loadout/internal/metrics"
)

func main() {
	var (
		cfgPath  = flag.String("config", "", "config file (YAML)")
		scenario = flag.String("scenario", "", "scenario file (overrides sim.scenario)")
		addr     = flag.String("addr", "", "inspection API listen address (overrides sim.addr)")
		debug    = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("cannot load config", "err", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}
	if *scenario != "" {
		cfg.Sim.Scenario = *scenario
	}
	if *addr != "" {
		cfg.Sim.Addr = *addr
	}
	slog.SetDefault(cfg.Log.NewLogger(os.Stderr))

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Simulated host
	sc := hostsim.DefaultScenario()
	if cfg.Sim.Scenario != "" {
		if sc, err = hostsim.LoadScenario(cfg.Sim.Scenario); err != nil {
			slog.Error("cannot load scenario", "err", err)
			os.Exit(1)
		}
	}
	mock := host.NewMock()
	sc.Apply(mock)
	loop := host.NewFrameLoop(nil)

	// Engine
	bus := events.NewBus()
	collector := metrics.New(bus)
	collector.Watch(ctx, bus)
	loc := livery.New(mock, cfg.LocatorOptions())
	ctrl := controller.New(mock, loop, loc, bus, controller.Options{ActivationFrames: cfg.ActivationFrames})
	loop.SetCallback(ctrl.FlightLoop)

	runner := hostsim.NewRunner(ctrl, loop, cfg.Sim.FrameRate)

	if cfg.Sim.Scenario != "" {
		watcher, err := hostsim.NewWatcher(cfg.Sim.Scenario, mock, sc, runner)
		if err != nil {
			slog.Warn("cannot watch scenario, edits will be ignored", "err", err)
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
		}
	}

	// HTTP server
	srv := &http.Server{
		Addr:         cfg.Sim.Addr,
		Handler:      api.NewRouter(ctrl, loc, bridge.New(mock), bus, collector.Handler()),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		slog.Info("inspection API listening", "addr", cfg.Sim.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
		}
	}()

	slog.Info("simulator starting",
		"aircraft", sc.Model,
		"livery", sc.Livery,
		"store", cfg.BaseDir(),
		"layout", cfg.Layout(),
		"rate", cfg.Sim.FrameRate,
	)

	// Run blocks until the shutdown signal, then disables the engine.
	if err := runner.Run(ctx); err != nil {
		slog.Error("plugin not enabled, serving status until shutdown", "err", err)
		<-ctx.Done()
	}

	slog.Info("shutting down...")
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete", "state", ctrl.Status().State)
}
