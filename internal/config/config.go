// Package config holds the engine's settings and loads them from a YAML
// file and LOADOUT_* environment variables, layered over Default().
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/telephono/persistent-loadout/internal/livery"
	"github.com/telephono/persistent-loadout/internal/store"
)

// Default configuration values.
const (
	DefaultOutputRoot       = "Output"
	DefaultPluginDir        = "B720"
	DefaultFileName         = "persistent-loadout.json"
	DefaultActivationFrames = 60
	DefaultSimAddr          = "127.0.0.1:8720"
	DefaultFrameRate        = 20
)

// Config is the root configuration.
type Config struct {
	Store            StoreConfig    `koanf:"store"`
	Aircraft         AircraftConfig `koanf:"aircraft"`
	ActivationFrames int            `koanf:"activation_frames"`
	Log              LogConfig      `koanf:"log"`
	Sim              SimConfig      `koanf:"sim"`
}

// StoreConfig locates loadout files:
// <output_root>/<plugin_dir>/<model dir>/[<livery>/]<file_name>.
type StoreConfig struct {
	OutputRoot string `koanf:"output_root"`
	PluginDir  string `koanf:"plugin_dir"`
	FileName   string `koanf:"file_name"`
	Layout     string `koanf:"layout"`
}

// AircraftConfig gates which aircraft the engine activates for.
type AircraftConfig struct {
	// ICAO lists accepted acf_ICAO values.
	ICAO []string `koanf:"icao"`
	// Models maps .acf file stems to the model directory used for storage.
	Models map[string]string `koanf:"models"`
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// SimConfig configures the simulator harness.
type SimConfig struct {
	Addr      string  `koanf:"addr"`
	FrameRate float64 `koanf:"frame_rate"`
	Scenario  string  `koanf:"scenario"`
}

// Default returns the built-in configuration for the Shenshee B720.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			OutputRoot: DefaultOutputRoot,
			PluginDir:  DefaultPluginDir,
			FileName:   DefaultFileName,
			Layout:     string(store.LayoutShared),
		},
		Aircraft: AircraftConfig{
			ICAO: []string{"B720"},
			Models: map[string]string{
				"Boeing_720":  "720",
				"Boeing_720B": "720B",
			},
		},
		ActivationFrames: DefaultActivationFrames,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Sim: SimConfig{
			Addr:      DefaultSimAddr,
			FrameRate: DefaultFrameRate,
		},
	}
}

// Validate checks the configuration for values the engine cannot use.
func (c *Config) Validate() error {
	var errs []error
	if _, err := store.ParseLayout(c.Store.Layout); err != nil {
		errs = append(errs, err)
	}
	if c.Store.FileName == "" || filepath.Base(c.Store.FileName) != c.Store.FileName {
		errs = append(errs, fmt.Errorf("config: store.file_name %q must be a plain file name", c.Store.FileName))
	}
	if c.ActivationFrames < 1 {
		errs = append(errs, fmt.Errorf("config: activation_frames must be positive, got %d", c.ActivationFrames))
	}
	if len(c.Aircraft.Models) == 0 {
		errs = append(errs, errors.New("config: aircraft.models must name at least one model"))
	}
	if c.Sim.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("config: sim.frame_rate must be positive, got %v", c.Sim.FrameRate))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Layout returns the validated store layout.
func (c *Config) Layout() store.Layout {
	layout, err := store.ParseLayout(c.Store.Layout)
	if err != nil {
		return store.LayoutShared
	}
	return layout
}

// BaseDir returns <output_root>/<plugin_dir>.
func (c *Config) BaseDir() string {
	return filepath.Join(c.Store.OutputRoot, c.Store.PluginDir)
}

// LocatorOptions returns the livery locator settings for this configuration.
func (c *Config) LocatorOptions() livery.Options {
	return livery.Options{
		BaseDir:  c.BaseDir(),
		FileName: c.Store.FileName,
		Layout:   c.Layout(),
		ICAO:     c.Aircraft.ICAO,
		Models:   c.Aircraft.Models,
	}
}

// NewLogger builds a slog.Logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", s)
}
