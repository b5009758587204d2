// Package ctl implements loadoutctl, a tool for inspecting and pruning
// stored loadouts outside the simulator.
package ctl

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"sort"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/telephono/persistent-loadout/internal/config"
	"github.com/telephono/persistent-loadout/internal/models"
	"github.com/telephono/persistent-loadout/internal/store"
)

// Build information, set via ldflags.
var Version = "dev"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "loadoutctl",
		Usage:   "inspect and prune persisted aircraft loadouts",
		Version: Version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			listCommand(),
			showCommand(),
			deleteCommand(),
			backupCommand(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "config file (YAML)",
			EnvVars: []string{"LOADOUT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "aircraft model directory, e.g. 720 or 720B",
			Value:   "720",
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List liveries with a stored loadout",
		Action: func(c *cli.Context) error {
			st, err := openStore(c)
			if err != nil {
				return err
			}
			keys, err := st.List()
			if err != nil {
				return err
			}
			if len(keys) == 0 {
				fmt.Fprintln(c.App.Writer, "no stored loadouts")
				return nil
			}
			for _, k := range keys {
				fmt.Fprintf(c.App.Writer, "%s\t%s\n", k, st.Path(k))
			}
			return nil
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show the loadout stored for a livery",
		ArgsUsage: "LIVERY",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "output format: json, yaml",
				Value:   "json",
			},
		},
		Action: func(c *cli.Context) error {
			key, err := liveryArg(c)
			if err != nil {
				return err
			}
			format := c.String("format")
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}
			st, err := openStore(c)
			if err != nil {
				return err
			}
			l, err := st.Load(key)
			if err != nil {
				return err
			}
			if l == nil {
				return fmt.Errorf("no loadout stored for livery %q", key)
			}
			return printLoadout(c, format, *l)
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete the loadout stored for a livery",
		ArgsUsage: "LIVERY",
		Action: func(c *cli.Context) error {
			key, err := liveryArg(c)
			if err != nil {
				return err
			}
			st, err := openStore(c)
			if err != nil {
				return err
			}
			if err := st.Delete(key); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "deleted %s\n", key)
			return nil
		},
	}
}

func liveryArg(c *cli.Context) (models.LiveryKey, error) {
	if c.NArg() != 1 {
		return "", fmt.Errorf("expected exactly one LIVERY argument, got %d", c.NArg())
	}
	return models.NewLiveryKey(c.Args().First()), nil
}

// openStore opens the store of the --model directory using the configured
// layout and paths.
func openStore(c *cli.Context) (store.Store, error) {
	cfg, dir, err := modelDir(c)
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Layout(), dir, cfg.Store.FileName)
}

// modelDir loads the configuration and resolves the --model directory.
func modelDir(c *cli.Context) (*config.Config, string, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, "", err
	}
	model := c.String("model")
	known := make([]string, 0, len(cfg.Aircraft.Models))
	for _, dir := range cfg.Aircraft.Models {
		known = append(known, dir)
	}
	if !slices.Contains(known, model) {
		sort.Strings(known)
		return nil, "", fmt.Errorf("unknown model %q (configured: %v)", model, known)
	}
	return cfg, filepath.Join(cfg.BaseDir(), model), nil
}

func printLoadout(c *cli.Context, format string, l models.Loadout) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(c.App.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(l)
}
