package ctl

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/telephono/persistent-loadout/internal/backup"
)

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Archive and list backups of a model's loadouts",
		Subcommands: []*cli.Command{
			{
				Name:  "create",
				Usage: "Archive the model directory and prune old archives",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "max-age",
						Usage: "delete archives older than this (0 keeps all)",
						Value: backup.DefaultMaxAge,
					},
				},
				Action: backupCreate,
			},
			{
				Name:   "list",
				Usage:  "List archives of the model",
				Action: backupList,
			},
		},
	}
}

func backupService(c *cli.Context) (*backup.Service, error) {
	cfg, dir, err := modelDir(c)
	if err != nil {
		return nil, err
	}
	return backup.New(dir, filepath.Join(cfg.BaseDir(), "backups"), c.String("model")), nil
}

func backupCreate(c *cli.Context) error {
	svc, err := backupService(c)
	if err != nil {
		return err
	}
	file, err := svc.Create(time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "created %s\n", file)
	if maxAge := c.Duration("max-age"); maxAge > 0 {
		if n := svc.Prune(maxAge); n > 0 {
			fmt.Fprintf(c.App.Writer, "pruned %d old archive(s)\n", n)
		}
	}
	return nil
}

func backupList(c *cli.Context) error {
	svc, err := backupService(c)
	if err != nil {
		return err
	}
	files, err := svc.List()
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(c.App.Writer, "no archives in %s\n", svc.Dir())
		return nil
	}
	for _, f := range files {
		fmt.Fprintln(c.App.Writer, f)
	}
	return nil
}
