package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mtlprog/succession/internal/database"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "database-url", Usage: "PostgreSQL URL (overrides DATABASE_URL)"},
			&cli.BoolFlag{Name: "dry-run", Usage: "list pending migrations without applying them"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			pool, err := database.Connect(c.Context, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			fsys, err := migrations()
			if err != nil {
				return err
			}

			if !c.Bool("dry-run") {
				return database.RunMigrations(c.Context, pool, fsys)
			}
			pending, err := database.PendingMigrations(c.Context, pool, fsys)
			if err != nil {
				return err
			}
			for _, file := range pending {
				fmt.Fprintln(c.App.Writer, file)
			}
			return nil
		},
	}
}
