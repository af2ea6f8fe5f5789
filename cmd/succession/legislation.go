package main

import (
	"fmt"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/succession/internal/database"
	"github.com/mtlprog/succession/internal/legislation"
)

func legislationCommand() *cli.Command {
	return &cli.Command{
		Name:  "legislation",
		Usage: "inspect and load fiscal tables",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "print the tables of a legislation year",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "year", Usage: "legislation year, 0 for the active one"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "yaml or json", Value: "yaml"},
					&cli.StringFlag{Name: "legislation-file", Usage: "YAML legislation tables", EnvVars: []string{"LEGISLATION_FILE"}},
					&cli.StringFlag{Name: "database-url", Usage: "read legislation from PostgreSQL", EnvVars: []string{"DATABASE_URL"}},
				},
				Action: showLegislation,
			},
			{
				Name:      "import",
				Usage:     "store the tables of a YAML file in the database",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "database-url", Usage: "PostgreSQL URL (overrides DATABASE_URL)"},
					&cli.BoolFlag{Name: "activate", Usage: "flag the file's active year as active"},
				},
				Action: importLegislation,
			},
		},
	}
}

func showLegislation(c *cli.Context) error {
	provider, closeProvider, err := cliProvider(c.Context, c.String("legislation-file"), c.String("database-url"))
	if err != nil {
		return err
	}
	defer closeProvider()

	snap, err := legislation.Resolve(c.Context, provider, c.Int("year"))
	if err != nil {
		return err
	}

	switch c.String("format") {
	case "yaml":
		return legislation.WriteYAML(c.App.Writer, snap.Year, snap)
	case "json":
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	default:
		return fmt.Errorf("unknown format %q, expected yaml or json", c.String("format"))
	}
}

func importLegislation(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected one legislation file, got %d arguments", c.NArg())
	}
	file, err := legislation.LoadFile(c.Args().First())
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	pool, err := database.Connect(c.Context, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := legislation.NewPgRepository(pool)
	for _, snap := range file.Snapshots() {
		if err := repo.Save(c.Context, snap); err != nil {
			return err
		}
		slog.Info("legislation imported", "year", snap.Year, "name", snap.Name)
	}

	if c.Bool("activate") && file.ActiveYear() > 0 {
		if err := repo.Activate(c.Context, file.ActiveYear()); err != nil {
			return err
		}
		slog.Info("legislation activated", "year", file.ActiveYear())
	}
	return nil
}
