package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/succession/internal/config"
	"github.com/mtlprog/succession/internal/database"
	"github.com/mtlprog/succession/internal/domain"
	"github.com/mtlprog/succession/internal/export"
	"github.com/mtlprog/succession/internal/legislation"
	"github.com/mtlprog/succession/internal/succession"
)

const builtinYear = 2024

func calculateCommand() *cli.Command {
	return &cli.Command{
		Name:  "calculate",
		Usage: "settle the estate described by a JSON input file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "simulation input JSON, - for stdin", Value: "-"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, - for stdout", Value: "-"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "json or xlsx", Value: "json"},
			&cli.IntFlag{Name: "year", Usage: "legislation year, 0 for the active one", EnvVars: []string{"LEGISLATION_YEAR"}},
			&cli.StringFlag{Name: "legislation-file", Usage: "YAML legislation tables", EnvVars: []string{"LEGISLATION_FILE"}},
			&cli.StringFlag{Name: "database-url", Usage: "read legislation from PostgreSQL", EnvVars: []string{"DATABASE_URL"}},
		},
		Action: calculate,
	}
}

func calculate(c *cli.Context) error {
	format := c.String("format")
	if format != "json" && format != "xlsx" {
		return fmt.Errorf("unknown format %q, expected json or xlsx", format)
	}

	data, err := readInput(c.String("input"), c.App.Reader)
	if err != nil {
		return err
	}
	var in domain.SimulationInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding simulation input: %w", err)
	}

	provider, closeProvider, err := cliProvider(c.Context, c.String("legislation-file"), c.String("database-url"))
	if err != nil {
		return err
	}
	defer closeProvider()

	out, err := succession.NewService(provider, c.Int("year")).Calculate(c.Context, in)
	if err != nil {
		return err
	}

	return writeOutput(c.String("output"), c.App.Writer, func(w io.Writer) error {
		if format == "xlsx" {
			f, err := export.Workbook(out)
			if err != nil {
				return err
			}
			defer f.Close()
			return f.Write(w)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	})
}

// cliProvider picks the legislation source for one-shot commands: a YAML file,
// then the database, then the built-in tables.
func cliProvider(ctx context.Context, file, databaseURL string) (legislation.Provider, func(), error) {
	switch {
	case file != "":
		p, err := legislation.LoadFile(file)
		return p, func() {}, err
	case databaseURL != "":
		pool, err := database.Connect(ctx, databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return legislation.NewPgRepository(pool), pool.Close, nil
	default:
		slog.Warn("no legislation source configured, using built-in tables", "year", builtinYear)
		return legislation.NewBuiltinProvider(builtinYear), func() {}, nil
	}
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadConfig is shared by the database commands.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Load()
	if c.IsSet("database-url") {
		cfg.DatabaseURL = c.String("database-url")
	}
	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	return cfg, nil
}
