package main

import (
	"context"
	"embed"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatalf("%v", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "succession",
		Usage: "settle French estates: liquidation, devolution, reserve and inheritance tax",
		Commands: []*cli.Command{
			serveCommand(),
			calculateCommand(),
			migrateCommand(),
			legislationCommand(),
		},
	}
}

func migrations() (fs.FS, error) {
	return fs.Sub(migrationsFS, "migrations")
}
