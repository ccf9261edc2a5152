package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/brickvale/homebuyer/internal/affordability"
	"github.com/brickvale/homebuyer/internal/clock"
	"github.com/brickvale/homebuyer/internal/config"
	"github.com/brickvale/homebuyer/internal/jobsearch"
	"github.com/brickvale/homebuyer/internal/landregistry"
	"github.com/brickvale/homebuyer/internal/menu"
	"github.com/brickvale/homebuyer/internal/mortgage"
	"github.com/brickvale/homebuyer/internal/observability"
	"github.com/brickvale/homebuyer/internal/propertyfeeds"
	"github.com/brickvale/homebuyer/internal/rates"
	"github.com/brickvale/homebuyer/internal/scheduler"
	"github.com/brickvale/homebuyer/internal/server"
	"github.com/brickvale/homebuyer/internal/stampduty"
	"github.com/brickvale/homebuyer/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	cli := flag.Bool("cli", false, "run the interactive terminal menu instead of the HTTP server")
	flag.Parse()

	if *cli {
		runMenu()
		return
	}

	fx.New(
		coreModules(),
		scheduler.Module,
		server.Module,
	).Run()
}

// coreModules wires everything short of the outer surfaces, so the
// HTTP server and the terminal menu share one object graph.
func coreModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		clock.Module,
		db.Module,
		fx.Provide(registerSnowflake),

		mortgage.Module,
		stampduty.Module,
		affordability.Module,
		rates.Module,
		landregistry.Module,
		propertyfeeds.Module,
		jobsearch.Module,
	)
}

func runMenu() {
	var m *menu.Menu
	app := fx.New(
		coreModules(),
		fx.NopLogger,
		fx.Provide(func(p menu.Params) *menu.Menu {
			return menu.New(p, os.Stdin, os.Stdout)
		}),
		fx.Populate(&m),
	)

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}
	runErr := m.Run(ctx)
	if err := app.Stop(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown failed: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "menu failed: %v\n", runErr)
		os.Exit(1)
	}
}

func registerSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
