// SPDX-FileCopyrightText: 2025 The Libgallery Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the libgallery command-line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/janderssonse/libgallery/internal/adapters/network"
	"github.com/janderssonse/libgallery/internal/adapters/platform"
	"github.com/janderssonse/libgallery/internal/catalog"
	"github.com/janderssonse/libgallery/internal/config"
	"github.com/janderssonse/libgallery/internal/console"
	"github.com/janderssonse/libgallery/internal/logging"
	"github.com/janderssonse/libgallery/internal/tui"
	"github.com/janderssonse/libgallery/internal/tui/models"
	"github.com/urfave/cli/v3"
)

// Version is set at build time with -ldflags "-X".
var Version = "" //nolint:gochecknoglobals

// CLI wires configuration, output and the subcommands together.
type CLI struct {
	app *cli.Command
	out *console.OutputState
	cfg config.Config

	verbose    bool
	json       bool
	plain      bool
	dryRun     bool
	timeout    time.Duration
	configPath string
	logLevel   string

	// environ replaces the process environment when non-nil.
	environ []string
	// logPath receives the log while the gallery owns the terminal.
	logPath string
	// runTUI starts the interactive gallery.
	runTUI func(ctx context.Context, opts tui.Options) error
	// interactive reports whether prompts may be shown.
	interactive func() bool
}

// NewCLI creates the command tree writing to the process streams.
func NewCLI() *CLI {
	return newCLI(console.DefaultOutput, nil)
}

func newCLI(out *console.OutputState, environ []string) *CLI {
	app := &CLI{
		out:     out,
		environ: environ,
		logPath: config.DefaultLogPath(),
		runTUI: func(ctx context.Context, opts tui.Options) error {
			return tui.NewApp(ctx, opts).Run(ctx)
		},
		interactive: func() bool {
			return out.IsTTY(os.Stdin) && out.IsTTY(out.Out)
		},
	}

	app.app = &cli.Command{
		Name:    config.AppName,
		Usage:   "Browse, search and share drawing libraries from the terminal",
		Version: getVersion(),
		Suggest: true,
		Description: `Streams the public library catalog into a searchable gallery.

Run without a command to open the interactive gallery.

EXAMPLES:
  libgallery                              # Open the gallery
  libgallery list --query arrows          # Search from scripts
  libgallery list --sort downloadsTotal --json
  libgallery link misc-arrows --open      # Send a library to the app
  libgallery convert libraries.json       # Produce libraries.jsonl.json`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "show progress messages to stderr",
				Aliases:     []string{"v"},
				Destination: &app.verbose,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output structured JSON results",
				Aliases:     []string{"j"},
				Destination: &app.json,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "output plain text without formatting for scripts",
				Destination: &app.plain,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "timeout for network operations (0 = no timeout, default from config)",
				Destination: &app.timeout,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "configuration file",
				Value:       config.DefaultConfigPath(),
				Destination: &app.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level: debug, info, warn, error",
				Destination: &app.logLevel,
			},
			&cli.StringFlag{Name: "catalog", Usage: "catalog URL or path"},
			&cli.StringFlag{Name: "stats", Usage: "download statistics URL or path"},
			&cli.StringFlag{Name: "referrer", Usage: "application that receives libraries"},
			&cli.StringFlag{Name: "token", Usage: "token passed through to the application"},
			&cli.BoolFlag{Name: "use-hash", Usage: "pass link parameters in the URL fragment"},
			&cli.StringFlag{Name: "theme", Usage: "gallery theme: dark or light"},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "log browser commands instead of running them",
				Destination: &app.dryRun,
			},
		},
		Before:   app.initConfig,
		Action:   app.defaultAction,
		Commands: app.createCommands(),
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// App returns the root command.
func App() *cli.Command {
	return NewCLI().app
}

func (app *CLI) createCommands() []*cli.Command {
	return []*cli.Command{
		app.createListCommand(),
		app.createLinkCommand(),
		app.createConvertCommand(),
		app.createSortsCommand(),
		app.createVersionCommand(),
	}
}

// initConfig resolves settings from file, environment and flags.
func (app *CLI) initConfig(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if app.json && app.plain {
		return ctx, NewExitError(ExitUsageError, "cannot use both --json and --plain flags simultaneously", nil)
	}

	app.out.SetMode(app.verbose, app.json, app.plain)
	logging.UseWriter(app.out.Err)

	cfg, err := config.Load(config.LoadOptions{
		Path:     app.configPath,
		Required: cmd.IsSet("config"),
		DotEnv:   ".env",
		Environ:  app.environ,
	})
	if err != nil {
		return ctx, NewExitError(ExitConfigError, "failed to load configuration", err)
	}

	app.applyFlags(cmd, &cfg)

	if err := cfg.Validate(); err != nil {
		return ctx, NewExitError(ExitUsageError, "invalid option", err)
	}

	level := cfg.LogLevel
	if app.verbose {
		level = "debug"
	}

	if err := logging.SetLogLevel(level); err != nil {
		return ctx, NewExitError(ExitConfigError, "invalid log level", err)
	}

	app.cfg = cfg

	return ctx, nil
}

func (app *CLI) applyFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("timeout") {
		cfg.TimeoutSeconds = int(app.timeout / time.Second)
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = app.logLevel
	}

	texts := map[string]*string{
		"catalog":  &cfg.CatalogURL,
		"stats":    &cfg.StatsURL,
		"referrer": &cfg.Referrer,
		"token":    &cfg.Token,
		"theme":    &cfg.Theme,
	}

	for name, target := range texts {
		if cmd.IsSet(name) {
			*target = cmd.String(name)
		}
	}

	if cmd.IsSet("use-hash") {
		cfg.UseHash = cmd.Bool("use-hash")
	}
}

// defaultAction opens the gallery, logging to a file while it owns the
// terminal.
func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return NewExitError(ExitUsageError,
			fmt.Sprintf("'%s' is not a command, run '%s --help'", cmd.Args().First(), config.AppName), nil)
	}

	closeLog, err := logging.ToFile(app.logPath)
	if err != nil {
		app.out.Warningf("Logging to stderr: %v", err)
	} else {
		defer func() {
			_ = closeLog()
		}()
	}

	client := network.NewHTTPClient(app.cfg.Timeout())
	runner := platform.NewCommandRunner(app.dryRun)

	opts := tui.Options{
		Theme: app.cfg.Theme,
		Gallery: models.GalleryOptions{
			Sources: models.Sources{
				OpenCatalog: func(ctx context.Context) (models.PageSource, error) {
					stream, err := client.OpenCatalog(ctx, app.cfg.CatalogURL)
					if err != nil {
						return nil, err
					}

					return stream, nil
				},
				FetchStats: func(ctx context.Context) (catalog.Stats, error) {
					return client.FetchStats(ctx, app.cfg.StatsURL)
				},
				OpenURL: runner.OpenURL,
			},
			PageSize: app.cfg.PageSize,
			Debounce: app.cfg.Debounce(),
			Sort:     app.cfg.Sort,
			Link:     app.cfg.LinkOptions(),
		},
	}

	if err := app.runTUI(ctx, opts); err != nil {
		return classify("failed to launch interactive gallery", err)
	}

	return nil
}

func getVersion() string {
	if Version != "" {
		return Version
	}

	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	return "dev"
}
