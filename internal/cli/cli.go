// Package cli provides the command-line interface of the epwrap tool:
// installing EnergyPlus distributions and converting run output into
// tables.
package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/energyplus-tools/epwrap/internal/config"
	"github.com/energyplus-tools/epwrap/internal/logger"
)

// NewApp creates and configures the main CLI application.
func NewApp() *cli.App {
	return &cli.App{
		Name:     "epwrap",
		Usage:    "Install EnergyPlus and convert its run output",
		Version:  "1.0.0",
		Compiled: time.Now(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   config.DefaultFileName,
				Usage:   "path to configuration file",
				EnvVars: []string{"EPWRAP_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"EPWRAP_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "log format (text, json)",
				EnvVars: []string{"EPWRAP_LOG_FORMAT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "install",
				Usage: "Ensure an EnergyPlus distribution is installed locally",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "url",
						Aliases: []string{"u"},
						Usage:   "installer URL (EnergyPlus-<version>-<revision>-<platform>.sh)",
					},
					&cli.StringFlag{
						Name:    "version",
						Aliases: []string{"v"},
						Usage:   "engine version to resolve from GitHub releases (e.g. 9.4.0)",
					},
					&cli.StringFlag{
						Name:    "target",
						Aliases: []string{"t"},
						Usage:   "folder to install into (default: per-user data directory)",
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "directory retaining downloaded installer scripts",
					},
					&cli.StringFlag{
						Name:    "token",
						Usage:   "GitHub token for release resolution (optional)",
						EnvVars: []string{"GITHUB_TOKEN"},
					},
				},
				Action: handleInstall,
			},
			{
				Name:  "report",
				Usage: "Parse an EnergyPlus HTML summary report and print its tables",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "path to the HTML report (eplustbl.htm)",
						Required: true,
					},
				},
				Action: handleReport,
			},
			{
				Name:  "series",
				Usage: "Parse the CSV time series of a run directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "dir",
						Aliases:  []string{"d"},
						Usage:    "run working directory containing *.csv outputs",
						Required: true,
					},
				},
				Action: handleSeries,
			},
			{
				Name:   "versions",
				Usage:  "List EnergyPlus versions with published installers",
				Flags:  []cli.Flag{tokenFlag()},
				Action: handleVersions,
			},
			{
				Name:   "installed",
				Usage:  "List locally installed EnergyPlus distributions",
				Flags:  []cli.Flag{targetFlag()},
				Action: handleInstalled,
			},
		},
	}
}

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "token",
		Usage:   "GitHub token for release resolution (optional)",
		EnvVars: []string{"GITHUB_TOKEN"},
	}
}

func targetFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "target",
		Aliases: []string{"t"},
		Usage:   "folder distributions were installed into",
	}
}

// setup loads the configuration and installs the logger, applying CLI
// overrides on top of the file values.
func setup(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if v := c.String("log-level"); v != "" {
		level = v
	}
	format := cfg.Logging.Format
	if v := c.String("log-format"); v != "" {
		format = v
	}

	log, err := logger.New(level, format)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, log, nil
}
