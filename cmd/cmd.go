// submodule cmd contains command definitions
package main

import (
	"strings"

	"github.com/desertthunder/cleverdemo/internal/formatter"
	"github.com/urfave/cli/v3"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// serveCommand runs the web app
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the schedule web app",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides server.port and PORT)",
			},
		},
		Action: r.Serve,
	}
}

// authCommand handles the OAuth login flow from the terminal
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Clever Instant Login",
		Commands: []*cli.Command{
			{
				Name:   "url",
				Usage:  "Print the authorization URL",
				Action: r.AuthURL,
			},
			{
				Name:   "open",
				Usage:  "Open the authorization URL in a browser",
				Action: r.AuthOpen,
			},
			{
				Name:  "exchange",
				Usage: "Exchange an authorization code for a student id",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "code",
						Usage:    "Authorization code from the redirect",
						Required: true,
					},
				},
				Action: r.AuthExchange,
			},
			{
				Name:  "login",
				Usage: "Log in through the browser and capture the redirect locally",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "How long to wait for the redirect",
						Value: defaultLoginTimeout,
					},
					&cli.BoolFlag{
						Name:  "no-browser",
						Usage: "Print the URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
		},
	}
}

// studentCommand reads student data with the district API key
func studentCommand(r *Runner) *cli.Command {
	idFlag := func() cli.Flag {
		return &cli.StringFlag{
			Name:     "id",
			Usage:    "Clever student id",
			Required: true,
		}
	}

	return &cli.Command{
		Name:    "student",
		Aliases: []string{"stu"},
		Usage:   "Student profile and schedule",
		Commands: []*cli.Command{
			{
				Name:  "info",
				Usage: "Show a student profile",
				Flags: []cli.Flag{
					idFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.StudentInfo,
			},
			{
				Name:  "sections",
				Usage: "Show a student's sections ordered by period",
				Flags: []cli.Flag{
					idFlag(),
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: " + strings.Join(formatter.Formats, ", "),
						Value:   formatter.FormatText,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write to a file instead of stdout",
					},
				},
				Action: r.StudentSections,
			},
		},
	}
}

// districtsCommand lists districts visible to the API key
func districtsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "districts",
		Usage: "List districts visible to the API key",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Districts,
	}
}

// setupCommand handles setup operations
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "path",
						Usage: "Where to write the file",
						Value: "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
