package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cleverdemo/internal/services"
	"github.com/desertthunder/cleverdemo/internal/shared"
	"github.com/desertthunder/cleverdemo/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	clever      *services.Clever
	httpClient  *http.Client
	logger      *log.Logger
	output      io.Writer
	openBrowser func(string) error
	lookupEnv   func(string) (string, bool)
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Clever is built lazily from Config when nil.
type RunnerOpts struct {
	Config      *shared.Config
	Clever      *services.Clever
	HTTPClient  *http.Client
	Logger      *log.Logger
	Output      io.Writer
	OpenBrowser func(string) error
	LookupEnv   func(string) (string, bool)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = services.NewHTTPClient(opts.Config.Clever.Timeout())
	}
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.LookupEnv == nil {
		opts.LookupEnv = os.LookupEnv
	}

	return &Runner{
		config:      opts.Config,
		clever:      opts.Clever,
		httpClient:  opts.HTTPClient,
		logger:      opts.Logger,
		output:      opts.Output,
		openBrowser: opts.OpenBrowser,
		lookupEnv:   opts.LookupEnv,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, authCommand, studentCommand, districtsCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before applies the global flags: --verbose raises the log level, an explicit --config replaces the configuration.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}

	if cmd.IsSet("config") {
		path := cmd.String("config")
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, fmt.Errorf("%w: %v", shared.ErrMissingConfig, err)
		}
		if err := config.ApplyEnv(r.lookupEnv); err != nil {
			return ctx, err
		}

		r.logger.Debug("loaded config", "path", path)
		r.config = config
		r.clever = nil
	}

	return ctx, nil
}

// services returns the Clever services, building them from the configuration on first use.
func (r *Runner) services() (*services.Clever, error) {
	if r.clever != nil {
		return r.clever, nil
	}

	if err := r.config.ValidateClient(); err != nil {
		return nil, err
	}

	clever, err := services.NewClever(r.config.Clever, r.httpClient)
	if err != nil {
		return nil, err
	}

	r.clever = clever
	return clever, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", ui.Styles.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}
