package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hexthorne/airwave/internal/repositories"
	"github.com/hexthorne/airwave/internal/services"
	"github.com/hexthorne/airwave/internal/session"
	"github.com/hexthorne/airwave/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	provider services.Provider
	orch     *session.Orchestrator
	logger   *log.Logger
	output   io.Writer
	db       *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Provider services.Provider
	Logger   *log.Logger
	Output   io.Writer
	DB       *sql.DB
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
	if opts.Provider == nil {
		opts.Provider = services.NewSpotifyProvider(opts.Config.Credentials.Spotify, opts.Logger)
	}

	return &Runner{
		config:   opts.Config,
		provider: opts.Provider,
		orch:     session.NewOrchestrator(opts.Provider, opts.Logger),
		logger:   opts.Logger,
		output:   opts.Output,
		db:       opts.DB,
	}
}

// SetLogger swaps the runner's logger (used when the TUI redirects logs to a file).
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// reconfigure swaps the runner's config and rebuilds the provider and
// orchestrator so reloaded credentials take effect.
func (r *Runner) reconfigure(config *shared.Config) {
	r.config = config
	r.provider = services.NewSpotifyProvider(config.Credentials.Spotify, r.logger)
	r.orch = session.NewOrchestrator(r.provider, r.logger)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, authCommand, nowCommand, volumeCommand, widgetCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// store opens the local credential database, running migrations on first use.
func (r *Runner) store() (*repositories.CredentialRepository, error) {
	if r.db == nil {
		db, err := shared.NewDatabase(r.config.Database.Path)
		if err != nil {
			return nil, err
		}
		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, err
		}
		r.db = db
	}

	return repositories.NewCredentialRepository(r.db, r.logger), nil
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
