package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sentix/internal/imports"
	"github.com/desertthunder/sentix/internal/repositories"
	"github.com/desertthunder/sentix/internal/services"
	"github.com/desertthunder/sentix/internal/session"
	"github.com/desertthunder/sentix/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	gateway    services.Gateway
	api        *services.Client
	session    *session.Manager
	tokens     *repositories.TokenRepository
	logger     *log.Logger
	input      *bufio.Reader
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Gateway    services.Gateway
	API        *services.Client
	Session    *session.Manager
	Tokens     *repositories.TokenRepository
	Logger     *log.Logger
	Input      io.Reader
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Gateway == nil && opts.API != nil {
		opts.Gateway = opts.API
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		gateway:    opts.Gateway,
		api:        opts.API,
		session:    opts.Session,
		tokens:     opts.Tokens,
		logger:     opts.Logger,
		input:      bufio.NewReader(opts.Input),
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's and session manager's loggers, e.g. with a file logger while the TUI owns the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	if r.session != nil {
		r.session.SetLogger(shared.WithLogger(l, "component", "session"))
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, importCommand, apiCommand, sandboxCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// restoreSession loads the persisted token and waits for its validation to settle.
func (r *Runner) restoreSession(ctx context.Context) (session.Snapshot, error) {
	if r.session == nil {
		return session.Snapshot{}, fmt.Errorf("%w: session manager not initialized", shared.ErrServiceUnavailable)
	}

	r.session.Init(ctx)
	select {
	case <-r.session.Ready():
	case <-ctx.Done():
		return session.Snapshot{}, ctx.Err()
	}
	return r.session.Current(), nil
}

// requireSession is [Runner.restoreSession] for commands that need a signed-in user.
func (r *Runner) requireSession(ctx context.Context) (session.Snapshot, error) {
	snap, err := r.restoreSession(ctx)
	if err != nil {
		return snap, err
	}
	if !snap.IsAuthenticated() {
		return snap, fmt.Errorf("%w: run 'sentix auth login' first", shared.ErrNotAuthenticated)
	}
	return snap, nil
}

func (r *Runner) newPipeline() *imports.Pipeline {
	return imports.New(imports.Options{
		Gateway:  r.gateway,
		Tokens:   r.session,
		MaxBytes: r.config.Imports.MaxBytes,
		Logger:   shared.WithLogger(r.logger, "component", "imports"),
	})
}

// prompt writes label and reads one line of input. An exhausted input yields an empty answer.
func (r *Runner) prompt(label string) (string, error) {
	if err := r.writePlain("%s", label); err != nil {
		return "", err
	}
	line, err := r.input.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// flagOrPrompt returns the flag's value, prompting for it when unset.
func (r *Runner) flagOrPrompt(cmd *cli.Command, name, label string) (string, error) {
	if v := cmd.String(name); v != "" {
		return v, nil
	}
	return r.prompt(label)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
