package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"taskmaster/internal/commands"
	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/logging"
	"taskmaster/internal/service"
)

// StoreFactory creates the task store from config.
// Used to inject the backend during dispatch.
type StoreFactory func(cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
// The store is created on first use and shared by every later command,
// so a shell session sees its own earlier changes.
type Dispatcher struct {
	registry *commands.Registry
	factory  StoreFactory
	svc      service.Service

	// Prompt is printed before each shell line. Empty means no prompt.
	Prompt string
}

// NewDispatcher creates a new dispatcher with the given registry and store factory.
func NewDispatcher(registry *commands.Registry, factory StoreFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

// RunShell reads commands from in, one per line, until EOF, "exit" or
// "quit", or until ctx is cancelled. Lines are split with shell quoting
// rules. Returns the exit code of the last command run.
//
// Cancellation is noticed while waiting for input: the reader runs in its
// own goroutine, which may stay blocked on in until it is closed.
func (d *Dispatcher) RunShell(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines, scanErr := readLines(ctx, in)
	code := exitcode.Success

	for {
		if ctx.Err() != nil {
			return code
		}
		if d.Prompt != "" {
			fmt.Fprint(out, d.Prompt)
		}

		var line string
		select {
		case <-ctx.Done():
			return code
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					if err != nil {
						fmt.Fprintf(errOut, "error: %v\n", err)
						return exitcode.UserError
					}
				default:
				}
				return code
			}
			line = l
		}
		if ctx.Err() != nil {
			return code
		}

		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return code
		}

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			code = exitcode.UserError
			continue
		}
		code = d.Run(ctx, args, out, errOut)
	}
}

// readLines scans in on a separate goroutine. The lines channel is closed
// at EOF, on a read error (sent on the error channel first), or once ctx
// is done.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return exitcode.UserError
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return exitcode.UserError
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config: %s\n", err)
		return exitcode.ConfigError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	logging.Init(cfg, errOut)
	logging.Logger.WithField("command", cmd.Name()).Debug("dispatching command")

	var svc service.Service
	if cmd.NeedsStore() {
		svc, err = d.store(cfg)
		if err != nil {
			fmt.Fprintf(errOut, "error: store: %s\n", err)
			return exitcode.ConfigError
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// store returns the shared store, creating it on first use.
func (d *Dispatcher) store(cfg *config.Config) (service.Service, error) {
	if d.svc != nil {
		return d.svc, nil
	}
	if d.factory == nil {
		return nil, fmt.Errorf("no store configured")
	}
	svc, err := d.factory(cfg)
	if err != nil {
		return nil, err
	}
	d.svc = svc
	return svc, nil
}
