package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/output"
	"taskmaster/internal/service"
)

func init() {
	Register(&FilterCmd{})
}

// FilterCmd shows or sets the active filter.
type FilterCmd struct{}

func (c *FilterCmd) Name() string      { return "filter" }
func (c *FilterCmd) Aliases() []string { return nil }
func (c *FilterCmd) Synopsis() string  { return "Show or set the active filter" }
func (c *FilterCmd) Usage() string {
	return "taskmaster filter [ALL|COMPLETED|PENDING|OVERDUE]"
}
func (c *FilterCmd) NeedsStore() bool { return true }

func (c *FilterCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *FilterCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	switch len(args) {
	case 0:
		output.FormatFilter(out, svc.State().Filter)
		return exitcode.Success
	case 1:
	default:
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	f, err := service.ParseFilter(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := svc.SetFilter(f); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
