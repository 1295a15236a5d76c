package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Mark a task completed, or pending again" }
func (c *ToggleCmd) Usage() string     { return "taskmaster toggle <ref>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, _, code := resolveTask(svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if !svc.ToggleTask(task.ID) {
		fmt.Fprintf(errOut, "error: %v: %s\n", ErrTaskNotFound, task.ID)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		if task.Completed {
			fmt.Fprintln(out, "ok (pending)")
		} else {
			fmt.Fprintln(out, "ok (completed)")
		}
	}
	return exitcode.Success
}
