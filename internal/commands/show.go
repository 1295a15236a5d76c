package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/output"
	"taskmaster/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints every field of one task.
type ShowCmd struct {
	now func() time.Time
}

// SetNow sets the clock used for the overdue check (for testing).
func (c *ShowCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show a task's details" }
func (c *ShowCmd) Usage() string     { return "taskmaster show <ref>" }
func (c *ShowCmd) NeedsStore() bool  { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task, pos, code := resolveTask(svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	output.FormatTaskDetail(out, pos, task, service.DateOf(now()))
	return exitcode.Success
}
