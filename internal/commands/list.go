package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/output"
	"taskmaster/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskmaster` (no args) and `taskmaster list [search...]`.
type ListCmd struct {
	search string
	format string
	now    func() time.Time
}

// SetNow sets the clock used for the overdue check (for testing).
func (c *ListCmd) SetNow(now func() time.Time) {
	c.now = now
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks matching the active filter" }
func (c *ListCmd) Usage() string {
	return "taskmaster list [--search <term>] [--format text|json|yaml] [search...]"
}
func (c *ListCmd) NeedsStore() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.StringVar(&c.format, "format", string(output.FormatText), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format, err := output.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	search := c.search
	if len(args) > 0 {
		if search != "" {
			fmt.Fprintln(errOut, "error: cannot use both --search and a search argument")
			return exitcode.UserError
		}
		search = strings.Join(args, " ")
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	at := now()

	state := svc.State()
	tasks := service.FilteredTasks(state, search, at)
	view := output.View{Filter: state.Filter, Search: search, Tasks: tasks}

	switch format {
	case output.FormatJSON:
		err = output.WriteJSON(out, view)
	case output.FormatYAML:
		err = output.WriteYAML(out, view)
	default:
		c.writeText(cfg, state, tasks, service.DateOf(at), out)
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// writeText prints one line per task, numbered by position in the full
// task sequence so the numbers can be used as references.
func (c *ListCmd) writeText(cfg *config.Config, state service.State, tasks []service.Task, today service.Date, out io.Writer) {
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return
	}
	for _, task := range tasks {
		output.FormatTask(out, state.Position(task.ID), task, today)
	}
}
