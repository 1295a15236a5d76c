package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due  string
	desc string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskmaster add --due <YYYY-MM-DD> [--desc <text>] <title...>"
}
func (c *AddCmd) NeedsStore() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.desc, "desc", "", "")
	fs.StringVar(&c.desc, "d", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	if strings.TrimSpace(c.due) == "" {
		fmt.Fprintln(errOut, "error: due date required")
		return exitcode.UserError
	}
	due, err := service.ParseDate(c.due)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	svc.CreateTask(service.Fields{
		Title:       title,
		Description: c.desc,
		DueDate:     due,
	})

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
