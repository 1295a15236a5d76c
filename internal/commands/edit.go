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
	Register(&EditCmd{})
}

// optionalString is a flag value that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command.
// Only the flags given on the command line are changed.
type EditCmd struct {
	title optionalString
	desc  optionalString
	due   optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title, description or due date" }
func (c *EditCmd) Usage() string {
	return "taskmaster edit [--title <t>] [--desc <d>] [--due <YYYY-MM-DD>] <ref>"
}
func (c *EditCmd) NeedsStore() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.desc, c.due = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.Var(&c.due, "due", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	patch, err := c.patch()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	task, _, code := resolveTask(svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	if !svc.EditTask(task.ID, patch) {
		fmt.Fprintf(errOut, "error: %v: %s\n", ErrTaskNotFound, task.ID)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// patch validates the given flags and builds the store patch.
func (c *EditCmd) patch() (service.Patch, error) {
	var p service.Patch
	if c.title.set {
		if strings.TrimSpace(c.title.value) == "" {
			return p, fmt.Errorf("title required")
		}
		title := c.title.value
		p.Title = &title
	}
	if c.desc.set {
		desc := c.desc.value
		p.Description = &desc
	}
	if c.due.set {
		due, err := service.ParseDate(c.due.value)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	if p.IsEmpty() {
		return p, fmt.Errorf("nothing to edit (use --title, --desc or --due)")
	}
	return p, nil
}
