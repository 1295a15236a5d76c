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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "taskmaster help [command]" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		fmt.Fprintf(out, "%s\n\nUsage:\n  %s\n", cmd.Synopsis(), cmd.Usage())
		return exitcode.Success
	}

	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskmaster                                   Start an interactive shell
  taskmaster list [--search <term>] [--format text|json|yaml] [search...]
  taskmaster add --due <YYYY-MM-DD> [--desc <text>] <title...>
  taskmaster create ...                        Alias for add
  taskmaster edit [--title <t>] [--desc <d>] [--due <YYYY-MM-DD>] <ref>
  taskmaster toggle <ref>                      Alias: done
  taskmaster rm <ref>                          Alias: delete
  taskmaster show <ref>
  taskmaster filter [ALL|COMPLETED|PENDING|OVERDUE]
  taskmaster serve [--addr <host:port>]
  taskmaster help [command]
  taskmaster version [--verbose]

A <ref> is a task number as printed by list, or a task id (or unique id prefix).

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr (stays on for the rest of a shell session)

In the shell, type commands without the "taskmaster" prefix; "exit" leaves.
`
