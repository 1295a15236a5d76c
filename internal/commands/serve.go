package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/httpapi"
	"taskmaster/internal/logging"
	"taskmaster/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd serves the store over HTTP until the context is cancelled.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the JSON API" }
func (c *ServeCmd) Usage() string     { return "taskmaster serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsStore() bool  { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	addr := c.addr
	if addr == "" {
		addr = cfg.Addr
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", addr)
	}

	srv := httpapi.NewServer(svc, logging.Logger)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: server error: %v\n", err)
		return exitcode.ServerError
	}
	return exitcode.Success
}
