// Package main is the entry point for the taskmaster CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskmaster/internal/backend/memory"
	"taskmaster/internal/cli"
	"taskmaster/internal/commands"
	"taskmaster/internal/config"
	"taskmaster/internal/logging"
	"taskmaster/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Tasks live only as long as this process.
	factory := func(cfg *config.Config) (service.Service, error) {
		return memory.New(logging.Logger), nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	var code int
	if len(os.Args) < 2 {
		dispatcher.Prompt = "taskmaster> "
		code = dispatcher.RunShell(ctx, os.Stdin, os.Stdout, os.Stderr)
	} else {
		code = dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	}

	logging.Close()
	os.Exit(code)
}
