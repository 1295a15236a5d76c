// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, unknown task).
	UserError = 1

	// ConfigError indicates the configuration could not be loaded.
	ConfigError = 2

	// ServerError indicates the HTTP server failed.
	ServerError = 3
)
