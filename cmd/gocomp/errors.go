package main

import "github.com/spf13/cobra"

// Exit codes.
const (
	exitFailure = 1 // rendering or output failed
	exitUsage   = 2 // bad flags, arguments or configuration
	exitJob     = 3 // job file could not be loaded or converted
)

// ExitError is an error that carries the process exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: exitUsage, Message: err.Error()}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
