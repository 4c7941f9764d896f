package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/vk/cookcli/internal/config"
	"github.com/vk/cookcli/internal/resolve"
)

// Exit codes.
const (
	ExitRuntime    = 1
	ExitUsage      = 2
	ExitResolution = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// Execute runs the command line given by args. Any failure is returned as
// an *ExitError.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)
	return exitError(root.ExecuteContext(ctx))
}

func exitError(err error) error {
	if err == nil {
		return nil
	}
	var exit *ExitError
	switch {
	case errors.As(err, &exit):
		return exit
	case errors.Is(err, config.ErrInvalid), strings.HasPrefix(err.Error(), "unknown command"):
		return usageError(err)
	case errors.Is(err, resolve.ErrNotFound), errors.Is(err, resolve.ErrAmbiguous):
		return &ExitError{Code: ExitResolution, Message: err.Error()}
	default:
		return &ExitError{Code: ExitRuntime, Message: err.Error()}
	}
}
