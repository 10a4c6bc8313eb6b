package collaborator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os/exec"
	"time"

	"github.com/sethvargo/go-retry"
)

// BackendInvoker models invoking an external backend compiler as a
// subprocess: a path to a binary and the argv to run it with. Transient
// failures (the binary briefly missing during a build-tool install, a temp
// directory race) are retried with exponential backoff; a binary that is
// simply absent fails immediately without retrying.
type BackendInvoker struct {
	// Path is the backend binary to invoke.
	Path string
	// Args are passed to the binary verbatim.
	Args []string
	// Run executes the subprocess; overridable in tests. Defaults to
	// exec.CommandContext(ctx, path, args...).Run.
	Run func(ctx context.Context, path string, args []string) error
}

// ErrBackendNotFound reports that the backend binary could not be located.
var ErrBackendNotFound = errors.New("mamba: backend binary not found")

func (b BackendInvoker) run(ctx context.Context) error {
	if b.Run != nil {
		return b.Run(ctx, b.Path, b.Args)
	}
	return exec.CommandContext(ctx, b.Path, b.Args...).Run()
}

// Invoke runs the configured backend, retrying transient failures up to 3
// times with exponential backoff starting at 50ms. A process-not-found error
// is treated as permanent and returned without retrying.
func (b BackendInvoker) Invoke(ctx context.Context) error {
	if b.Path == "" {
		return ErrBackendNotFound
	}

	backoff := retry.WithMaxRetries(3, retry.NewExponential(50*time.Millisecond))
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		runErr := b.run(ctx)
		if runErr == nil {
			return nil
		}
		if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s: %v", ErrBackendNotFound, b.Path, runErr)
		}
		slog.Debug("backend invocation failed, will retry",
			"path", b.Path, "attempt", attempt, "error", runErr)
		return retry.RetryableError(runErr)
	})
	if err != nil {
		slog.Error("backend invocation failed after all retries",
			"path", b.Path, "attempts", attempt, "error", err)
		return fmt.Errorf("invoke backend %s: %w", b.Path, err)
	}
	return nil
}
