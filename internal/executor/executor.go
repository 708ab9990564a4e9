package executor

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/lakshaymaurya-felt/linmole/internal/logging"
)

const (
	// defaultTimeout is the maximum time to wait for one external
	// command. Package removals can be slow; anything past this is
	// treated as hung.
	defaultTimeout = 120 * time.Second

	// maxErrOutput caps how much captured stderr is carried in errors.
	maxErrOutput = 200
)

// NotFoundError reports that the program to run does not exist on the
// system. Callers treat this as a configuration problem (e.g. the
// package manager is missing), not an operational failure.
type NotFoundError struct {
	Program string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("program %q not found on this system", e.Program)
}

// ExitError reports that the program ran but returned a non-zero exit
// status.
type ExitError struct {
	Program string
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s failed (exit code %d): %s", e.Program, e.Code, e.Output)
	}
	return fmt.Sprintf("%s failed (exit code %d)", e.Program, e.Code)
}

// Runner runs a named external program and captures its output.
// Implementations block until the process exits.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) (string, error)
}

// Exec is the os/exec backed Runner.
type Exec struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// New returns a Runner with the default per-command timeout.
func New() *Exec {
	return &Exec{
		timeout: defaultTimeout,
		logger:  logging.GetLogger("executor"),
	}
}

// Run executes program with args and returns its trimmed combined
// output. Failures are classified as *NotFoundError (program missing)
// or *ExitError (ran, non-zero status).
func (e *Exec) Run(ctx context.Context, program string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug().Str("program", program).Strs("args", args).Msg("executing command")

	cmd := exec.CommandContext(ctx, program, args...)
	output, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(output))
	if err != nil {
		return trimmed, classifyError(ctx, program, trimmed, err)
	}
	return trimmed, nil
}

// classifyError maps an exec failure onto the executor error taxonomy.
func classifyError(ctx context.Context, program, output string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s timed out after %s", program, defaultTimeout)
	}
	if errors.Is(err, exec.ErrNotFound) {
		return &NotFoundError{Program: program}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Program: program,
			Code:    exitErr.ExitCode(),
			Output:  truncate(output, maxErrOutput),
		}
	}

	return fmt.Errorf("failed to execute %s: %w", program, err)
}

// truncate shortens s to at most n bytes at a valid UTF-8 boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
