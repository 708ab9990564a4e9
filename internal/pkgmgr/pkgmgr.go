package pkgmgr

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/lakshaymaurya-felt/linmole/internal/executor"
)

// Manager is the narrow contract this tool needs from a system package
// manager. Implementations translate each operation into the native
// command line; nothing above this interface knows which distribution
// it is running on.
type Manager interface {
	// Name identifies the underlying tool, e.g. "dnf".
	Name() string

	// ListInstalled returns the names of all installed packages.
	ListInstalled(ctx context.Context) ([]string, error)

	// ListUnused returns packages the manager considers no longer
	// needed (orphaned dependencies, unneeded leaves).
	ListUnused(ctx context.Context) ([]string, error)

	// ListKernels returns installed kernel package identifiers,
	// including the running one. Filtering out the running kernel is
	// the caller's job.
	ListKernels(ctx context.Context) ([]string, error)

	// Remove uninstalls a single package.
	Remove(ctx context.Context, pkg string) error

	// CleanCache clears the package manager's download cache.
	CleanCache(ctx context.Context) error
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Detect probes the system for a supported package manager and returns
// a Manager bound to the given runner.
func Detect(r executor.Runner) (Manager, error) {
	if _, err := lookPath("dnf"); err == nil {
		return NewDNF(r), nil
	}
	if _, err := lookPath("apt-get"); err == nil {
		return NewAPT(r), nil
	}
	return nil, fmt.Errorf("no supported package manager found (looked for dnf, apt-get)")
}
