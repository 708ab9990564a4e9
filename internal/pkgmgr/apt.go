package pkgmgr

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/lakshaymaurya-felt/linmole/internal/executor"
)

// APT drives the apt/dpkg toolchain found on Debian and Ubuntu systems.
type APT struct {
	run executor.Runner
}

// NewAPT returns an apt-backed Manager.
func NewAPT(r executor.Runner) *APT {
	return &APT{run: r}
}

func (a *APT) Name() string { return "apt" }

func (a *APT) ListInstalled(ctx context.Context) ([]string, error) {
	out, err := a.run.Run(ctx, "dpkg-query", "-W", "-f", "${binary:Package}\n")
	if err != nil {
		return nil, fmt.Errorf("listing installed packages: %w", err)
	}
	return nonEmptyLines(out), nil
}

// ListUnused runs a simulated autoremove and reports the packages apt
// would drop. The simulation never changes the system.
func (a *APT) ListUnused(ctx context.Context) ([]string, error) {
	out, err := a.run.Run(ctx, "apt-get", "-s", "autoremove")
	if err != nil {
		return nil, fmt.Errorf("simulating autoremove: %w", err)
	}
	return parseAutoremoveSimulation(out), nil
}

func (a *APT) ListKernels(ctx context.Context) ([]string, error) {
	out, err := a.run.Run(ctx, "dpkg-query", "-W", "-f", "${binary:Package}\n", "linux-image-*")
	if err != nil {
		return nil, fmt.Errorf("querying installed kernels: %w", err)
	}
	return filterVersionedKernels(nonEmptyLines(out)), nil
}

func (a *APT) Remove(ctx context.Context, pkg string) error {
	if _, err := a.run.Run(ctx, "apt-get", "remove", "-y", "--purge", pkg); err != nil {
		return fmt.Errorf("removing %s: %w", pkg, err)
	}
	return nil
}

func (a *APT) CleanCache(ctx context.Context) error {
	if _, err := a.run.Run(ctx, "apt-get", "clean"); err != nil {
		return fmt.Errorf("cleaning apt cache: %w", err)
	}
	return nil
}

// parseAutoremoveSimulation extracts package names from "Remv" lines of
// `apt-get -s autoremove` output, e.g. "Remv libfoo [1.2-3]".
func parseAutoremoveSimulation(out string) []string {
	var pkgs []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "Remv" {
			pkgs = append(pkgs, fields[1])
		}
	}
	return pkgs
}

// filterVersionedKernels keeps concrete kernel images
// (linux-image-6.1.0-27-amd64) and drops meta packages
// (linux-image-amd64) whose version floats with upgrades.
func filterVersionedKernels(pkgs []string) []string {
	const prefix = "linux-image-"
	var kernels []string
	for _, pkg := range pkgs {
		rest, ok := strings.CutPrefix(pkg, prefix)
		if !ok || rest == "" {
			continue
		}
		if unicode.IsDigit(rune(rest[0])) {
			kernels = append(kernels, pkg)
		}
	}
	return kernels
}
