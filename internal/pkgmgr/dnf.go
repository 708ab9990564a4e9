package pkgmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/lakshaymaurya-felt/linmole/internal/executor"
)

// DNF drives the dnf/rpm toolchain found on Fedora and RHEL systems.
type DNF struct {
	run executor.Runner
}

// NewDNF returns a dnf-backed Manager.
func NewDNF(r executor.Runner) *DNF {
	return &DNF{run: r}
}

func (d *DNF) Name() string { return "dnf" }

func (d *DNF) ListInstalled(ctx context.Context) ([]string, error) {
	out, err := d.run.Run(ctx, "dnf", "list", "--installed")
	if err != nil {
		return nil, fmt.Errorf("listing installed packages: %w", err)
	}
	return parseDNFList(out), nil
}

func (d *DNF) ListUnused(ctx context.Context) ([]string, error) {
	out, err := d.run.Run(ctx, "dnf", "repoquery", "--unneeded", "--qf", "%{name}")
	if err != nil {
		return nil, fmt.Errorf("querying unneeded packages: %w", err)
	}
	return nonEmptyLines(out), nil
}

func (d *DNF) ListKernels(ctx context.Context) ([]string, error) {
	out, err := d.run.Run(ctx, "rpm", "-q", "kernel")
	if err != nil {
		return nil, fmt.Errorf("querying installed kernels: %w", err)
	}
	return nonEmptyLines(out), nil
}

func (d *DNF) Remove(ctx context.Context, pkg string) error {
	if _, err := d.run.Run(ctx, "dnf", "remove", "-y", pkg); err != nil {
		return fmt.Errorf("removing %s: %w", pkg, err)
	}
	return nil
}

func (d *DNF) CleanCache(ctx context.Context) error {
	if _, err := d.run.Run(ctx, "dnf", "clean", "all"); err != nil {
		return fmt.Errorf("cleaning dnf cache: %w", err)
	}
	return nil
}

// parseDNFList extracts package names from `dnf list --installed`
// output. The first column is "name.arch"; header and continuation
// lines are skipped.
func parseDNFList(out string) []string {
	var pkgs []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := fields[0]
		// Header line ("Installed Packages") and anything without the
		// name.arch shape is not a package row.
		if !strings.Contains(name, ".") {
			continue
		}
		if i := strings.LastIndex(name, "."); i > 0 {
			name = name[:i]
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		pkgs = append(pkgs, name)
	}
	return pkgs
}

func nonEmptyLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
