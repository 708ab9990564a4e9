package kernels

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// RunningRelease returns the kernel release string of the running
// system, e.g. "6.8.9-300.fc40.x86_64" or "6.1.0-27-amd64".
func RunningRelease() (string, error) {
	var uts unix.Utsname
	if err := unix.Uname(&uts); err != nil {
		return "", fmt.Errorf("uname: %w", err)
	}
	return unix.ByteSliceToString(uts.Release[:]), nil
}

// archSuffixes are trailing machine identifiers uname appends to the
// release on rpm systems but package names may omit.
var archSuffixes = []string{".x86_64", ".aarch64", ".ppc64le", ".s390x", ".i686"}

// ExcludeRunning drops every kernel package whose identifier mentions
// the running release. The running kernel must never be offered for
// removal, so matching errs on the side of exclusion.
func ExcludeRunning(pkgs []string, release string) []string {
	release = strings.TrimSpace(release)
	bare := release
	for _, suffix := range archSuffixes {
		if s, ok := strings.CutSuffix(release, suffix); ok {
			bare = s
			break
		}
	}

	var out []string
	for _, pkg := range pkgs {
		if release != "" && (strings.Contains(pkg, release) || strings.Contains(pkg, bare)) {
			continue
		}
		out = append(out, pkg)
	}
	return out
}
