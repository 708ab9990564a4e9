package sysinfo

import (
	"fmt"
	"os"
	"strings"

	"github.com/lakshaymaurya-felt/linmole/internal/kernels"
)

// osReleasePath is overridden in tests.
var osReleasePath = "/etc/os-release"

// DistroName returns the PRETTY_NAME from os-release, or "Linux" when
// it cannot be determined.
func DistroName() string {
	data, err := os.ReadFile(osReleasePath)
	if err != nil {
		return "Linux"
	}
	return parseOSRelease(string(data))
}

// SystemString returns a human-readable system description.
// Example: "Fedora Linux 40 (kernel 6.8.9-300.fc40.x86_64)"
func SystemString() string {
	name := DistroName()
	release, err := kernels.RunningRelease()
	if err != nil || release == "" {
		return name
	}
	return fmt.Sprintf("%s (kernel %s)", name, release)
}

func parseOSRelease(data string) string {
	for _, line := range strings.Split(data, "\n") {
		val, ok := strings.CutPrefix(strings.TrimSpace(line), "PRETTY_NAME=")
		if !ok {
			continue
		}
		val = strings.Trim(val, `"`)
		if val != "" {
			return val
		}
	}
	return "Linux"
}
