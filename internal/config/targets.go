package config

import "path/filepath"

// LogTarget describes one location scanned for prunable log files.
type LogTarget struct {
	// Name is the unique identifier for this target.
	Name string

	// Dir is the directory to scan.
	Dir string

	// Patterns are file glob patterns matched against base names.
	// An empty list matches every regular file.
	Patterns []string

	// Description is a human-readable description.
	Description string

	// RiskLevel is one of "low", "medium", "high".
	RiskLevel string
}

// GetLogTargets returns the locations scanned by log cleanup.
func GetLogTargets() []LogTarget {
	return []LogTarget{
		{
			Name:        "SystemLogs",
			Dir:         "/var/log",
			Patterns:    []string{"*.log", "*.log.*", "*.gz", "*.xz", "*.old", "*.1", "*.2", "*.3"},
			Description: "Rotated and aged system log files",
			RiskLevel:   "low",
		},
		{
			Name:        "PackageManagerLogs",
			Dir:         "/var/log/dnf",
			Patterns:    []string{"*.log", "*.log.*"},
			Description: "Package manager transaction logs",
			RiskLevel:   "low",
		},
		{
			Name:        "AptLogs",
			Dir:         "/var/log/apt",
			Patterns:    []string{"*.log", "*.log.*", "*.gz"},
			Description: "APT history and term logs",
			RiskLevel:   "low",
		},
	}
}

// GetNeverDeletePaths returns paths that must NEVER be deleted no
// matter how old they are. The journal directory is managed by
// journald's own vacuum; the login records are append-only system
// state, not logs to prune.
func GetNeverDeletePaths() []string {
	return []string{
		"/var/log/journal",
		filepath.Join("/var/log", "lastlog"),
		filepath.Join("/var/log", "wtmp"),
		filepath.Join("/var/log", "btmp"),
		filepath.Join("/var/log", "faillog"),
	}
}
