// Package buildinfo carries the version stamped in by the release build.
package buildinfo

import (
	"fmt"
	"log/slog"
)

// Set at build time via -ldflags "-X epclock/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version, or an abbreviated commit for dev builds.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		if len(Commit) > 7 {
			return Commit[:7]
		}
		return Commit
	}
	return "dev"
}

// String is the banner printed by --version.
func String() string {
	return fmt.Sprintf("epclock %s (commit %s, built %s)", Short(), Commit, Date)
}

// Attr groups the build fields for structured logs.
func Attr() slog.Attr {
	return slog.Group("build",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("date", Date),
	)
}
