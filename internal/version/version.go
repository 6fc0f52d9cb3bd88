// Package version reports the server version sent in serverInfo and
// printed by --version
package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X bennypowers.dev/rrls/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitTag    = "unknown"
	BuildTime = "unknown"
	GitDirty  = "" // "dirty" when built from a modified tree
)

// GetVersion returns the ldflags version, then the module version from
// build info (go install), then one derived from the git tag and commit,
// and "dev" when none is known
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	if v := fromGit(GitTag, GitCommit, GitDirty == "dirty"); v != "" {
		return v
	}
	return "dev"
}

// fromGit formats tag-shortcommit[-dirty]. The commit is left off when the
// tag already ends with it.
func fromGit(tag, commit string, dirty bool) string {
	if tag == "unknown" || commit == "unknown" {
		return ""
	}
	v := tag
	if short := commit[:min(7, len(commit))]; short != "" && !strings.HasSuffix(tag, short) {
		v += "-" + short
	}
	if dirty {
		v += "-dirty"
	}
	return v
}

// GetFullVersion returns the version with its commit and build time, when known
func GetFullVersion() string {
	var details []string
	if GitCommit != "unknown" {
		details = append(details, "commit: "+GitCommit)
	}
	if BuildTime != "unknown" {
		details = append(details, "built: "+BuildTime)
	}
	if len(details) == 0 {
		return GetVersion()
	}
	return fmt.Sprintf("%s (%s)", GetVersion(), strings.Join(details, ", "))
}
