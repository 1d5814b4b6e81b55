// Package version provides build information for repochunk.
// These variables are set via ldflags during the build process.
package version

import (
	"fmt"
	"runtime"
)

// Version is the current version of the binary.
// Set via -ldflags "-X github.com/repochunk/repochunk/pkg/version.Version=..."
var Version = "dev"

// BuildDate is the date when the binary was built.
var BuildDate = "unknown"

// GitCommit is the commit the binary was built from.
var GitCommit = "unknown"

// String returns the bare version.
func String() string {
	return Version
}

// FullString returns the version line shown by --version.
func FullString() string {
	if Version == "dev" {
		return "repochunk development version"
	}
	return "repochunk " + Version
}

// Info returns all build information as a map.
func Info() map[string]string {
	return map[string]string{
		"version":   Version,
		"buildDate": BuildDate,
		"gitCommit": GitCommit,
		"goVersion": runtime.Version(),
		"platform":  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
