package sile

import "runtime"

// Version of the sile module.
const Version = "0.3.0"

// GetVersion returns Version.
func GetVersion() string {
	return Version
}

// VersionInfo describes the running build.
type VersionInfo struct {
	Version   string
	GitCommit string // "unknown" unless stamped
	BuildTime string // RFC 3339, "unknown" unless stamped
	GoVersion string
}

// Stamped by the release build:
//
//	go build -ldflags="-X github.com/simonhull/sile.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/sile.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/sile-dump
var (
	gitCommit = "unknown"
	buildTime = "unknown"
)

// GetVersionInfo reports the module version, the stamped commit and build
// time, and the Go toolchain the binary was built with.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}
}
