// ============================================================================
// venn - Mengenalgebra für interaktive Statistik-Visualisierungen
// ============================================================================
//
// Package:     version
// Description: Central version and build information
// Author:      Mike Stoffels
// Created:     2026-09-29
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Build information, overridden via -ldflags "-X ..."
var (
	Version   = "1.0.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// API is the version of the public gRPC/HTTP API
const API = "v1"

// Info bundles build information for reporting
type Info struct {
	Version   string `json:"version"`
	API       string `json:"api"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:   Version,
		API:       API,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("venn v%s (api %s, commit %s, built %s)", i.Version, i.API, i.GitCommit, i.BuildDate)
}
