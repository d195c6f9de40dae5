// ============================================================================
// Neuro-Speak - Bildschirmtext-Vorleser
// ============================================================================
//
// Package:     version
// Description: Version information for all Neuro-Speak programs
// Author:      ZeusXpresss
// Created:     2026-03-14
// License:     MIT
// ============================================================================

package version

import "fmt"

// Component versions
const (
	Speaker = "1.2.0"
	Scanner = "1.1.0"
)

var (
	// Version is the release version, set at build time via ldflags
	Version = "1.2.0"

	// BuildTime is set at build time via ldflags
	BuildTime = ""

	// GitCommit is set at build time via ldflags
	GitCommit = ""
)

// ComponentVersion returns the version for a component name
func ComponentVersion(name string) string {
	switch name {
	case "speaker":
		return Speaker
	case "scanner":
		return Scanner
	default:
		return Version
	}
}

// String formats the version with build details when present
func String() string {
	s := Version
	if GitCommit != "" {
		s += fmt.Sprintf(" (%s)", GitCommit)
	}
	if BuildTime != "" {
		s += " built " + BuildTime
	}
	return s
}
