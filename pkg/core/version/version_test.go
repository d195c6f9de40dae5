package version

import (
	"regexp"
	"strings"
	"testing"
)

// semverRegex validates semantic versioning format
var semverRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

func TestVersionConstants(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"Version", Version},
		{"Speaker", Speaker},
		{"Scanner", Scanner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !semverRegex.MatchString(tt.version) {
				t.Errorf("%s version %q is not valid semver", tt.name, tt.version)
			}
		})
	}
}

func TestComponentVersion(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"speaker", Speaker},
		{"scanner", Scanner},
		{"unknown", Version},
		{"", Version},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComponentVersion(tt.name); got != tt.want {
				t.Errorf("ComponentVersion(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	oldCommit, oldTime := GitCommit, BuildTime
	defer func() { GitCommit, BuildTime = oldCommit, oldTime }()

	GitCommit, BuildTime = "", ""
	if got := String(); got != Version {
		t.Errorf("String() = %q, want %q", got, Version)
	}

	GitCommit, BuildTime = "abc123", "2026-03-14"
	got := String()
	if !strings.Contains(got, "(abc123)") || !strings.HasSuffix(got, "built 2026-03-14") {
		t.Errorf("String() = %q, want commit and build time", got)
	}
}
