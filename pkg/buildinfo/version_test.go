package buildinfo

import (
	"runtime/debug"
	"strings"
	"testing"
)

func reset(t *testing.T) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = unset, "none", "unknown"
}

func TestSet(t *testing.T) {
	reset(t)
	Set("v1.0.0", "", "2026-01-02")
	if Version != "v1.0.0" || Commit != "none" || Date != "2026-01-02" {
		t.Errorf("Set = %q %q %q", Version, Commit, Date)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		bi      debug.BuildInfo
		version string
		commit  string
	}{
		{
			name: "tagged module",
			bi: debug.BuildInfo{
				Main:     debug.Module{Version: "v0.3.1"},
				Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abcdef0123"}},
			},
			version: "v0.3.1",
			commit:  "abcdef0123",
		},
		{
			name:    "devel build",
			bi:      debug.BuildInfo{Main: debug.Module{Version: "(devel)"}},
			version: unset,
			commit:  "none",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset(t)
			apply(&tt.bi)
			if Version != tt.version || Commit != tt.commit {
				t.Errorf("got %q/%q, want %q/%q", Version, Commit, tt.version, tt.commit)
			}
		})
	}
}

func TestResolveKeepsStampedVersion(t *testing.T) {
	reset(t)
	Version = "v9.9.9"
	Resolve()
	if Version != "v9.9.9" {
		t.Errorf("Resolve overwrote stamped version: %q", Version)
	}
}

func TestShort(t *testing.T) {
	reset(t)
	Set("v1.2.0", "3f2a9c1d8e", "")
	if got := Short(); got != "v1.2.0 (3f2a9c1)" {
		t.Errorf("Short() = %q", got)
	}
	Commit = "abc"
	if got := Short(); got != "v1.2.0 (abc)" {
		t.Errorf("Short() = %q", got)
	}
}

func TestTemplate(t *testing.T) {
	reset(t)
	Set("v1.0.0", "c0ffee", "today")
	tmpl := Template()
	for _, want := range []string{"{{.Name}}", "v1.0.0", "c0ffee", "today"} {
		if !strings.Contains(tmpl, want) {
			t.Errorf("Template() missing %q: %s", want, tmpl)
		}
	}
	if !strings.Contains(String(), "commit: c0ffee") {
		t.Errorf("String() = %q", String())
	}
}
