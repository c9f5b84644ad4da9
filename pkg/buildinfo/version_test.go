package buildinfo

import (
	"strings"
	"testing"
)

func withBuild(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	Version, Commit, Date = version, commit, date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
}

func TestTemplate(t *testing.T) {
	withBuild(t, "v0.3.0", "3f2a9c1d", "2026-10-01T12:00:00Z")

	got := Template()
	for _, want := range []string{"{{.Name}} version v0.3.0", "commit: 3f2a9c1d", "built: 2026-10-01T12:00:00Z"} {
		if !strings.Contains(got, want) {
			t.Errorf("Template() = %q, missing %q", got, want)
		}
	}
}

func TestString(t *testing.T) {
	withBuild(t, "v0.3.0", "abc", "today")

	want := "version: v0.3.0\ncommit: abc\nbuilt: today"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestShort(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"dev build", "dev", "none", "dev"},
		{"empty commit", "v1.0.0", "", "v1.0.0"},
		{"short commit", "v1.0.0", "abc123", "v1.0.0 (abc123)"},
		{"long commit", "v1.0.0", "3f2a9c1d88e0", "v1.0.0 (3f2a9c1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuild(t, tt.version, tt.commit, "unknown")
			if got := Short(); got != tt.want {
				t.Errorf("Short() = %q, want %q", got, tt.want)
			}
		})
	}
}
