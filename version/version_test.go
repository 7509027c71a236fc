package version

import (
	"runtime/debug"
	"strings"
	"testing"
)

func withBuildVars(t *testing.T, version, commit, branch, built string) {
	t.Helper()
	saved := [4]string{Version, GitCommit, GitBranch, BuildTime}
	t.Cleanup(func() {
		Version, GitCommit, GitBranch, BuildTime = saved[0], saved[1], saved[2], saved[3]
	})
	Version, GitCommit, GitBranch, BuildTime = version, commit, branch, built
}

func stamp(settings ...string) *debug.BuildInfo {
	bi := &debug.BuildInfo{GoVersion: "go1.26.0"}
	for i := 0; i+1 < len(settings); i += 2 {
		bi.Settings = append(bi.Settings, debug.BuildSetting{Key: settings[i], Value: settings[i+1]})
	}
	return bi
}

func TestFromBuild(t *testing.T) {
	tests := []struct {
		name      string
		vars      [4]string
		bi        *debug.BuildInfo
		ok        bool
		wantShort string
		wantBuilt string
	}{
		{
			name:      "dev without build info",
			vars:      [4]string{"dev", "", "", ""},
			wantShort: "dev",
		},
		{
			name:      "vcs stamp fills the gaps",
			vars:      [4]string{"dev", "", "", ""},
			bi:        stamp("vcs.revision", "0123456789abcdef", "vcs.time", "2026-01-02T03:04:05Z"),
			ok:        true,
			wantShort: "dev-0123456",
			wantBuilt: "2026-01-02T03:04:05Z",
		},
		{
			name:      "dirty tree",
			vars:      [4]string{"1.2.0", "", "", ""},
			bi:        stamp("vcs.revision", "abcdef0", "vcs.modified", "true"),
			ok:        true,
			wantShort: "1.2.0-abcdef0-dirty",
		},
		{
			name:      "ldflags win over the stamp",
			vars:      [4]string{"1.2.0", "fff0000", "release", "2025-12-31T00:00:00Z"},
			bi:        stamp("vcs.revision", "0123456789", "vcs.time", "2026-01-02T03:04:05Z"),
			ok:        true,
			wantShort: "1.2.0-fff0000",
			wantBuilt: "2025-12-31T00:00:00Z",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildVars(t, tt.vars[0], tt.vars[1], tt.vars[2], tt.vars[3])
			info := fromBuild(tt.bi, tt.ok)
			if got := info.Short(); got != tt.wantShort {
				t.Errorf("Short() = %q, want %q", got, tt.wantShort)
			}
			if info.BuildTime != tt.wantBuilt {
				t.Errorf("BuildTime = %q, want %q", info.BuildTime, tt.wantBuilt)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	info := &Info{Version: "1.2.0", Commit: "abcdef0", Branch: "release", Dirty: true, GoVersion: "go1.26.0"}
	out := info.String()
	for _, want := range []string{"version:    1.2.0\n", "commit:     abcdef0 (dirty)\n", "branch:     release\n", "go version: go1.26.0\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "built:") {
		t.Errorf("empty build time should be omitted:\n%s", out)
	}
}

func TestInfoFields(t *testing.T) {
	fields := (&Info{Version: "1.2.0", Commit: "abcdef0", GoVersion: "go1.26.0"}).Fields()
	if fields["version"] != "1.2.0-abcdef0" || fields["go_version"] != "go1.26.0" {
		t.Errorf("unexpected fields %v", fields)
	}
}
