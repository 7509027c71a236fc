package version

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Set at build time with -ldflags "-X github.com/kbukum/fileflow/version.Version=...".
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	Branch    string `json:"branch,omitempty"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty,omitempty"`
}

// Get combines the ldflags values with the VCS stamp the go tool embeds.
// Explicit ldflags win over the stamp.
func Get() *Info {
	return fromBuild(debug.ReadBuildInfo())
}

func fromBuild(bi *debug.BuildInfo, ok bool) *Info {
	info := &Info{
		Version:   Version,
		Commit:    GitCommit,
		Branch:    GitBranch,
		BuildTime: BuildTime,
	}
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = abbrev(s.Value)
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
	return info
}

func abbrev(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

// Short returns "<version>[-<commit>][-dirty]".
func Short() string {
	return Get().Short()
}

// Short returns "<version>[-<commit>][-dirty]".
func (i *Info) Short() string {
	parts := []string{i.Version}
	if i.Commit != "" {
		parts = append(parts, i.Commit)
		if i.Dirty {
			parts = append(parts, "dirty")
		}
	}
	return strings.Join(parts, "-")
}

// String renders the info as `fileflow version` prints it.
func (i *Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "version:    %s\n", i.Version)
	if i.Commit != "" {
		commit := i.Commit
		if i.Dirty {
			commit += " (dirty)"
		}
		fmt.Fprintf(&b, "commit:     %s\n", commit)
	}
	if i.Branch != "" {
		fmt.Fprintf(&b, "branch:     %s\n", i.Branch)
	}
	if i.BuildTime != "" {
		fmt.Fprintf(&b, "built:      %s\n", i.BuildTime)
	}
	fmt.Fprintf(&b, "go version: %s\n", i.GoVersion)
	return b.String()
}

// Fields returns the info as structured log fields.
func (i *Info) Fields() map[string]interface{} {
	return map[string]interface{}{
		"version":    i.Short(),
		"build_time": i.BuildTime,
		"go_version": i.GoVersion,
	}
}
