package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with -ldflags "-X github.com/kbukum/authclient/version.Version=...".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns the linker-provided values, filling gaps from the VCS
// settings the Go toolchain embeds.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
	if len(info.Commit) > 7 {
		info.Commit = info.Commit[:7]
	}
	return info
}

// String renders the version for --version output, e.g.
// "1.2.0 (commit abc1234, built 2026-01-15T10:30:00Z)".
func (i Info) String() string {
	s := i.Version
	switch {
	case i.Commit != "" && i.Dirty:
		s += fmt.Sprintf(" (commit %s-dirty", i.Commit)
	case i.Commit != "":
		s += fmt.Sprintf(" (commit %s", i.Commit)
	default:
		return s
	}
	if i.BuildTime != "" {
		s += ", built " + i.BuildTime
	}
	return s + ")"
}
