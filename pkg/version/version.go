// Package version holds build metadata for the xpfang binary.
package version

import (
	"runtime/debug"
)

const unknown = "unknown"

// Build metadata, overridden with -ldflags "-X".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills unset metadata from the embedded module build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = s.Value
			}
		}
	}
}

// String returns a one-line version summary.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
