// Package version reports how the vibediary binary was built.
//
// Release builds set the variables with -ldflags, for example:
//
//	go build -ldflags "-X github.com/grovetools/vibediary/version.Version=v0.3.0 \
//	  -X github.com/grovetools/vibediary/version.Commit=$(git rev-parse --short HEAD)" \
//	  ./cmd/vibediary
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version   = "" // release tag; falls back to the module version, then "dev"
	Commit    = "none"
	Branch    = "unknown"
	BuildDate = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns the build information. A binary installed with
// `go install ...@version` has no ldflags, so the module version recorded
// by the toolchain is used instead.
func GetInfo() Info {
	return Info{
		Version:   resolveVersion(Version, debug.ReadBuildInfo),
		Commit:    Commit,
		Branch:    Branch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func resolveVersion(linked string, read func() (*debug.BuildInfo, bool)) string {
	if linked != "" {
		return linked
	}
	if bi, ok := read(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return "dev"
}

// String renders the info as aligned lines for `vibediary version`.
func (i Info) String() string {
	return fmt.Sprintf(
		"vibediary %s\n  Commit:    %s\n  Branch:    %s\n  Built:     %s\n  Go:        %s\n  Platform:  %s",
		i.Version, i.Commit, i.Branch, i.BuildDate, i.GoVersion, i.Platform,
	)
}
