// Package version reports build information for gantt.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Build variables, set with -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
	GoVer   string `json:"go_version" yaml:"go_version"`
	OS      string `json:"os" yaml:"os"`
	Arch    string `json:"arch" yaml:"arch"`
}

// Current returns the Info of this build.
func Current() *Info {
	return NewInfo(Version, Commit, Date)
}

// NewInfo creates an Info for the given build values and the running platform.
func NewInfo(version, commit, date string) *Info {
	return &Info{
		Version: version,
		Commit:  commit,
		Date:    date,
		GoVer:   runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// IsDev reports whether the binary was built without a release version.
func (i *Info) IsDev() bool {
	return i.Version == "" || i.Version == "dev" || strings.HasSuffix(i.Version, "-dirty")
}

// String returns a one-line version string.
func (i *Info) String() string {
	return fmt.Sprintf("gantt %s (commit: %s, built: %s)", i.Version, i.Commit, i.Date)
}

// FullString returns a multi-line version report.
func (i *Info) FullString() string {
	return fmt.Sprintf(`gantt %s
  Commit:   %s
  Built:    %s
  Go:       %s
  OS/Arch:  %s/%s`, i.Version, i.Commit, i.Date, i.GoVer, i.OS, i.Arch)
}
