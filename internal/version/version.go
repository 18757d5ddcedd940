// Package version holds build metadata for the doxa binary.
//
// Set at build time:
//
//	go build -ldflags "-X github.com/jmylchreest/doxa/internal/version.Version=1.0.0 ..."
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	Dirty     = "false"
	BuildDate = "unknown"
)

// String returns the version, suffixed with -dirty for unclean builds.
func String() string {
	if Dirty == "true" {
		return Version + "-dirty"
	}
	return Version
}

// Full returns a multi-line description used by --version.
func Full() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", String())
	fmt.Fprintf(&sb, "  commit:  %s\n", Commit)
	fmt.Fprintf(&sb, "  built:   %s\n", BuildDate)
	fmt.Fprintf(&sb, "  go:      %s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return sb.String()
}
