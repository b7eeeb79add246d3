// Package misc keeps build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// set by the linker: -ldflags "-X cssd/misc.version=... -X cssd/misc.githash=..."
var (
	version = "dev"
	githash = "unknown"
)

const appName = "cssd"

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return githash
}

// GetAppName returns program name without extension, falling back to the
// default name when executable name cannot be determined.
func GetAppName() string {
	if len(os.Args) == 0 || len(os.Args[0]) == 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	if strings.HasSuffix(name, ".test") {
		// go test binary
		return appName
	}
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return appName
	}
	return name
}
