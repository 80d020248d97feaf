// Package version carries build metadata injected with -ldflags.
package version

import (
	"os"
	"strings"
)

var (
	// Version defaults to "dev" and is read from a VERSION file when not
	// injected at build time.
	Version = "dev"

	BuildTime = ""
	GitCommit = ""
)

func init() {
	if Version == "dev" {
		Version = readVersionFromFile()
	}
}

func readVersionFromFile() string {
	data, err := os.ReadFile("VERSION")
	if err != nil {
		data, err = os.ReadFile("../VERSION")
		if err != nil {
			return "dev"
		}
	}
	v := strings.TrimPrefix(strings.TrimSpace(string(data)), "v")
	if v == "" {
		return "dev"
	}
	return v
}

// GetVersion returns the version with build time and short commit.
func GetVersion() string {
	v := "v" + Version
	if BuildTime != "" {
		v += " (built " + BuildTime + ")"
	}
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 8 {
			commit = commit[:8]
		}
		v += " commit " + commit
	}
	return v
}

func GetShortVersion() string {
	return "v" + Version
}
