// Package app wires configuration, the calculator service and the CLI
// output into one run of fibmod.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/agbru/fibmod/internal/app.Version=v1.0.0 -X github.com/agbru/fibmod/internal/app.Commit=$(git rev-parse --short HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// VersionData is the -version -json document.
type VersionData struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersionInfo snapshots the build variables and the runtime.
func GetVersionInfo() VersionData {
	return VersionData{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// HasVersionFlag reports whether a version flag appears before the "--"
// terminator, so that "fibmod -q -version" works without a full parse.
func HasVersionFlag(args []string) bool {
	return hasFlag(args, "version", "V")
}

// HasJSONFlag reports whether -json appears before the "--" terminator.
func HasJSONFlag(args []string) bool {
	return hasFlag(args, "json")
}

func hasFlag(args []string, names ...string) bool {
	for _, arg := range args {
		if arg == "--" {
			return false
		}
		for _, name := range names {
			if arg == "-"+name || arg == "--"+name {
				return true
			}
		}
	}
	return false
}

// PrintVersion writes the build information as text, or as one JSON
// object when asJSON is set.
func PrintVersion(out io.Writer, asJSON bool) error {
	info := GetVersionInfo()
	if asJSON {
		return json.NewEncoder(out).Encode(info)
	}
	_, err := fmt.Fprintf(out, "fibmod %s\n  Commit:     %s\n  Built:      %s\n  Go version: %s\n  Platform:   %s\n",
		info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
	return err
}
