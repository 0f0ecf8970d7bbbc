package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Release builds inject these via -ldflags. A plain `go install` leaves
// them empty and the values fall back to the module's build info, so
// the command stays useful for unstamped binaries too.
var (
	version = ""
	commit  = ""
	date    = ""
)

// shortHashLen is the abbreviated commit hash length.
const shortHashLen = 7

// buildSetting looks up one key in the binary's embedded build
// settings. Empty when the key is absent or the binary carries no
// build info.
func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

// getVersion resolves the version: ldflags first, then the module
// version, then the toolchain's placeholder.
func getVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

// getCommit resolves the abbreviated commit hash.
func getCommit() string {
	hash := commit
	if hash == "" {
		hash = buildSetting("vcs.revision")
	}
	if hash == "" {
		return "unknown"
	}
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash
}

// getDate resolves the build timestamp.
func getDate() string {
	if date != "" {
		return date
	}
	if when := buildSetting("vcs.time"); when != "" {
		return when
	}
	return "unknown"
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of campuscrawl.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "campuscrawl version %s\n", getVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", getCommit())
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", getDate())
		},
	}
}
