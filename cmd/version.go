package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// resolvedVersion prefers the ldflags version, then the module version
// recorded by go install. Anything that is not semver reads as (devel).
func resolvedVersion() string {
	v := version
	if v != "" && v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		if info, ok := debug.ReadBuildInfo(); ok {
			v = info.Main.Version
		}
	}
	if !semver.IsValid(v) {
		return "(devel)"
	}
	return semver.Canonical(v) + semver.Build(v)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "mathpace", resolvedVersion())
	},
}
