package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/scssbuild
var version = "dev"

// resolvedVersion prefers the ldflags version, then the module version
// recorded by "go install module@version".
func resolvedVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of scssbuild",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scssbuild %s\n", resolvedVersion())
	},
}

func init() {
	// Enables --version on the root command; shell completion comes from
	// cobra's built-in completion command.
	rootCmd.Version = resolvedVersion()
	rootCmd.SetVersionTemplate("scssbuild {{.Version}}\n")
}
