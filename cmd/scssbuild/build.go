package main

import (
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yacobolo/scssbuild"
	"github.com/yacobolo/scssbuild/internal/report"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Compile stylesheets once",
	Long: `Compile every non-partial stylesheet under the asset directory and write
the results under the output directory. Fails when two stylesheets would
write the same .css file.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runBuild,
}

func init() {
	addBuildFlags(buildCmd)
}

// addBuildFlags registers the flags shared by build and watch.
func addBuildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("site-config", "", "Site configuration file (.toml, .yaml, .json or .hcl)")
	f.String("asset-dir", "assets", "Directory searched for stylesheets")
	f.String("output-dir", "public", "Directory compiled CSS is written to")
	f.String("style", "compressed", "Output style: compressed|expanded")
	f.StringSlice("load-path", nil, "Additional import directory (repeatable)")
	f.StringSlice("ignore", nil, "Gitignore-style pattern excluded from discovery (repeatable)")
	f.String("output-format", "text", "Report format: text|json")
}

func runBuild(cmd *cobra.Command, _ []string) error {
	out, err := buildOutputSettings()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), getBoolWithFallback("verbose", "verbose", false), out.quiet)

	fsys := afero.NewOsFs()
	config, err := buildLibraryConfig(fsys, &logger)
	if err != nil {
		return err
	}

	result, err := scssbuild.Build(config)
	if err != nil {
		return reportFailure(cmd.OutOrStdout(), err, out)
	}
	if out.quiet {
		return nil
	}
	return report.Write(cmd.OutOrStdout(), result, out.format, out.useColors)
}

// reportFailure prints a failed build unless quiet and returns errReported.
func reportFailure(w io.Writer, err error, out outputSettings) error {
	if out.quiet {
		return errReported
	}
	if out.format == report.FormatJSON {
		if werr := report.WriteJSONError(w, err); werr != nil {
			return werr
		}
		return errReported
	}
	report.WriteError(w, err, out.useColors)
	return errReported
}
