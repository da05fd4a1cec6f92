package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yacobolo/scssbuild"
	"github.com/yacobolo/scssbuild/internal/report"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild stylesheets whenever they change",
	Long: `Build once, then rebuild whenever a stylesheet or partial under the asset
directory or a load path changes. Stops on Ctrl-C.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	addBuildFlags(watchCmd)
	watchCmd.Flags().Duration("debounce", scssbuild.WatchDebounce, "Quiet period before a rebuild")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	out, err := buildOutputSettings()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), getBoolWithFallback("verbose", "verbose", false), out.quiet)

	config, err := buildLibraryConfig(afero.NewOsFs(), &logger)
	if err != nil {
		return err
	}
	scssbuild.WatchDebounce = getDurationWithFallback("debounce", "watch.debounce", scssbuild.WatchDebounce)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := cmd.OutOrStdout()
	logger.Info().Str("dir", config.AssetDir).Msg("watching for changes")
	return scssbuild.Watch(ctx, config, func(result *scssbuild.BuildResult, err error) {
		if out.quiet {
			return
		}
		if err != nil {
			if out.format == report.FormatJSON {
				_ = report.WriteJSONError(w, err)
				return
			}
			report.WriteError(w, err, out.useColors)
			return
		}
		if werr := report.Write(w, result, out.format, out.useColors); werr != nil {
			logger.Error().Err(werr).Msg("cannot write report")
		}
	})
}
