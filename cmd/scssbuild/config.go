package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/yacobolo/scssbuild"
	"github.com/yacobolo/scssbuild/internal/report"
	"github.com/yacobolo/scssbuild/internal/sass"
	"github.com/yacobolo/scssbuild/internal/siteconfig"
)

var k = koanf.New(".")

// configSections are the nested sections of .scssbuild.yaml.
var configSections = []string{"build", "watch"}

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	// Resolve config file path from flag
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".scssbuild.yaml"
	}

	// Load config file and env vars
	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set)
	if err := k.Load(posflag.Provider(cmd.Flags(), ".", nil), nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (SCSSBUILD_* prefix)
	if err := k.Load(env.Provider("SCSSBUILD_", ".", envKey), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// envKey maps an environment variable to a config key:
// SCSSBUILD_BUILD_OUTPUT_DIR -> build.output-dir, SCSSBUILD_VERBOSE -> verbose.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "SCSSBUILD_"))
	for _, section := range configSections {
		if rest, ok := strings.CutPrefix(s, section+"_"); ok {
			return section + "." + strings.ReplaceAll(rest, "_", "-")
		}
	}
	return strings.ReplaceAll(s, "_", "-")
}

// outputSettings controls how results are printed
type outputSettings struct {
	format    report.Format
	quiet     bool
	useColors bool
}

// buildOutputSettings reads the output settings from koanf state.
func buildOutputSettings() (outputSettings, error) {
	format, err := report.ParseFormat(getStringWithFallback("output-format", "build.output-format", "text"))
	if err != nil {
		return outputSettings{}, err
	}
	return outputSettings{
		format:    format,
		quiet:     getBoolWithFallback("quiet", "quiet", false),
		useColors: report.ShouldUseColors(getBoolWithFallback("color", "color", false)),
	}, nil
}

// buildLibraryConfig constructs the library's Config struct from koanf state.
// The site configuration document is loaded here.
func buildLibraryConfig(fsys afero.Fs, logger *zerolog.Logger) (scssbuild.Config, error) {
	style, err := sass.ParseOutputStyle(getStringWithFallback("style", "build.style", "compressed"))
	if err != nil {
		return scssbuild.Config{}, err
	}

	config := scssbuild.Config{
		AssetDir:  getStringWithFallback("asset-dir", "build.asset-dir", "assets"),
		OutputDir: getStringWithFallback("output-dir", "build.output-dir", "public"),
		LoadPaths: getStringsWithFallback("load-path", "build.load-paths", nil),
		Ignore:    getStringsWithFallback("ignore", "build.ignore", nil),
		Style:     style,
		Fs:        fsys,
		Logger:    logger,
	}

	if path := getStringWithFallback("site-config", "build.site-config", ""); path != "" {
		site, err := siteconfig.Load(fsys, path)
		if err != nil {
			return scssbuild.Config{}, err
		}
		config.Site = site
	}

	return config, nil
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getStringsWithFallback is getStringWithFallback for lists. Environment
// values are comma-separated.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	for _, key := range []string{flagKey, configKey} {
		if !k.Exists(key) {
			continue
		}
		if s, ok := k.Get(key).(string); ok {
			return splitList(s)
		}
		if v := k.Strings(key); len(v) > 0 {
			return v
		}
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getDurationWithFallback checks the flag key first, then the config file key, then returns the default.
func getDurationWithFallback(flagKey, configKey string, defaultVal time.Duration) time.Duration {
	if k.Exists(flagKey) {
		return k.Duration(flagKey)
	}
	if k.Exists(configKey) {
		return k.Duration(configKey)
	}
	return defaultVal
}

// splitList splits comma-separated values into a slice
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
