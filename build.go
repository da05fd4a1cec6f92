package scssbuild

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/yacobolo/scssbuild/internal/sass"
)

// Build is the main entry point
func Build(config Config) (*BuildResult, error) {
	start := time.Now()
	config = withDefaults(config)
	log := config.Logger.With().Str("component", "scssbuild").Logger()

	// 1. Ensure the output root exists
	if err := createDirectory(config.Fs, config.OutputDir); err != nil {
		return nil, err
	}

	// 2. Publish the site configuration before any stylesheet can read it
	registry := NewConfigRegistry()
	registry.Set(config.Site)

	opts := sass.Options{
		Fs:        config.Fs,
		Style:     config.Style,
		LoadPaths: append([]string{config.AssetDir}, config.LoadPaths...),
		Functions: map[string]sass.Function{ConfigFunctionName: registry.Accessor()},
		Logger:    &log,
	}

	// 3. Discover sources
	sources, err := Discover(config.Fs, config.AssetDir, DiscoverOptions{Ignore: config.Ignore})
	if err != nil {
		return nil, fmt.Errorf("discover failed: %w", err)
	}
	log.Debug().Int("files", len(sources)).Str("dir", config.AssetDir).Msg("discovered stylesheets")

	// 4. Compile and write each source
	result := &BuildResult{FilesDiscovered: len(sources)}
	for _, src := range sources {
		out, err := compileSource(config, opts, src)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("source", src.Rel).Str("output", out).Msg("compiled")
		result.Outputs = append(result.Outputs, CompiledOutput{Source: src.Rel, Output: out})
	}

	// 5. Reject colliding outputs
	if err := ValidateOutputs(result.Outputs); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	log.Info().Int("files", len(result.Outputs)).Dur("duration", result.Duration).Msg("stylesheets built")
	return result, nil
}

// compileSource compiles one stylesheet and writes it under the output root.
func compileSource(config Config, opts sass.Options, src SourceFile) (string, error) {
	css, err := config.Compile(src.Path, opts)
	if err != nil {
		return "", &CompilerError{Source: src.Rel, Err: err}
	}
	out := OutputPath(config.OutputDir, src.Rel)
	if err := createDirectory(config.Fs, filepath.Dir(out)); err != nil {
		return "", err
	}
	if err := createFile(config.Fs, out, css); err != nil {
		return "", err
	}
	return out, nil
}

// OutputPath mirrors rel under outputDir with a .css extension.
func OutputPath(outputDir, rel string) string {
	p := filepath.Join(outputDir, filepath.FromSlash(rel))
	return strings.TrimSuffix(p, filepath.Ext(p)) + ".css"
}

func withDefaults(config Config) Config {
	if config.Fs == nil {
		config.Fs = afero.NewOsFs()
	}
	if config.Compile == nil {
		config.Compile = sass.CompileFile
	}
	if config.Logger == nil {
		nop := zerolog.Nop()
		config.Logger = &nop
	}
	return config
}
