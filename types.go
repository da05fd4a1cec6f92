package scssbuild

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/yacobolo/scssbuild/internal/sass"
)

// CompileFunc compiles the stylesheet at path into CSS text.
type CompileFunc func(path string, opts sass.Options) (string, error)

// Config holds build configuration
type Config struct {
	AssetDir  string   // "assets" (walked for *.scss and *.sass)
	OutputDir string   // "public" (compiled tree is mirrored here)
	LoadPaths []string // Extra import roots searched after AssetDir
	Ignore    []string // Gitignore-style patterns excluded from discovery
	Style     sass.OutputStyle

	// Site is the configuration tree returned by site-config(). It should
	// hold decoded-JSON values: nil, bool, float64, string, []any and
	// map[string]any.
	Site any

	Fs      afero.Fs        // Defaults to the OS filesystem
	Compile CompileFunc     // Defaults to sass.CompileFile
	Logger  *zerolog.Logger // Defaults to a no-op logger
}

// DiscoverOptions control source discovery
type DiscoverOptions struct {
	Ignore []string // Gitignore-style patterns matched against the relative path
}

// SourceFile is a stylesheet found under the asset directory
type SourceFile struct {
	Path string // Joined with the asset directory, handed to the compiler
	Rel  string // Slash-separated path inside the asset directory
}

// IsPartial reports whether the file or any directory above it starts with "_".
func (s SourceFile) IsPartial() bool {
	for _, seg := range strings.Split(s.Rel, "/") {
		if strings.HasPrefix(seg, "_") {
			return true
		}
	}
	return false
}

// CompiledOutput pairs a source with the file it was written to
type CompiledOutput struct {
	Source string // Relative source path: "pages/home.scss"
	Output string // Written file: "public/pages/home.css"
}

// BuildResult contains build stats
type BuildResult struct {
	Outputs         []CompiledOutput
	FilesDiscovered int
	Duration        time.Duration
}
