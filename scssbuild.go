// Package scssbuild provides the stylesheet compilation stage of a static site build.
//
// scssbuild discovers SCSS and indented Sass sources under a site's asset
// directory, compiles each one to CSS, mirrors it under the output directory
// and refuses builds where two sources would write the same file.
//
// # Building
//
// Compile every non-partial stylesheet:
//
//	result, err := scssbuild.Build(scssbuild.Config{
//		AssetDir:  "assets",
//		OutputDir: "public",
//		Site:      map[string]any{"title": "My Site"},
//	})
//
// Files and directories whose names start with "_" are partials. They are
// never compiled directly but stay importable.
//
// # Site configuration
//
// Stylesheets read the site configuration through the site-config()
// function. Tables become maps with quoted keys and arrays become bracketed
// lists:
//
//	$site: site-config();
//	.title::before { content: map-get($site, "title"); }
//
// # CLI Tool
//
// scssbuild also provides a CLI tool. Install with:
//
//	go install github.com/yacobolo/scssbuild/cmd/scssbuild@latest
package scssbuild

// Public API:
// - Build(config Config) (*BuildResult, error)
// - Discover(fsys afero.Fs, assetDir string, opts DiscoverOptions) ([]SourceFile, error)
// - ValidateOutputs(outputs []CompiledOutput) error
// - Watch(ctx context.Context, config Config, onBuild func(*BuildResult, error)) error
