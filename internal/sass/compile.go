// Package sass compiles SCSS and indented Sass stylesheets to CSS.
//
// It covers the commonly used subset of the language: variables, nesting,
// mixins, functions, control flow, imports and maps. Host code can register
// custom functions that stylesheets call like built-ins.
package sass

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// OutputStyle selects how CSS is formatted.
type OutputStyle int

const (
	// Compressed removes all optional whitespace.
	Compressed OutputStyle = iota
	// Expanded writes one declaration per line.
	Expanded
)

// String returns the style's configuration name.
func (s OutputStyle) String() string {
	if s == Expanded {
		return "expanded"
	}
	return "compressed"
}

// ParseOutputStyle parses "compressed" or "expanded".
func ParseOutputStyle(s string) (OutputStyle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compressed":
		return Compressed, nil
	case "expanded":
		return Expanded, nil
	}
	return Compressed, fmt.Errorf("unknown output style %q (want compressed or expanded)", s)
}

// Function is a host function callable from stylesheets. Arguments are
// positional.
type Function func(args []Value) (Value, error)

// Options configure a compilation.
type Options struct {
	// Fs is the filesystem stylesheets are read from. Defaults to the OS filesystem.
	Fs afero.Fs

	Style OutputStyle

	// LoadPaths are searched for imports after the importing file's directory.
	LoadPaths []string

	// Functions are custom functions by name. Underscores and hyphens are
	// interchangeable.
	Functions map[string]Function

	// Logger receives @debug and @warn output. Nil disables it.
	Logger *zerolog.Logger
}

// Error is a compilation error with its source location.
type Error struct {
	Path    string
	Line    int
	Message string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// CompileFile compiles the stylesheet at path and returns the CSS text.
func CompileFile(path string, opts Options) (string, error) {
	c := newCompiler(opts)
	stmts, err := c.load(path)
	if err != nil {
		return "", err
	}
	return c.run(stmts, path)
}

// CompileString compiles source text. Imports resolve relative to the
// current directory and the load paths. Indented syntax is not detected.
func CompileString(src string, opts Options) (string, error) {
	c := newCompiler(opts)
	const path = "stdin.scss"
	stmts, err := parseStylesheet(src, path)
	if err != nil {
		return "", err
	}
	return c.run(stmts, path)
}

func (c *compiler) run(stmts []stmt, path string) (string, error) {
	c.loading = []string{filepath.Clean(path)}
	f := &frame{scope: c.global, out: &c.root, path: path}
	if _, _, err := c.evalBlock(stmts, f); err != nil {
		return "", err
	}
	return render(c.root, c.compressed), nil
}
