// Package report formats build results and build errors for the terminal
// and for machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/yacobolo/scssbuild"
	"github.com/yacobolo/scssbuild/internal/sass"
)

// Format selects how results are written
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat parses an --output-format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text or json)", s)
}

// ShouldUseColors reports whether text output should be colored. force
// comes from the --color flag.
func ShouldUseColors(force bool) bool {
	// Explicit flag wins
	if force {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	// CI systems that render ANSI colors
	if os.Getenv("FORCE_COLOR") != "" || os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}

	// Auto-detect TTY
	if fileInfo, err := os.Stdout.Stat(); err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// Reporter writes human-readable build reports
type Reporter struct {
	w         io.Writer
	useColors bool
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, useColors bool) *Reporter {
	return &Reporter{w: w, useColors: useColors}
}

// PrintOutputs prints one line per compiled stylesheet: "source -> output".
func (r *Reporter) PrintOutputs(result *scssbuild.BuildResult) {
	for _, out := range result.Outputs {
		fmt.Fprintf(r.w, "%s %s %s\n",
			r.paint(stylePath, out.Source),
			r.paint(styleMuted, "->"),
			out.Output)
	}
}

// PrintSummary prints the compiled and discovered counts and the duration.
func (r *Reporter) PrintSummary(result *scssbuild.BuildResult) {
	line := fmt.Sprintf("Compiled %s in %s",
		pluralizeCount(len(result.Outputs), "stylesheet", "stylesheets"),
		result.Duration.Round(time.Millisecond))
	fmt.Fprintln(r.w, r.paint(styleSuccess, line))

	if len(result.Outputs) == 0 {
		fmt.Fprintln(r.w, r.paint(styleMuted, "Hint: sources are *.scss and *.sass files not starting with _"))
	}
}

// PrintError describes a failed build. Compile errors show the stylesheet
// location when the compiler reported one.
func (r *Reporter) PrintError(err error) {
	fmt.Fprintln(r.w, r.paint(styleFailure, "Build failed"))

	var compileErr *scssbuild.CompilerError
	var ioErr *scssbuild.IOError
	var collision *scssbuild.OutputCollisionError
	switch {
	case errors.As(err, &compileErr):
		var sassErr *sass.Error
		if errors.As(compileErr.Err, &sassErr) {
			location := sassErr.Path + ":"
			if sassErr.Line > 0 {
				location = fmt.Sprintf("%s:%d:", sassErr.Path, sassErr.Line)
			}
			fmt.Fprintf(r.w, "%s %s%s\n",
				r.paint(stylePath, location),
				sassErr.Message,
				r.paint(styleMuted, " ("+scssbuild.KindCompile+")"))
			return
		}
		fmt.Fprintf(r.w, "%s %v%s\n",
			r.paint(stylePath, compileErr.Source+":"),
			compileErr.Err,
			r.paint(styleMuted, " ("+scssbuild.KindCompile+")"))
	case errors.As(err, &collision):
		fmt.Fprintf(r.w, "%s\n  %s\n  %s\n",
			r.paint(styleCollision, collision.Output)+" is produced by two stylesheets:",
			r.paint(stylePath, collision.First),
			r.paint(stylePath, collision.Second))
		fmt.Fprintln(r.w, r.paint(styleMuted, "Hint: rename one of them or turn it into a partial (_name)"))
	case errors.As(err, &ioErr):
		fmt.Fprintf(r.w, "%s %v%s\n",
			r.paint(stylePath, ioErr.Path+":"),
			ioErr.Err,
			r.paint(styleMuted, " ("+ioErr.Op+")"))
	default:
		fmt.Fprintln(r.w, err.Error())
	}
}

// WriteText writes the outputs and the summary.
func WriteText(w io.Writer, result *scssbuild.BuildResult, useColors bool) {
	r := NewReporter(w, useColors)
	r.PrintOutputs(result)
	r.PrintSummary(result)
}

// WriteError writes a failed build as text.
func WriteError(w io.Writer, err error, useColors bool) {
	NewReporter(w, useColors).PrintError(err)
}

// Write writes a build result in format.
func Write(w io.Writer, result *scssbuild.BuildResult, format Format, useColors bool) error {
	if format == FormatJSON {
		return WriteJSON(w, result)
	}
	WriteText(w, result, useColors)
	return nil
}

// pluralizeCount returns a formatted string with count and singular/plural form
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}
