package report

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/yacobolo/scssbuild"
	"github.com/yacobolo/scssbuild/internal/sass"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string           `json:"version"`
	Timestamp string           `json:"timestamp"`
	Summary   JSONSummary      `json:"summary"`
	Outputs   []JSONOutputFile `json:"outputs"`
	Error     *JSONError       `json:"error,omitempty"`
}

// JSONSummary contains build counts
type JSONSummary struct {
	FilesDiscovered int   `json:"files_discovered"`
	FilesCompiled   int   `json:"files_compiled"`
	DurationMS      int64 `json:"duration_ms"`
}

// JSONOutputFile is one compiled stylesheet
type JSONOutputFile struct {
	Source string `json:"source"`
	Output string `json:"output"`
}

// JSONError describes a failed build
type JSONError struct {
	Kind    string `json:"kind"` // "compile", "io", "collision" or ""
	Message string `json:"message"`
	File    string `json:"file,omitempty"` // Stylesheet that failed, for compile errors
	Line    int    `json:"line,omitempty"`
}

// WriteJSON writes the build result as JSON
func WriteJSON(w io.Writer, result *scssbuild.BuildResult) error {
	return encode(w, buildJSONOutput(result))
}

// WriteJSONError writes a failed build as JSON
func WriteJSONError(w io.Writer, err error) error {
	output := buildJSONOutput(&scssbuild.BuildResult{})
	output.Error = buildJSONError(err)
	return encode(w, output)
}

func encode(w io.Writer, output JSONOutput) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts a BuildResult to JSONOutput
func buildJSONOutput(result *scssbuild.BuildResult) JSONOutput {
	outputs := make([]JSONOutputFile, len(result.Outputs))
	for i, out := range result.Outputs {
		outputs[i] = JSONOutputFile{Source: out.Source, Output: out.Output}
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			FilesDiscovered: result.FilesDiscovered,
			FilesCompiled:   len(result.Outputs),
			DurationMS:      result.Duration.Milliseconds(),
		},
		Outputs: outputs,
	}
}

func buildJSONError(err error) *JSONError {
	out := &JSONError{Kind: scssbuild.ErrorKind(err), Message: err.Error()}
	var sassErr *sass.Error
	if errors.As(err, &sassErr) {
		out.File = sassErr.Path
		out.Line = sassErr.Line
	}
	return out
}
