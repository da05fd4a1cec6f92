package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yacobolo/scssbuild"
	"github.com/yacobolo/scssbuild/internal/sass"
)

var sampleResult = &scssbuild.BuildResult{
	Outputs: []scssbuild.CompiledOutput{
		{Source: "main.scss", Output: "public/main.css"},
		{Source: "pages/blog.sass", Output: "public/pages/blog.css"},
	},
	FilesDiscovered: 2,
	Duration:        12 * time.Millisecond,
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"markdown", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleResult, false)

	assert.Equal(t, `main.scss -> public/main.css
pages/blog.sass -> public/pages/blog.css
Compiled 2 stylesheets in 12ms
`, buf.String())
}

func TestWriteTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, &scssbuild.BuildResult{}, false)

	assert.Contains(t, buf.String(), "Compiled 0 stylesheets in 0s")
	assert.Contains(t, buf.String(), "Hint:")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	assert.Equal(t, "1.0", got["version"])
	_, err := time.Parse(time.RFC3339, got["timestamp"].(string))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"files_discovered": 2.0,
		"files_compiled":   2.0,
		"duration_ms":      12.0,
	}, got["summary"])
	assert.Equal(t, []any{
		map[string]any{"source": "main.scss", "output": "public/main.css"},
		map[string]any{"source": "pages/blog.sass", "output": "public/pages/blog.css"},
	}, got["outputs"])
	assert.NotContains(t, got, "error")
}

func TestWriteJSONError(t *testing.T) {
	err := &scssbuild.CompilerError{
		Source: "bad.scss",
		Err:    &sass.Error{Path: "assets/bad.scss", Line: 2, Message: "Undefined variable: $nope."},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSONError(&buf, err))

	var got JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.NotNil(t, got.Error)
	assert.Equal(t, JSONError{
		Kind:    scssbuild.KindCompile,
		Message: "compile bad.scss: assets/bad.scss:2: Undefined variable: $nope.",
		File:    "assets/bad.scss",
		Line:    2,
	}, *got.Error)
	assert.Empty(t, got.Outputs)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "compile error with location",
			err: fmt.Errorf("build: %w", &scssbuild.CompilerError{
				Source: "bad.scss",
				Err:    &sass.Error{Path: "assets/bad.scss", Line: 2, Message: "Undefined variable: $nope."},
			}),
			want: "Build failed\nassets/bad.scss:2: Undefined variable: $nope. (compile)\n",
		},
		{
			name: "compile error without location",
			err:  &scssbuild.CompilerError{Source: "x.scss", Err: errors.New("boom")},
			want: "Build failed\nx.scss: boom (compile)\n",
		},
		{
			name: "collision",
			err:  &scssbuild.OutputCollisionError{First: "a.sass", Second: "a.scss", Output: "public/a.css"},
			want: "Build failed\npublic/a.css is produced by two stylesheets:\n  a.sass\n  a.scss\n" +
				"Hint: rename one of them or turn it into a partial (_name)\n",
		},
		{
			name: "io error",
			err:  &scssbuild.IOError{Op: "write file", Path: "public/a.css", Err: errors.New("permission denied")},
			want: "Build failed\npublic/a.css: permission denied (write file)\n",
		},
		{
			name: "other",
			err:  errors.New("discover failed: boom"),
			want: "Build failed\ndiscover failed: boom\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteError(&buf, tt.err, false)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestPaint(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "plain", NewReporter(&buf, false).paint(styleFailure, "plain"))
	assert.Contains(t, NewReporter(&buf, true).paint(styleFailure, "colored"), "colored")
}

func TestPluralizeCount(t *testing.T) {
	assert.Equal(t, "1 stylesheet", pluralizeCount(1, "stylesheet", "stylesheets"))
	assert.Equal(t, "3 stylesheets", pluralizeCount(3, "stylesheet", "stylesheets"))
}
