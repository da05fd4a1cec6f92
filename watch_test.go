package scssbuild

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buildEvent struct {
	result *BuildResult
	err    error
}

func waitBuild(t *testing.T, builds <-chan buildEvent) buildEvent {
	t.Helper()
	select {
	case ev := <-builds:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for build")
		return buildEvent{}
	}
}

func TestWatchRebuildsOnPartialChange(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	public := filepath.Join(dir, "public")
	require.NoError(t, os.MkdirAll(filepath.Join(assets, "_lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "_lib", "colors.scss"), []byte("$c: red;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "main.scss"), []byte(`@import "_lib/colors"; .a { color: $c; }`), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan buildEvent, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, Config{AssetDir: assets, OutputDir: public}, func(r *BuildResult, err error) {
			builds <- buildEvent{r, err}
		})
	}()

	first := waitBuild(t, builds)
	require.NoError(t, first.err)
	css, err := os.ReadFile(filepath.Join(public, "main.css"))
	require.NoError(t, err)
	assert.Equal(t, ".a{color:red}", string(css))

	require.NoError(t, os.WriteFile(filepath.Join(assets, "_lib", "colors.scss"), []byte("$c: blue;"), 0o644))

	second := waitBuild(t, builds)
	require.NoError(t, second.err)
	css, err = os.ReadFile(filepath.Join(public, "main.css"))
	require.NoError(t, err)
	assert.Equal(t, ".a{color:blue}", string(css))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestWatchReportsBuildErrors(t *testing.T) {
	dir := t.TempDir()
	assets := filepath.Join(dir, "assets")
	require.NoError(t, os.MkdirAll(assets, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(assets, "main.scss"), []byte(".a { color: $nope; }"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan buildEvent, 4)
	go func() {
		_ = Watch(ctx, Config{AssetDir: assets, OutputDir: filepath.Join(dir, "public")}, func(r *BuildResult, err error) {
			builds <- buildEvent{r, err}
		})
	}()

	first := waitBuild(t, builds)
	require.Error(t, first.err)
	assert.Equal(t, KindCompile, ErrorKind(first.err))

	require.NoError(t, os.WriteFile(filepath.Join(assets, "main.scss"), []byte("$nope: red; .a { color: $nope; }"), 0o644))
	second := waitBuild(t, builds)
	require.NoError(t, second.err)
	assert.Len(t, second.result.Outputs, 1)
}

func TestWatchRequiresOsFs(t *testing.T) {
	err := Watch(context.Background(), Config{Fs: afero.NewMemMapFs()}, func(*BuildResult, error) {})
	require.EqualError(t, err, "watch requires the OS filesystem")
}

func TestTriggersRebuild(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"scss write", fsnotify.Event{Name: "assets/a.scss", Op: fsnotify.Write}, true},
		{"sass create", fsnotify.Event{Name: "assets/b.sass", Op: fsnotify.Create}, true},
		{"css import changed", fsnotify.Event{Name: "assets/vendor.css", Op: fsnotify.Write}, true},
		{"directory removed", fsnotify.Event{Name: "assets/_lib", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "assets/a.scss", Op: fsnotify.Chmod}, false},
		{"editor swap file", fsnotify.Event{Name: "assets/.a.scss.swp", Op: fsnotify.Write}, false},
		{"output tree", fsnotify.Event{Name: "public/a.css", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, triggersRebuild(tt.ev, "public"))
		})
	}
}
