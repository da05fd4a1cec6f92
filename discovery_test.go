package scssbuild

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func rels(sources []SourceFile) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Rel
	}
	return out
}

func TestDiscoverSkipsPartials(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/site/assets/a.scss":           "",
		"/site/assets/_partial.scss":    "",
		"/site/assets/_hidden/b.scss":   "",
		"/site/assets/_hidden/x/c.sass": "",
	})

	sources, err := Discover(fsys, "/site/assets", DiscoverOptions{})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, SourceFile{Path: "/site/assets/a.scss", Rel: "a.scss"}, sources[0])
}

func TestDiscoverWalkOrderAndFilter(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/assets/z.scss":             "",
		"/assets/b.sass":             "",
		"/assets/readme.md":          "",
		"/assets/plain.css":          "",
		"/assets/pages/home.scss":    "",
		"/assets/pages/_shared.scss": "",
		"/assets/pages/deep/x.scss":  "",
		"/assets/vendor/reset.scss":  "",
		"/assets/a.SCSS":             "",
	})

	sources, err := Discover(fsys, "/assets", DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"b.sass",
		"pages/deep/x.scss",
		"pages/home.scss",
		"vendor/reset.scss",
		"z.scss",
	}, rels(sources))
}

func TestDiscoverRootMayBePartial(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/_assets/main.scss":    "",
		"/_assets/_skip/x.scss": "",
	})

	sources, err := Discover(fsys, "/_assets", DiscoverOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.scss"}, rels(sources))
}

func TestDiscoverIgnorePatterns(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{
		"/assets/main.scss":        "",
		"/assets/drafts/wip.scss":  "",
		"/assets/print.scss":       "",
		"/assets/pages/print.scss": "",
		"/assets/pages/home.scss":  "",
	})

	sources, err := Discover(fsys, "/assets", DiscoverOptions{Ignore: []string{"drafts/", "print.scss"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.scss", "pages/home.scss"}, rels(sources))
}

func TestDiscoverMissingRoot(t *testing.T) {
	sources, err := Discover(afero.NewMemMapFs(), "/nowhere", DiscoverOptions{})
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestDiscoverRootIsFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFiles(t, fsys, map[string]string{"/assets": "not a dir"})

	sources, err := Discover(fsys, "/assets", DiscoverOptions{})
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestSourceFileIsPartial(t *testing.T) {
	tests := []struct {
		rel  string
		want bool
	}{
		{"a.scss", false},
		{"_a.scss", true},
		{"pages/home.scss", false},
		{"_lib/mixins.scss", true},
		{"pages/_shared/x.scss", true},
		{"my_file.scss", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SourceFile{Rel: tt.rel}.IsPartial(), tt.rel)
	}
}
