package sass

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

var sourceExtensions = []string{".scss", ".sass"}

// resolve finds the file an @import or @use URL refers to. The importing
// file's directory is searched first, then each load path.
func (c *compiler) resolve(dir, url string) (string, error) {
	bases := append([]string{dir}, c.loadPaths...)
	for _, base := range bases {
		if p, ok := c.find(filepath.Join(base, filepath.FromSlash(url))); ok {
			return p, nil
		}
	}
	return "", fmt.Errorf("Can't find stylesheet to import: %q.", url)
}

// find tries, in order: the exact file, name.scss, name.sass, the partial
// _name.scss and _name.sass, then name/_index and name/index.
func (c *compiler) find(p string) (string, bool) {
	dir, base := filepath.Split(p)
	ext := filepath.Ext(p)
	if ext == ".scss" || ext == ".sass" || ext == ".css" {
		return c.firstFile(p, filepath.Join(dir, "_"+base))
	}
	var candidates []string
	for _, e := range sourceExtensions {
		candidates = append(candidates, p+e)
	}
	for _, e := range sourceExtensions {
		candidates = append(candidates, filepath.Join(dir, "_"+base+e))
	}
	for _, e := range sourceExtensions {
		candidates = append(candidates, filepath.Join(p, "_index"+e), filepath.Join(p, "index"+e))
	}
	return c.firstFile(candidates...)
}

func (c *compiler) firstFile(paths ...string) (string, bool) {
	for _, p := range paths {
		info, err := c.fs.Stat(p)
		if err == nil && !info.IsDir() {
			return filepath.Clean(p), true
		}
	}
	return "", false
}

// load reads and parses a stylesheet once per compilation.
func (c *compiler) load(path string) ([]stmt, error) {
	path = filepath.Clean(path)
	if stmts, ok := c.parsed[path]; ok {
		return stmts, nil
	}
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	stmts, err := parseStylesheet(string(data), path)
	if err != nil {
		return nil, err
	}
	c.parsed[path] = stmts
	return stmts, nil
}
