package scssbuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"
)

// sourcePattern matches compilable stylesheet names.
const sourcePattern = "*.{sass,scss}"

// Discover returns the non-partial stylesheets under assetDir in lexical walk
// order. Directories below assetDir whose names start with "_" are not entered.
// A missing assetDir yields no sources and no error.
func Discover(fsys afero.Fs, assetDir string, opts DiscoverOptions) ([]SourceFile, error) {
	info, err := fsys.Stat(assetDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat asset directory: %w", err)
	}
	if !info.IsDir() {
		return nil, nil
	}

	var gi *ignore.GitIgnore
	if len(opts.Ignore) > 0 {
		gi = ignore.CompileIgnoreLines(opts.Ignore...)
	}

	var sources []SourceFile
	err = afero.Walk(fsys, assetDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() {
			if path != assetDir && strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, "_") {
			return nil
		}
		ok, err := doublestar.Match(sourcePattern, name)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(assetDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		sources = append(sources, SourceFile{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk asset directory: %w", err)
	}
	return sources, nil
}
