package scssbuild

import (
	"github.com/spf13/afero"
)

// createDirectory creates path and any missing parents. Existing directories are fine.
func createDirectory(fsys afero.Fs, path string) error {
	if err := fsys.MkdirAll(path, 0o755); err != nil {
		return &IOError{Op: "create directory", Path: path, Err: err}
	}
	return nil
}

// createFile writes text to path, replacing any existing file.
func createFile(fsys afero.Fs, path, text string) error {
	if err := afero.WriteFile(fsys, path, []byte(text), 0o644); err != nil {
		return &IOError{Op: "write file", Path: path, Err: err}
	}
	return nil
}
