package scssbuild

import (
	"errors"
	"fmt"
)

// CompilerError reports a stylesheet that failed to compile.
type CompilerError struct {
	Source string // Relative source path
	Err    error  // Usually a *sass.Error with file and line
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("compile %s: %v", e.Source, e.Err)
}

func (e *CompilerError) Unwrap() error { return e.Err }

// IOError reports a failed directory creation or file write.
type IOError struct {
	Op   string // "create directory" or "write file"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// OutputCollisionError reports two sources that compile to the same output path.
type OutputCollisionError struct {
	First  string // Source that sorts first
	Second string
	Output string
}

func (e *OutputCollisionError) Error() string {
	return fmt.Sprintf("stylesheet path conflict: %q and %q both compile to %q", e.First, e.Second, e.Output)
}

// Error kinds returned by ErrorKind
const (
	KindCompile   = "compile"
	KindIO        = "io"
	KindCollision = "collision"
)

// ErrorKind classifies a build error. It returns "" for errors of no known kind.
func ErrorKind(err error) string {
	var compileErr *CompilerError
	var ioErr *IOError
	var collisionErr *OutputCollisionError
	switch {
	case errors.As(err, &compileErr):
		return KindCompile
	case errors.As(err, &ioErr):
		return KindIO
	case errors.As(err, &collisionErr):
		return KindCollision
	}
	return ""
}
