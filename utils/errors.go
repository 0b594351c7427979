package utils

import (
	"errors"
	"fmt"
)

// Error kinds for fatal pipeline failures. Match them with errors.Is.
var (
	ErrFileNotFound = errors.New("file not found")
	ErrParse        = errors.New("parse error")
	ErrWrite        = errors.New("write error")
	ErrSource       = errors.New("source error")
	ErrConfig       = errors.New("config error")
)

// PipelineError carries the failing kind together with the offending path and line
type PipelineError struct {
	Kind error
	Path string
	Line int // 0 when not tied to a line
	Err  error
}

func (e *PipelineError) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	if e.Err == nil {
		return fmt.Sprintf("%v: %s", e.Kind, loc)
	}
	return fmt.Sprintf("%v: %s: %v", e.Kind, loc, e.Err)
}

// Is reports whether target is this error's kind.
func (e *PipelineError) Is(target error) bool {
	return e.Kind == target
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewPipelineError builds a PipelineError of the given kind.
func NewPipelineError(kind error, path string, line int, err error) *PipelineError {
	return &PipelineError{Kind: kind, Path: path, Line: line, Err: err}
}
