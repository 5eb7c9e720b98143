// Package errors tags errors with the place they pass through.
//
// Usage:
//
//	return xe.WrapWithNote(path, err)
//
// The message of a tagged error reads like
//
//	@ pkg.Func "file.go" l42 (note) <- cause
//
// so a chain of tags shows the route an error took. `errors.Is` and
// `errors.As` see through tags.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// Tagged is an error annotated with its call site.
type Tagged struct {
	funcname string
	file     string
	line     int
	note     string
	err      error
}

func (e *Tagged) File() string {
	return e.file
}

func (e *Tagged) Line() int {
	return e.line
}

func (e *Tagged) Func() string {
	return e.funcname
}

func (e *Tagged) Note() string {
	return e.note
}

func (e *Tagged) Error() string {
	loc := fmt.Sprintf(`@ %s "%s" l%d`, e.funcname, e.file, e.line)
	if e.note != "" {
		loc += " (" + e.note + ")"
	}
	return loc + " <- " + e.err.Error()
}

func (e *Tagged) Unwrap() error {
	return e.err
}

// New creates a tagged error with text.
func New(text string) error {
	return tag("", errors.New(text), 1)
}

// Wrap tags err with the caller of Wrap. nil stays nil.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	return tag("", err, 1)
}

// WrapWithNote is Wrap with an additional note, typically the subject of the failed operation.
func WrapWithNote(note string, err error) error {
	if err == nil {
		return nil
	}
	return tag(note, err, 1)
}

func tag(note string, err error, depth int) error {
	t := &Tagged{funcname: "(unknown func)", file: "?", line: -1, note: note, err: err}
	pc, file, line, ok := runtime.Caller(depth + 1)
	if !ok {
		return t
	}
	t.file, t.line = file, line
	if fn := runtime.FuncForPC(pc); fn != nil {
		t.funcname = fn.Name()
	}
	return t
}
