package doson

import (
	"fmt"
	"strings"
)

// Code categorizes an error.
type Code string

const (
	CodeDecode      Code = "decode"       // malformed base64 or structural JSON
	CodeIO          Code = "io"           // file access
	CodeInvalidUTF8 Code = "invalid_utf8" // envelope payload is not UTF-8
	CodeSyntax      Code = "syntax"       // text does not match the grammar
)

// Sentinels for errors.Is. Any *Error (or *SyntaxError) with the same Code
// matches.
var (
	ErrDecode      = &Error{Code: CodeDecode}
	ErrIO          = &Error{Code: CodeIO}
	ErrInvalidUTF8 = &Error{Code: CodeInvalidUTF8}
	ErrSyntax      = &Error{Code: CodeSyntax}
)

// Error is the structured error returned by the explicit constructors and
// decoders of this package.
type Error struct {
	Cause  error
	Code   Code
	Op     string   // operation that failed, e.g. "blob from file"
	Detail string   // human-readable detail
	Path   []string // file path or location inside a JSON document
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString("doson: ")
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Code))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// errorBuilder provides structured error construction.
type errorBuilder struct {
	err Error
}

func newError(code Code, op string) *errorBuilder {
	return &errorBuilder{err: Error{Code: code, Op: op}}
}

func (b *errorBuilder) Path(path ...string) *errorBuilder {
	b.err.Path = path
	return b
}

func (b *errorBuilder) Cause(err error) *errorBuilder {
	b.err.Cause = err
	return b
}

func (b *errorBuilder) Detail(msg string) *errorBuilder {
	b.err.Detail = msg
	return b
}

func (b *errorBuilder) Detailf(format string, args ...any) *errorBuilder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

func (b *errorBuilder) Build() *Error {
	return &b.err
}

// ============================================================
// Syntax Errors
// ============================================================

// Position represents a source location.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String returns position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// SyntaxError reports where the grammar stopped matching. Pos is the
// furthest point any alternative reached.
type SyntaxError struct {
	Expected []string
	Found    string
	Pos      Position
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "doson: syntax error at %s", e.Pos)
	if len(e.Expected) > 0 {
		b.WriteString(": expected ")
		b.WriteString(strings.Join(e.Expected, " or "))
	}
	if e.Found == "" {
		b.WriteString(", found end of input")
	} else {
		fmt.Fprintf(&b, ", found %q", e.Found)
	}
	return b.String()
}

// Is matches ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == CodeSyntax
}
