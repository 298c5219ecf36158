package interp

import (
	"fmt"
	"strings"
)

// LoadError is a lex-time fault: unterminated literal, unknown symbol,
// duplicate comment-block name, malformed row. Nothing evaluates after one.
type LoadError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError aggregates the parser's positioned messages. No partial
// execution happens on a parse error.
type ParseError struct {
	Errors []string
}

func (e *ParseError) Error() string {
	return "parse error:\n\t" + strings.Join(e.Errors, "\n\t")
}

// RuntimeError aborts evaluation; writeback never runs after one, so a
// faulting program cannot corrupt its source file.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string {
	return "runtime error: " + e.Msg
}
