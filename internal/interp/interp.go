// Package interp is the façade over the full pipeline: Load builds the AST
// and comment store from source text, Run evaluates, and Render produces
// the rewritten source. The CLI wires these together around one file read
// and one file write.
package interp

import (
	"io"
	"log/slog"
	"os"

	"zac/internal/ast"
	"zac/internal/comment"
	"zac/internal/evaluator"
	"zac/internal/lexer"
	"zac/internal/object"
	"zac/internal/parser"
)

// Load lexes and parses src, returning the program and the comment blocks
// keyed by name with their byte spans recorded.
func Load(src string) (*ast.Program, *comment.Store, error) {
	l := lexer.New(src)
	p := parser.New(l, src)
	program := p.ParseProgram()

	if diags := l.Errors(); len(diags) > 0 {
		d := diags[0]
		line, col := parser.GetLineAndColumn(src, d.Position)
		return nil, nil, &LoadError{Line: line, Col: col, Msg: d.Msg}
	}
	if errs := p.Errors(); len(errs) > 0 {
		return nil, nil, &ParseError{Errors: errs}
	}

	slog.Debug("program loaded",
		slog.Int("statements", len(program.Statements)),
		slog.Int("comment-blocks", l.Store().Len()))
	return program, l.Store(), nil
}

// Options configures a single run.
type Options struct {
	// Out receives the output of the print builtin. Defaults to stdout.
	Out io.Writer
}

// Run evaluates the program against a fresh global environment. The store
// accumulates comment writes; a fault aborts before any of them reach the
// file.
func Run(program *ast.Program, store *comment.Store, opts Options) (object.Object, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	e := evaluator.New(store, out)
	env := object.NewEnvironment()

	result := e.Eval(program, env)
	if errObj, ok := result.(*object.Error); ok {
		return nil, &RuntimeError{Msg: errObj.Message}
	}
	return result, nil
}

// Render rewrites every mutated block's span in the original text, leaving
// all other bytes untouched. A run that mutated nothing renders output
// byte-identical to its input.
func Render(original string, store *comment.Store, policy comment.Policy) (string, error) {
	return comment.Render(original, store, policy)
}
