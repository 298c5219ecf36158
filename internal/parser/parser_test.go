package parser

import (
	"strings"
	"testing"

	"zac/internal/ast"
	"zac/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l, input)
	program := p.ParseProgram()
	checkParserErrors(t, p)
	return program
}

func checkParserErrors(t *testing.T, p *Parser) {
	t.Helper()
	errors := p.Errors()
	if len(errors) == 0 {
		return
	}

	t.Errorf("parser has %d errors", len(errors))
	for _, msg := range errors {
		t.Errorf("parser error: %q", msg)
	}
	t.FailNow()
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input      string
		wantTarget string
		wantValue  string
	}{
		{"let x = 5", "x", "5"},
		{"let ok = true", "ok", "true"},
		{`let s = "abc"`, "s", `"abc"`},
		{"let y = add(x, 1)", "y", "add(x, 1)"},
		{"let #grid = next", "#grid", "next"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("program has %d statements, want 1", len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("statement is %T, want *ast.LetStatement", program.Statements[0])
		}
		if stmt.Target.String() != tt.wantTarget {
			t.Errorf("target wrong. got=%q, want=%q", stmt.Target.String(), tt.wantTarget)
		}
		if stmt.Value.String() != tt.wantValue {
			t.Errorf("value wrong. got=%q, want=%q", stmt.Value.String(), tt.wantValue)
		}
	}
}

func TestDefnStatement(t *testing.T) {
	input := `defn neighbors(g, r, c) {
	let n = 0
	n
}`

	program := parseProgram(t, input)
	if len(program.Statements) != 1 {
		t.Fatalf("program has %d statements, want 1", len(program.Statements))
	}
	stmt, ok := program.Statements[0].(*ast.DefnStatement)
	if !ok {
		t.Fatalf("statement is %T, want *ast.DefnStatement", program.Statements[0])
	}
	if stmt.Name.Value != "neighbors" {
		t.Errorf("name wrong. got=%q", stmt.Name.Value)
	}
	if len(stmt.Parameters) != 3 {
		t.Fatalf("defn has %d parameters, want 3", len(stmt.Parameters))
	}
	for i, want := range []string{"g", "r", "c"} {
		if stmt.Parameters[i].Value != want {
			t.Errorf("parameter %d wrong. got=%q, want=%q", i, stmt.Parameters[i].Value, want)
		}
	}
	if len(stmt.Body.Statements) != 2 {
		t.Errorf("body has %d statements, want 2", len(stmt.Body.Statements))
	}
}

func TestDefnNoParameters(t *testing.T) {
	program := parseProgram(t, "defn f() { 1 }")
	stmt := program.Statements[0].(*ast.DefnStatement)
	if len(stmt.Parameters) != 0 {
		t.Fatalf("defn has %d parameters, want 0", len(stmt.Parameters))
	}
}

func TestCommentRefExpressions(t *testing.T) {
	program := parseProgram(t, "#grid")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	ref, ok := stmt.Expression.(*ast.CommentRef)
	if !ok {
		t.Fatalf("expression is %T, want *ast.CommentRef", stmt.Expression)
	}
	if ref.Name != "grid" {
		t.Errorf("name wrong. got=%q", ref.Name)
	}
}

func TestCommentRefIndexSugar(t *testing.T) {
	program := parseProgram(t, "#grid(add(i, 1))")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.CallExpression", stmt.Expression)
	}
	if _, ok := call.Function.(*ast.CommentRef); !ok {
		t.Fatalf("callee is %T, want *ast.CommentRef", call.Function)
	}
	if len(call.Arguments) != 1 {
		t.Fatalf("call has %d arguments, want 1", len(call.Arguments))
	}
	if call.Arguments[0].String() != "add(i, 1)" {
		t.Errorf("argument wrong. got=%q", call.Arguments[0].String())
	}
}

func TestCallExpression(t *testing.T) {
	program := parseProgram(t, `set(g, 4, "*")`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.CallExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.CallExpression", stmt.Expression)
	}
	if call.Function.String() != "set" {
		t.Errorf("callee wrong. got=%q", call.Function.String())
	}
	if len(call.Arguments) != 3 {
		t.Fatalf("call has %d arguments, want 3", len(call.Arguments))
	}
}

func TestIfExpression(t *testing.T) {
	program := parseProgram(t, "if (eq(x, 1)) { let y = 2 }")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.IfExpression", stmt.Expression)
	}
	if exp.Condition.String() != "eq(x, 1)" {
		t.Errorf("condition wrong. got=%q", exp.Condition.String())
	}
	if len(exp.Consequence.Statements) != 1 {
		t.Errorf("consequence has %d statements, want 1", len(exp.Consequence.Statements))
	}
}

func TestWhileExpression(t *testing.T) {
	program := parseProgram(t, "while (lt(i, 9)) { let i = add(i, 1) }")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	exp, ok := stmt.Expression.(*ast.WhileExpression)
	if !ok {
		t.Fatalf("expression is %T, want *ast.WhileExpression", stmt.Expression)
	}
	if exp.Condition.String() != "lt(i, 9)" {
		t.Errorf("condition wrong. got=%q", exp.Condition.String())
	}
	if len(exp.Body.Statements) != 1 {
		t.Errorf("body has %d statements, want 1", len(exp.Body.Statements))
	}
}

func TestBlockExpression(t *testing.T) {
	program := parseProgram(t, "let x = { let a = 1 add(a, 1) }")
	stmt := program.Statements[0].(*ast.LetStatement)
	block, ok := stmt.Value.(*ast.BlockStatement)
	if !ok {
		t.Fatalf("value is %T, want *ast.BlockStatement", stmt.Value)
	}
	if len(block.Statements) != 2 {
		t.Errorf("block has %d statements, want 2", len(block.Statements))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input   string
		wantMsg string
	}{
		{"let = 5", "expected next token to be IDENT"},
		{"let x 5", "expected next token to be ="},
		{"defn f(a, a) { a }", "duplicate parameter name"},
		{"if (true) { 1", "unmatched delimiter"},
		{"defn f(", "expected parameter name"},
		{"add(1,", "unexpected token"},
		{"5(1)", "cannot call"},
	}

	for _, tt := range tests {
		l := lexer.New(tt.input)
		p := New(l, tt.input)
		p.ParseProgram()

		if len(p.Errors()) == 0 {
			t.Errorf("input %q: expected a parse error, got none", tt.input)
			continue
		}
		found := false
		for _, msg := range p.Errors() {
			if strings.Contains(msg, tt.wantMsg) {
				found = true
			}
		}
		if !found {
			t.Errorf("input %q: no error containing %q in %v", tt.input, tt.wantMsg, p.Errors())
		}
	}
}
