package evaluator

import (
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"zac/internal/ast"
	"zac/internal/comment"
	"zac/internal/object"
)

var (
	UNIT  = object.UNIT
	TRUE  = object.TRUE
	FALSE = object.FALSE
)

// Evaluator walks the AST against an Environment and the comment store.
// Comment writes land in the store only; the source file is rewritten by
// the render phase after a fully successful run.
type Evaluator struct {
	store    *comment.Store
	out      io.Writer
	builtins map[string]*object.Builtin
}

func New(store *comment.Store, out io.Writer) *Evaluator {
	e := &Evaluator{store: store, out: out}
	e.builtins = e.newBuiltins()
	return e
}

func (e *Evaluator) Eval(node ast.Node, env *object.Environment) object.Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return e.evalStatements(node.Statements, env)

	case *ast.BlockStatement:
		// Blocks do not open a scope; only function calls do.
		return e.evalStatements(node.Statements, env)

	case *ast.ExpressionStatement:
		return e.Eval(node.Expression, env)

	case *ast.LetStatement:
		return e.evalLetStatement(node, env)

	case *ast.DefnStatement:
		fn := &object.Function{
			Name:       node.Name.Value,
			Parameters: node.Parameters,
			Body:       node.Body,
			Env:        env,
		}
		return env.Define(node.Name.Value, fn)

	// Expressions
	case *ast.NumberLiteral:
		return &object.Number{Value: node.Value}

	case *ast.StringLiteral:
		return &object.String{Value: node.Value}

	case *ast.Boolean:
		return nativeBoolToBooleanObject(node.Value)

	case *ast.Identifier:
		return e.evalIdentifier(node, env)

	case *ast.CommentRef:
		return e.evalCommentRef(node)

	case *ast.IfExpression:
		return e.evalIfExpression(node, env)

	case *ast.WhileExpression:
		return e.evalWhileExpression(node, env)

	case *ast.CallExpression:
		return e.evalCallExpression(node, env)
	}

	return newError("unhandled node %T", node)
}

func (e *Evaluator) evalStatements(stmts []ast.Statement, env *object.Environment) object.Object {
	var result object.Object = UNIT

	for _, statement := range stmts {
		result = e.Eval(statement, env)
		if isError(result) {
			return result
		}
	}

	return result
}

func (e *Evaluator) evalLetStatement(node *ast.LetStatement, env *object.Environment) object.Object {
	val := e.Eval(node.Value, env)
	if isError(val) {
		return val
	}

	switch target := node.Target.(type) {
	case *ast.Identifier:
		return env.Define(target.Value, val)
	case *ast.CommentRef:
		str, ok := val.(*object.String)
		if !ok {
			return newError("cannot store %s in comment block #%s, want %s",
				val.Type(), target.Name, object.STRING_OBJ)
		}
		if err := e.store.SetValue(target.Name, str.Value); err != nil {
			return newError("%s", err.Error())
		}
		slog.Debug("comment block updated",
			slog.String("name", target.Name),
			slog.Int("length", len(str.Value)))
		return val
	}
	return newError("invalid let target %s", node.Target.String())
}

func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *object.Environment) object.Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := e.builtins[node.Value]; ok {
		return builtin
	}
	return newError("undefined identifier: %s", node.Value)
}

func (e *Evaluator) evalCommentRef(node *ast.CommentRef) object.Object {
	if val, ok := e.store.Value(node.Name); ok {
		return &object.String{Value: val}
	}
	if node.Name == HelpBlockName {
		return &object.String{Value: e.helpText()}
	}
	return newError("undefined comment block #%s", node.Name)
}

func (e *Evaluator) evalIfExpression(node *ast.IfExpression, env *object.Environment) object.Object {
	condition := e.Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}
	cond, ok := condition.(*object.Boolean)
	if !ok {
		return newError("if condition is %s, want %s", condition.Type(), object.BOOLEAN_OBJ)
	}
	if !cond.Value {
		return FALSE
	}
	return e.Eval(node.Consequence, env)
}

// evalWhileExpression runs the body in the surrounding scope, so `let`
// inside the body is how loop state advances between iterations. The
// loop's value is the number of iterations.
func (e *Evaluator) evalWhileExpression(node *ast.WhileExpression, env *object.Environment) object.Object {
	count := int64(0)

	for {
		condition := e.Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		cond, ok := condition.(*object.Boolean)
		if !ok {
			return newError("while condition is %s, want %s", condition.Type(), object.BOOLEAN_OBJ)
		}
		if !cond.Value {
			break
		}

		result := e.Eval(node.Body, env)
		if isError(result) {
			return result
		}
		count++
	}

	return object.NewNumber(count)
}

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *object.Environment) object.Object {
	callee := e.Eval(node.Function, env)
	if isError(callee) {
		return callee
	}

	args := make([]object.Object, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		evaluated := e.Eval(arg, env)
		if isError(evaluated) {
			return evaluated
		}
		args = append(args, evaluated)
	}

	return e.applyCall(node.Function.String(), callee, args)
}

func (e *Evaluator) applyCall(name string, callee object.Object, args []object.Object) object.Object {
	switch callee := callee.(type) {
	case *object.Function:
		if len(args) != len(callee.Parameters) {
			return newError("wrong number of arguments to %s: want %d, got %d",
				name, len(callee.Parameters), len(args))
		}
		env := object.NewEnclosedEnvironment(callee.Env)
		for i, param := range callee.Parameters {
			env.Define(param.Value, args[i])
		}
		return e.Eval(callee.Body, env)

	case *object.Builtin:
		return callee.Fn(args...)

	case *object.String:
		// Call syntax on a string indexes into it; out of range is the
		// false sentinel, which is how scan loops find the end.
		return indexString(name, callee, args)

	default:
		return newError("tried to call a %s", callee.Type())
	}
}

func indexString(name string, s *object.String, args []object.Object) object.Object {
	if len(args) != 1 {
		return newError("wrong number of arguments indexing %s: want 1, got %d", name, len(args))
	}
	idx, ok := args[0].(*object.Number)
	if !ok {
		return newError("index into %s is %s, want %s", name, args[0].Type(), object.NUMBER_OBJ)
	}
	runes := []rune(s.Value)
	if !idx.Value.IsInt64() {
		return FALSE
	}
	i := idx.Value.Int64()
	if i < 0 || i >= int64(len(runes)) {
		return FALSE
	}
	return &object.String{Value: string(runes[i])}
}

func nativeBoolToBooleanObject(input bool) *object.Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, a...)}
}

func isError(obj object.Object) bool {
	if obj != nil {
		return obj.Type() == object.ERROR_OBJ
	}
	return false
}

func numberArg(name string, args []object.Object, n int) (*big.Int, *object.Error) {
	num, ok := args[n].(*object.Number)
	if !ok {
		return nil, newError("argument %d to %s is %s, want %s", n+1, name, args[n].Type(), object.NUMBER_OBJ)
	}
	return num.Value, nil
}

func stringArg(name string, args []object.Object, n int) (string, *object.Error) {
	str, ok := args[n].(*object.String)
	if !ok {
		return "", newError("argument %d to %s is %s, want %s", n+1, name, args[n].Type(), object.STRING_OBJ)
	}
	return str.Value, nil
}

func booleanArg(name string, args []object.Object, n int) (bool, *object.Error) {
	b, ok := args[n].(*object.Boolean)
	if !ok {
		return false, newError("argument %d to %s is %s, want %s", n+1, name, args[n].Type(), object.BOOLEAN_OBJ)
	}
	return b.Value, nil
}
