package object

import (
	"bytes"
	"math/big"
	"strings"

	"zac/internal/ast"
)

const (
	UNIT_OBJ    = "UNIT"
	BOOLEAN_OBJ = "BOOLEAN"
	NUMBER_OBJ  = "NUMBER"
	STRING_OBJ  = "STRING"

	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	ERROR_OBJ    = "ERROR"
)

var (
	UNIT  = &Unit{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type ObjectType string

type Object interface {
	Type() ObjectType
	Inspect() string
}

// Number is an arbitrary-range signed integer.
type Number struct {
	Value *big.Int
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return n.Value.String() }

// NewNumber wraps an int64 for convenience in builtins and tests.
func NewNumber(v int64) *Number {
	return &Number{Value: big.NewInt(v)}
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Unit is the value of an empty block. There is no way to name it in the
// language.
type Unit struct{}

func (u *Unit) Type() ObjectType { return UNIT_OBJ }
func (u *Unit) Inspect() string  { return "unit" }

// Function is a closure: parameters, body, and the environment in effect at
// definition time. Calls chain a fresh scope onto Env, not onto the
// caller's scope.
type Function struct {
	Name       string
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	var out bytes.Buffer

	params := []string{}
	for _, p := range f.Parameters {
		params = append(params, p.String())
	}

	out.WriteString("defn ")
	out.WriteString(f.Name)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())

	return out.String()
}

type BuiltinFunction func(args ...Object) Object

type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// Error carries a runtime fault through evaluation; the first Error aborts
// the rest of the run.
type Error struct {
	Message string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return "ERROR: " + e.Message }
