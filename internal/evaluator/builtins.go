package evaluator

import (
	"fmt"
	"math/big"

	"zac/internal/object"
)

func (e *Evaluator) newBuiltins() map[string]*object.Builtin {
	builtins := map[string]*object.Builtin{
		"add": {Name: "add", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("add", args, 2); err != nil {
				return err
			}
			lhs, err := numberArg("add", args, 0)
			if err != nil {
				return err
			}
			rhs, err := numberArg("add", args, 1)
			if err != nil {
				return err
			}
			return &object.Number{Value: new(big.Int).Add(lhs, rhs)}
		}},

		"mul": {Name: "mul", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("mul", args, 2); err != nil {
				return err
			}
			lhs, err := numberArg("mul", args, 0)
			if err != nil {
				return err
			}
			rhs, err := numberArg("mul", args, 1)
			if err != nil {
				return err
			}
			return &object.Number{Value: new(big.Int).Mul(lhs, rhs)}
		}},

		"eq": {Name: "eq", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("eq", args, 2); err != nil {
				return err
			}
			return compareValues("eq", args[0], args[1])
		}},

		"lt": {Name: "lt", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("lt", args, 2); err != nil {
				return err
			}
			return orderValues("lt", args[0], args[1])
		}},

		"and": {Name: "and", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("and", args, 2); err != nil {
				return err
			}
			lhs, err := booleanArg("and", args, 0)
			if err != nil {
				return err
			}
			rhs, err := booleanArg("and", args, 1)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(lhs && rhs)
		}},

		"or": {Name: "or", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("or", args, 2); err != nil {
				return err
			}
			lhs, err := booleanArg("or", args, 0)
			if err != nil {
				return err
			}
			rhs, err := booleanArg("or", args, 1)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(lhs || rhs)
		}},

		"not": {Name: "not", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("not", args, 1); err != nil {
				return err
			}
			val, err := booleanArg("not", args, 0)
			if err != nil {
				return err
			}
			return nativeBoolToBooleanObject(!val)
		}},

		// get(s, i) returns the one-character string at i, or the false
		// sentinel out of range. Scan loops depend on the sentinel to
		// terminate, so it must never be a fault.
		"get": {Name: "get", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("get", args, 2); err != nil {
				return err
			}
			str, ok := args[0].(*object.String)
			if !ok {
				return newError("argument 1 to get is %s, want %s", args[0].Type(), object.STRING_OBJ)
			}
			return indexString("get", str, args[1:])
		}},

		// set(s, i, c) returns a new string; the caller must `let` the
		// result back into whatever name should hold it.
		"set": {Name: "set", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("set", args, 3); err != nil {
				return err
			}
			str, err := stringArg("set", args, 0)
			if err != nil {
				return err
			}
			idx, err := numberArg("set", args, 1)
			if err != nil {
				return err
			}
			ch, err := stringArg("set", args, 2)
			if err != nil {
				return err
			}
			chRunes := []rune(ch)
			if len(chRunes) != 1 {
				return newError("argument 3 to set is %d characters, want exactly 1", len(chRunes))
			}
			runes := []rune(str)
			if !idx.IsInt64() || idx.Int64() < 0 || idx.Int64() >= int64(len(runes)) {
				return newError("index %s out of range in set (length %d)", idx.String(), len(runes))
			}
			runes[idx.Int64()] = chRunes[0]
			return &object.String{Value: string(runes)}
		}},

		"cat": {Name: "cat", Fn: func(args ...object.Object) object.Object {
			var acc string
			for n := range args {
				str, err := stringArg("cat", args, n)
				if err != nil {
					return err
				}
				acc += str
			}
			return &object.String{Value: acc}
		}},

		"chr": {Name: "chr", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("chr", args, 1); err != nil {
				return err
			}
			code, err := numberArg("chr", args, 0)
			if err != nil {
				return err
			}
			if !code.IsInt64() || code.Int64() < 0 || code.Int64() > 127 {
				return newError("chr code %s is outside the ASCII range", code.String())
			}
			return &object.String{Value: string(rune(code.Int64()))}
		}},

		"show": {Name: "show", Fn: func(args ...object.Object) object.Object {
			if err := wantArgs("show", args, 1); err != nil {
				return err
			}
			return &object.String{Value: showValue(args[0])}
		}},
	}

	builtins["print"] = &object.Builtin{Name: "print", Fn: func(args ...object.Object) object.Object {
		if err := wantArgs("print", args, 1); err != nil {
			return err
		}
		fmt.Fprintln(e.out, args[0].Inspect())
		return args[0]
	}}

	return builtins
}

func wantArgs(name string, args []object.Object, n int) *object.Error {
	if len(args) != n {
		return newError("wrong number of arguments to %s: want %d, got %d", name, n, len(args))
	}
	return nil
}

// compareValues implements eq: operands must share a type, and only value
// types compare.
func compareValues(name string, lhs, rhs object.Object) object.Object {
	if lhs.Type() != rhs.Type() {
		return newError("cannot %s %s and %s", name, lhs.Type(), rhs.Type())
	}
	switch lhs := lhs.(type) {
	case *object.Number:
		return nativeBoolToBooleanObject(lhs.Value.Cmp(rhs.(*object.Number).Value) == 0)
	case *object.String:
		return nativeBoolToBooleanObject(lhs.Value == rhs.(*object.String).Value)
	case *object.Boolean:
		return nativeBoolToBooleanObject(lhs.Value == rhs.(*object.Boolean).Value)
	}
	return newError("cannot %s %s values", name, lhs.Type())
}

func orderValues(name string, lhs, rhs object.Object) object.Object {
	if lhs.Type() != rhs.Type() {
		return newError("cannot %s %s and %s", name, lhs.Type(), rhs.Type())
	}
	switch lhs := lhs.(type) {
	case *object.Number:
		return nativeBoolToBooleanObject(lhs.Value.Cmp(rhs.(*object.Number).Value) < 0)
	case *object.String:
		return nativeBoolToBooleanObject(lhs.Value < rhs.(*object.String).Value)
	}
	return newError("cannot %s %s values", name, lhs.Type())
}

func showValue(val object.Object) string {
	switch val := val.(type) {
	case *object.String:
		return val.Value
	case *object.Number:
		return val.Value.String()
	case *object.Boolean:
		return val.Inspect()
	case *object.Function:
		return "<function>"
	case *object.Builtin:
		return "<builtin>"
	case *object.Unit:
		return "unit"
	}
	return val.Inspect()
}
