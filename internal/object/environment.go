package object

import "log/slog"

// Environment is a chain of name-to-value scopes. Lookup walks outward to
// the global scope; Define always writes the innermost scope, which is what
// gives `let` its rebind-only semantics. The run is single-threaded, so no
// locking.
type Environment struct {
	bindings map[string]Object
	outer    *Environment
}

func NewEnvironment() *Environment {
	return &Environment{bindings: make(map[string]Object)}
}

// NewEnclosedEnvironment chains a fresh scope onto outer. Used for function
// calls, where outer is the closure's captured environment.
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	return env
}

func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.bindings[name]
	if !ok && e.outer != nil {
		return e.outer.Get(name)
	}
	return obj, ok
}

// Define binds name in this scope, shadowing any outer binding of the same
// name. A second Define in the same scope overwrites the first.
func (e *Environment) Define(name string, val Object) Object {
	slog.Debug("binding value",
		slog.String("name", name),
		slog.String("type", string(val.Type())))
	e.bindings[name] = val
	return val
}

// Names returns the names bound in this scope only.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	return names
}
