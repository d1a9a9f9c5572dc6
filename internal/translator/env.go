package translator

import (
	"speclock/internal/logic"
)

// Env maps names to terms for one contract check. Symbols are always created
// in the root scope so that every reference to a name resolves to the same
// *logic.Var; let bindings live in the scope of the block that declares them.
type Env struct {
	parent  *Env
	root    *Env
	names   map[string]logic.Term
	symbols []*logic.Var
}

func NewEnv() *Env {
	env := &Env{names: make(map[string]logic.Term)}
	env.root = env
	return env
}

// Child opens a nested scope. Bindings made in it are invisible to e.
func (e *Env) Child() *Env {
	return &Env{
		parent: e,
		root:   e.root,
		names:  make(map[string]logic.Term),
	}
}

func (e *Env) Lookup(name string) (logic.Term, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if t, ok := scope.names[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Bind records t under name in this scope, replacing any binding of the same
// scope.
func (e *Env) Bind(name string, t logic.Term) {
	e.names[name] = t
}

// Symbol fetches the term bound to name or creates a fresh symbol of the given
// sort in the root scope.
func (e *Env) Symbol(name string, sort logic.Sort) logic.Term {
	if t, ok := e.Lookup(name); ok {
		return t
	}
	return e.root.declare(name, sort)
}

// Declare creates name in the root scope unless it already exists there, and
// reports whether it was created.
func (e *Env) Declare(name string, sort logic.Sort) (logic.Term, bool) {
	if t, ok := e.root.names[name]; ok {
		return t, false
	}
	return e.root.declare(name, sort), true
}

func (e *Env) declare(name string, sort logic.Sort) *logic.Var {
	v := logic.NewVar(name, sort)
	e.names[name] = v
	e.symbols = append(e.symbols, v)
	return v
}

// Symbols lists the symbols created in this environment in creation order.
func (e *Env) Symbols() []*logic.Var {
	result := make([]*logic.Var, len(e.root.symbols))
	copy(result, e.root.symbols)
	return result
}
