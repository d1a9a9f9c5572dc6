package smt

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"

	"speclock/internal/logic"
)

// functions holds one uninterpreted yices term per logic function, Int^n -> Int.
// Yices terms outlive contexts, so the table lives as long as the backend.
type functions struct {
	raw map[string]yices2.TermT
}

func newFunctions() *functions {
	return &functions{raw: make(map[string]yices2.TermT)}
}

func (f *functions) get(fn *logic.Func) yices2.TermT {
	if t, ok := f.raw[fn.Name]; ok {
		return t
	}
	dom := make([]yices2.TypeT, fn.Arity)
	for i := range dom {
		dom[i] = yices2.IntType()
	}
	funcType := yices2.FunctionType(dom, yices2.IntType())
	t := yices2.NewUninterpretedTerm(funcType)
	f.raw[fn.Name] = t
	return t
}

// Call applies fn to already lowered arguments.
func (f *functions) Call(fn *logic.Func, args ...yices2.TermT) yices2.TermT {
	return yices2.Application(f.get(fn), args)
}
