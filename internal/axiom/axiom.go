// Package axiom 提供未解释函数 shr/shl/len 的公理
package axiom

import (
	"speclock/internal/logic"
)

// Axiom is a universally quantified fact about one uninterpreted function.
// The facts are deliberately weak: they bound shifts without pinning their
// value, which is enough for halving style monotonicity proofs.
type Axiom struct {
	Name    string
	Func    *logic.Func
	Formula *logic.Forall

	// instance overrides the default instantiation, which substitutes the
	// application's arguments for the bound variables.
	instance func(app *logic.App) logic.Term
}

// Instance states the axiom for one ground application of its function.
func (a Axiom) Instance(app *logic.App) logic.Term {
	if a.instance != nil {
		return a.instance(app)
	}
	sub := make(map[*logic.Var]logic.Term, len(a.Formula.Vars))
	for i, v := range a.Formula.Vars {
		sub[v] = app.Args[i]
	}
	return logic.Substitute(a.Formula.Body, sub)
}

var (
	va   = logic.NewVar("a", logic.SortInt)
	vb   = logic.NewVar("b", logic.SortInt)
	zero = logic.Int(0)
)

func nonNegative(terms ...logic.Term) logic.Term {
	conds := make([]logic.Term, len(terms))
	for i, t := range terms {
		conds[i] = logic.Ge(t, zero)
	}
	return logic.And(conds...)
}

// Shift returns the axioms governing shr and shl:
//
//	forall a b. a >= 0 && b >= 0 => shr(a, b) >= 0
//	forall a b. a >= 0 && b >= 0 => shr(a, b) <= a
//	forall a. shr(a, 0) = a
//	forall a b. a >= 0 && b >= 0 => shl(a, b) >= a
//	forall a. shl(a, 0) = a
func Shift() []Axiom {
	return []Axiom{
		{
			Name:    "shr-nonneg",
			Func:    logic.Shr,
			Formula: logic.ForAll([]*logic.Var{va, vb}, logic.Implies(nonNegative(va, vb), logic.Ge(logic.Apply(logic.Shr, va, vb), zero))),
		},
		{
			Name:    "shr-bounded",
			Func:    logic.Shr,
			Formula: logic.ForAll([]*logic.Var{va, vb}, logic.Implies(nonNegative(va, vb), logic.Le(logic.Apply(logic.Shr, va, vb), va))),
		},
		{
			Name:     "shr-zero",
			Func:     logic.Shr,
			Formula:  logic.ForAll([]*logic.Var{va}, logic.Eq(logic.Apply(logic.Shr, va, zero), va)),
			instance: zeroShift,
		},
		{
			Name:    "shl-grows",
			Func:    logic.Shl,
			Formula: logic.ForAll([]*logic.Var{va, vb}, logic.Implies(nonNegative(va, vb), logic.Ge(logic.Apply(logic.Shl, va, vb), va))),
		},
		{
			Name:     "shl-zero",
			Func:     logic.Shl,
			Formula:  logic.ForAll([]*logic.Var{va}, logic.Eq(logic.Apply(logic.Shl, va, zero), va)),
			instance: zeroShift,
		},
	}
}

// zeroShift instantiates f(a, 0) = a for f(s, t) as t = 0 => f(s, t) = s.
func zeroShift(app *logic.App) logic.Term {
	return logic.Implies(logic.Eq(app.Args[1], zero), logic.Eq(app, app.Args[0]))
}

// Length returns forall x. len(x) >= 0.
func Length() []Axiom {
	return []Axiom{{
		Name:    "len-nonneg",
		Func:    logic.Len,
		Formula: logic.ForAll([]*logic.Var{va}, logic.Ge(logic.Apply(logic.Len, va), zero)),
	}}
}

// All returns every axiom known to the verifier.
func All() []Axiom {
	return append(Shift(), Length()...)
}

// Quantified returns the quantified formulas of axioms.
func Quantified(axioms []Axiom) []logic.Term {
	result := make([]logic.Term, len(axioms))
	for i, a := range axioms {
		result[i] = a.Formula
	}
	return result
}

// Instantiate returns the ground instances of axioms for every application of
// their functions in terms. Instances only mention the application and its
// arguments, so one pass reaches every application.
func Instantiate(axioms []Axiom, terms ...logic.Term) []logic.Term {
	var result []logic.Term
	for _, a := range axioms {
		for _, app := range logic.Apps(a.Func, terms...) {
			result = append(result, a.Instance(app))
		}
	}
	return result
}
