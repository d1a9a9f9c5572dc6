// Package staticcheck classifies contracts syntactically and decides the
// shapes that need no solver.
package staticcheck

import (
	"speclock/internal/contract"
	"speclock/internal/translator"
)

type Result int

const (
	RequiresSolver Result = iota
	Passed
	Failed
)

func (r Result) String() string {
	switch r {
	case Passed:
		return "Passed"
	case Failed:
		return "Failed"
	}
	return "RequiresSolver"
}

// Shape is the syntactic form a condition was recognized as.
type Shape int

const (
	Unrecognized Shape = iota
	ConstantEquality
	Bounds
	NonNegative
	OptionCheck
)

func (s Shape) String() string {
	switch s {
	case ConstantEquality:
		return "constant-equality"
	case Bounds:
		return "bounds"
	case NonNegative:
		return "non-negative"
	case OptionCheck:
		return "option"
	}
	return "unrecognized"
}

// Classify names the shape of the condition of c.
func Classify(c contract.Contract) Shape {
	switch x := contract.Unparen(c.Condition).(type) {
	case *contract.Binary:
		switch x.Op {
		case contract.OpEq:
			if isLiteral(x.X) || isLiteral(x.Y) {
				return ConstantEquality
			}
		case contract.OpLt:
			if isLen(x.Y) {
				return Bounds
			}
		case contract.OpGt:
			if isLen(x.X) {
				return Bounds
			}
		case contract.OpGe:
			if isZero(x.Y) {
				return NonNegative
			}
		case contract.OpLe:
			if isZero(x.X) {
				return NonNegative
			}
		}
	case *contract.MethodCall:
		if x.Method == "is_some" || x.Method == "is_none" {
			return OptionCheck
		}
	}
	return Unrecognized
}

// Check decides c without a solver when it can. Comparisons between literals
// and named constants are folded; x >= 0 holds for an unsigned x. Everything
// else, recognized shape or not, is left to the solver. sig may be nil.
func Check(c contract.Contract, sig *contract.Signature, consts translator.Constants) Result {
	cond := contract.Unparen(c.Condition)
	if v, ok := constBool(cond, consts); ok {
		if v {
			return Passed
		}
		return Failed
	}
	if Classify(c) == NonNegative {
		b := cond.(*contract.Binary)
		subject := b.X
		if b.Op == contract.OpLe {
			subject = b.Y
		}
		if isUnsigned(subject, c.Kind, sig) {
			return Passed
		}
	}
	return RequiresSolver
}

func constBool(e contract.Expr, consts translator.Constants) (bool, bool) {
	switch x := contract.Unparen(e).(type) {
	case *contract.Literal:
		if x.Kind == contract.LitBool {
			return x.Text == "true", x.Text == "true" || x.Text == "false"
		}
	case *contract.Unary:
		if x.Op == contract.OpNot {
			if v, ok := constBool(x.X, consts); ok {
				return !v, true
			}
		}
	case *contract.Binary:
		a, okA := constInt(x.X, consts)
		b, okB := constInt(x.Y, consts)
		if !okA || !okB {
			return false, false
		}
		switch x.Op {
		case contract.OpEq:
			return a == b, true
		case contract.OpNe:
			return a != b, true
		case contract.OpLt:
			return a < b, true
		case contract.OpLe:
			return a <= b, true
		case contract.OpGt:
			return a > b, true
		case contract.OpGe:
			return a >= b, true
		}
	}
	return false, false
}

func constInt(e contract.Expr, consts translator.Constants) (int64, bool) {
	switch x := contract.Unparen(e).(type) {
	case *contract.Literal:
		if x.Kind != contract.LitInt {
			return 0, false
		}
		v, err := translator.ParseInt(x.Text)
		return v, err == nil
	case *contract.Ident:
		return consts.Lookup(x.Name)
	case *contract.Unary:
		if x.Op == contract.OpNeg {
			v, ok := constInt(x.X, consts)
			return -v, ok
		}
	}
	return 0, false
}

func isUnsigned(e contract.Expr, kind contract.Kind, sig *contract.Signature) bool {
	e = contract.Unparen(e)
	if u, ok := e.(*contract.Unary); ok && u.Op == contract.OpDeref {
		e = contract.Unparen(u.X)
	}
	id, ok := e.(*contract.Ident)
	if !ok || sig == nil {
		return false
	}
	if id.Name == translator.ResultName {
		return kind == contract.KindEnsures && sig.HasReturn() && contract.IsUnsigned(sig.Returns)
	}
	typ, ok := sig.ParamType(id.Name)
	return ok && contract.IsUnsigned(typ)
}

func isLiteral(e contract.Expr) bool {
	_, ok := contract.Unparen(e).(*contract.Literal)
	return ok
}

func isZero(e contract.Expr) bool {
	lit, ok := contract.Unparen(e).(*contract.Literal)
	if !ok || lit.Kind != contract.LitInt {
		return false
	}
	v, err := translator.ParseInt(lit.Text)
	return err == nil && v == 0
}

func isLen(e contract.Expr) bool {
	m, ok := contract.Unparen(e).(*contract.MethodCall)
	return ok && m.Method == "len"
}
