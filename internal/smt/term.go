package smt

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"

	"speclock/internal/logic"
)

// lower builds the yices term for t. Variables map to fresh uninterpreted
// terms, one per *logic.Var for the lifetime of the session.
func (s *Solver) lower(t logic.Term) (yices2.TermT, error) {
	var result yices2.TermT
	switch x := t.(type) {
	case *logic.Var:
		if raw, ok := s.vars[x]; ok {
			return raw, nil
		}
		typ := yices2.IntType()
		if x.Sort() == logic.SortBool {
			typ = yices2.BoolType()
		}
		result = yices2.NewUninterpretedTerm(typ)
		s.vars[x] = result
	case logic.IntConst:
		result = yices2.Int64(x.Value)
	case logic.BoolConst:
		if x.Value {
			result = yices2.True()
		} else {
			result = yices2.False()
		}
	case *logic.App:
		args, err := s.lowerAll(x.Args)
		if err != nil {
			return yices2.NullTerm, err
		}
		result = s.backend.funcs.Call(x.Fn, args...)
	case *logic.Arith:
		args, err := s.lowerAll(x.Args)
		if err != nil {
			return yices2.NullTerm, err
		}
		result = arith(x.Op, args)
	case *logic.Cmp:
		a, err := s.lower(x.X)
		if err != nil {
			return yices2.NullTerm, err
		}
		b, err := s.lower(x.Y)
		if err != nil {
			return yices2.NullTerm, err
		}
		result = compare(x.Op, x.X.Sort(), a, b)
	case *logic.Conn:
		args, err := s.lowerAll(x.Args)
		if err != nil {
			return yices2.NullTerm, err
		}
		result = connective(x.Op, args)
	case *logic.Forall:
		return yices2.NullTerm, errors.New("yices contexts take quantifier free formulas only")
	default:
		return yices2.NullTerm, errors.Errorf("unsupported term %T", t)
	}
	if result == yices2.NullTerm {
		return result, errors.New(yices2.ErrorString())
	}
	return result, nil
}

func (s *Solver) lowerAll(terms []logic.Term) ([]yices2.TermT, error) {
	result := make([]yices2.TermT, len(terms))
	for i, t := range terms {
		raw, err := s.lower(t)
		if err != nil {
			return nil, err
		}
		result[i] = raw
	}
	return result, nil
}

func arith(op logic.ArithOp, args []yices2.TermT) yices2.TermT {
	switch op {
	case logic.OpAdd:
		return yices2.Add(args[0], args[1])
	case logic.OpSub:
		return yices2.Sub(args[0], args[1])
	case logic.OpMul:
		return yices2.Mul(args[0], args[1])
	case logic.OpDiv:
		return yices2.Idiv(args[0], args[1])
	case logic.OpNeg:
		return yices2.Neg(args[0])
	}
	return yices2.NullTerm
}

func compare(op logic.CmpOp, sort logic.Sort, a, b yices2.TermT) yices2.TermT {
	if sort == logic.SortBool {
		switch op {
		case logic.OpEq:
			return yices2.Eq(a, b)
		case logic.OpNe:
			return yices2.Neq(a, b)
		}
		return yices2.NullTerm
	}
	switch op {
	case logic.OpEq:
		return yices2.ArithEqAtom(a, b)
	case logic.OpNe:
		return yices2.ArithNeqAtom(a, b)
	case logic.OpLt:
		return yices2.ArithLtAtom(a, b)
	case logic.OpLe:
		return yices2.ArithLeqAtom(a, b)
	case logic.OpGt:
		return yices2.ArithGtAtom(a, b)
	case logic.OpGe:
		return yices2.ArithGeqAtom(a, b)
	}
	return yices2.NullTerm
}

func connective(op logic.BoolOp, args []yices2.TermT) yices2.TermT {
	switch op {
	case logic.OpAnd:
		return yices2.And(args)
	case logic.OpOr:
		return yices2.Or(args)
	case logic.OpNot:
		return yices2.Not(args[0])
	case logic.OpImplies:
		return yices2.Implies(args[0], args[1])
	}
	return yices2.NullTerm
}
