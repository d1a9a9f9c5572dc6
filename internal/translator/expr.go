// Package translator lowers contract conditions and function bodies into
// logic terms over unbounded integers and booleans.
package translator

import (
	"speclock/internal/contract"
	"speclock/internal/logic"
)

// Translator is stateless apart from its constant table; all per-check state
// lives in the Env passed to each call.
type Translator struct {
	constants Constants
}

func New(constants Constants) *Translator {
	if constants == nil {
		constants = Constants{}
	}
	return &Translator{constants: constants}
}

func (t *Translator) Constants() Constants {
	return t.constants
}

// Contract translates the condition of c into a boolean term. A requires
// contract may not mention result; an ensures contract may only do so when
// result has been declared in env.
func (t *Translator) Contract(c contract.Contract, env *Env) (logic.Term, error) {
	if err := c.Validate(); err != nil {
		return nil, errorf(UnsupportedExpression, "%v", err)
	}
	if mentions(c.Condition, ResultName) {
		if c.Kind == contract.KindRequires {
			return nil, errorf(UnsupportedExpression, "%s is not available in a requires contract", ResultName)
		}
		if _, ok := env.Lookup(ResultName); !ok {
			return nil, errorf(UnsupportedExpression, "%s used without a declared return type", ResultName)
		}
	}
	return t.Condition(c.Condition, env)
}

// Condition translates e and requires a boolean result.
func (t *Translator) Condition(e contract.Expr, env *Env) (logic.Term, error) {
	term, err := t.expr(e, env, logic.SortBool)
	if err != nil {
		return nil, err
	}
	if term.Sort() != logic.SortBool {
		return nil, errorf(TypeError, "expected Bool condition, got Int: %s", contract.String(e))
	}
	return term, nil
}

// Expr translates e, creating unknown identifiers as integers.
func (t *Translator) Expr(e contract.Expr, env *Env) (logic.Term, error) {
	return t.expr(e, env, logic.SortInt)
}

// expr translates e. hint is the sort a not yet known identifier is created
// with; it does not constrain the sort of the result.
func (t *Translator) expr(e contract.Expr, env *Env, hint logic.Sort) (logic.Term, error) {
	switch x := e.(type) {
	case *contract.Literal:
		return t.literal(x)
	case *contract.Ident:
		return t.ident(x, env, hint)
	case *contract.Paren:
		return t.expr(x.X, env, hint)
	case *contract.Binary:
		return t.binary(x, env)
	case *contract.Unary:
		return t.unary(x, env, hint)
	case *contract.MethodCall:
		return t.methodCall(x, env)
	case *contract.Call:
		return nil, errorf(UnsupportedExpression, "function call %s", contract.String(x))
	case *contract.Index:
		return nil, errorf(UnsupportedExpression, "index expression %s", contract.String(x))
	case *contract.If:
		return nil, errorf(UnsupportedExpression, "if expression outside a function body")
	case nil:
		return nil, errorf(UnsupportedExpression, "missing expression")
	}
	return nil, errorf(UnsupportedExpression, "%T", e)
}

func (t *Translator) literal(lit *contract.Literal) (logic.Term, error) {
	switch lit.Kind {
	case contract.LitInt:
		v, err := ParseInt(lit.Text)
		if err != nil {
			return nil, err
		}
		return logic.Int(v), nil
	case contract.LitBool:
		switch lit.Text {
		case "true":
			return logic.True, nil
		case "false":
			return logic.False, nil
		}
		return nil, errorf(ParseError, "malformed boolean literal %q", lit.Text)
	case contract.LitFloat:
		return nil, errorf(UnsupportedLiteral, "floating point literal %s", lit.Text)
	case contract.LitString:
		return nil, errorf(UnsupportedLiteral, "string literal %s", lit.Text)
	}
	return nil, errorf(UnsupportedLiteral, "literal %s", lit.Text)
}

func (t *Translator) ident(id *contract.Ident, env *Env, hint logic.Sort) (logic.Term, error) {
	if v, ok := t.constants.Lookup(id.Name); ok {
		return logic.Int(v), nil
	}
	if id.Name == ResultName {
		if term, ok := env.Lookup(ResultName); ok {
			return term, nil
		}
		return nil, errorf(UnsupportedExpression, "%s is not defined here", ResultName)
	}
	return env.Symbol(id.Name, hint), nil
}

func (t *Translator) binary(b *contract.Binary, env *Env) (logic.Term, error) {
	switch b.Op {
	case contract.OpAdd, contract.OpSub, contract.OpMul, contract.OpDiv,
		contract.OpShr, contract.OpShl,
		contract.OpLt, contract.OpLe, contract.OpGt, contract.OpGe:
		x, y, err := t.operands(b, env, logic.SortInt)
		if err != nil {
			return nil, err
		}
		return intOp(b.Op, x, y), nil
	case contract.OpAnd, contract.OpOr:
		x, y, err := t.operands(b, env, logic.SortBool)
		if err != nil {
			return nil, err
		}
		if b.Op == contract.OpAnd {
			return logic.And(x, y), nil
		}
		return logic.Or(x, y), nil
	case contract.OpEq, contract.OpNe:
		x, y, err := t.equalityOperands(b, env)
		if err != nil {
			return nil, err
		}
		if b.Op == contract.OpEq {
			return logic.Eq(x, y), nil
		}
		return logic.Ne(x, y), nil
	}
	return nil, errorf(UnsupportedOperator, "binary operator %s", b.Op)
}

func intOp(op contract.BinaryOp, x, y logic.Term) logic.Term {
	switch op {
	case contract.OpAdd:
		return logic.Add(x, y)
	case contract.OpSub:
		return logic.Sub(x, y)
	case contract.OpMul:
		return logic.Mul(x, y)
	case contract.OpDiv:
		return logic.Div(x, y)
	case contract.OpShr:
		return logic.Apply(logic.Shr, x, y)
	case contract.OpShl:
		return logic.Apply(logic.Shl, x, y)
	case contract.OpLt:
		return logic.Lt(x, y)
	case contract.OpLe:
		return logic.Le(x, y)
	case contract.OpGt:
		return logic.Gt(x, y)
	}
	return logic.Ge(x, y)
}

// operands translates both sides of b and requires them to have sort want.
func (t *Translator) operands(b *contract.Binary, env *Env, want logic.Sort) (logic.Term, logic.Term, error) {
	x, err := t.expr(b.X, env, want)
	if err != nil {
		return nil, nil, err
	}
	y, err := t.expr(b.Y, env, want)
	if err != nil {
		return nil, nil, err
	}
	if x.Sort() != want || y.Sort() != want {
		return nil, nil, errorf(TypeError, "operator %s expects %s operands: %s", b.Op, want, contract.String(b))
	}
	return x, y, nil
}

// equalityOperands lets an unknown identifier take the sort of the other side,
// so flag == true creates flag as a boolean.
func (t *Translator) equalityOperands(b *contract.Binary, env *Env) (logic.Term, logic.Term, error) {
	var (
		x, y logic.Term
		err  error
	)
	if t.unbound(b.X, env) && !t.unbound(b.Y, env) {
		if y, err = t.expr(b.Y, env, logic.SortInt); err != nil {
			return nil, nil, err
		}
		if x, err = t.expr(b.X, env, y.Sort()); err != nil {
			return nil, nil, err
		}
	} else {
		if x, err = t.expr(b.X, env, logic.SortInt); err != nil {
			return nil, nil, err
		}
		if y, err = t.expr(b.Y, env, x.Sort()); err != nil {
			return nil, nil, err
		}
	}
	if x.Sort() != y.Sort() {
		return nil, nil, errorf(TypeError, "operator %s compares %s with %s: %s", b.Op, x.Sort(), y.Sort(), contract.String(b))
	}
	return x, y, nil
}

func (t *Translator) unbound(e contract.Expr, env *Env) bool {
	id, ok := contract.Unparen(e).(*contract.Ident)
	if !ok {
		return false
	}
	if _, ok := t.constants.Lookup(id.Name); ok {
		return false
	}
	_, ok = env.Lookup(id.Name)
	return !ok
}

func (t *Translator) unary(u *contract.Unary, env *Env, hint logic.Sort) (logic.Term, error) {
	switch u.Op {
	case contract.OpNot:
		x, err := t.expr(u.X, env, logic.SortBool)
		if err != nil {
			return nil, err
		}
		if x.Sort() != logic.SortBool {
			return nil, errorf(TypeError, "operator ! expects a Bool operand: %s", contract.String(u))
		}
		return logic.Not(x), nil
	case contract.OpNeg:
		x, err := t.expr(u.X, env, logic.SortInt)
		if err != nil {
			return nil, err
		}
		if x.Sort() != logic.SortInt {
			return nil, errorf(TypeError, "operator - expects an Int operand: %s", contract.String(u))
		}
		return logic.Neg(x), nil
	case contract.OpDeref:
		// no pointer semantics: *x is x
		return t.expr(u.X, env, hint)
	}
	return nil, errorf(UnsupportedOperator, "unary operator %s", u.Op)
}

func (t *Translator) methodCall(m *contract.MethodCall, env *Env) (logic.Term, error) {
	switch m.Method {
	case "len":
		recv, err := t.expr(m.Receiver, env, logic.SortInt)
		if err != nil {
			return nil, err
		}
		if recv.Sort() != logic.SortInt {
			return nil, errorf(TypeError, "len of a Bool: %s", contract.String(m))
		}
		return logic.Apply(logic.Len, recv), nil
	}
	return nil, errorf(UnsupportedExpression, "method call %s", contract.String(m))
}

func mentions(e contract.Expr, name string) bool {
	found := false
	contract.Walk(e, func(n contract.Expr) bool {
		if id, ok := n.(*contract.Ident); ok && id.Name == name {
			found = true
		}
		return !found
	})
	return found
}
