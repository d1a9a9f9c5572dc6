package translator

import (
	"speclock/internal/contract"
	"speclock/internal/logic"
)

// earlyReturn is a return reached when every term of path holds.
type earlyReturn struct {
	path  []logic.Term
	value logic.Term
}

// Body lowers a function body into one formula pinning down result on every
// path: result == v under the path condition of each early return, and
// result == tail when no early return is taken. Early returns are taken in
// order, so each one is also guarded by the negation of all earlier ones.
// A nil term with a nil error means the body determines nothing. Without a
// result symbol the statements are still translated, and only a returned
// value is an error.
func (t *Translator) Body(body *contract.Block, env *Env) (logic.Term, error) {
	if body == nil {
		return nil, nil
	}
	result, _ := env.Lookup(ResultName)
	return t.block(body, env.Child(), result)
}

func (t *Translator) block(b *contract.Block, scope *Env, result logic.Term) (logic.Term, error) {
	var returns []earlyReturn
	exits, err := t.stmts(b.Stmts, scope, nil, result, &returns)
	if err != nil {
		return nil, err
	}

	var (
		parts []logic.Term
		taken []logic.Term
	)
	for _, r := range returns {
		guard := append(negateAll(taken), r.path...)
		parts = append(parts, implies(guard, logic.Eq(result, r.value)))
		taken = append(taken, logic.And(r.path...))
	}
	if !exits && b.Tail != nil {
		tail, err := t.tail(b.Tail, scope, result)
		if err != nil {
			return nil, err
		}
		if tail != nil {
			parts = append(parts, implies(negateAll(taken), tail))
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return logic.And(parts...), nil
}

// stmts walks a statement list under path and records early returns. It
// reports whether the list returns on every path, in which case the
// statements after it are unreachable.
func (t *Translator) stmts(list []contract.Stmt, scope *Env, path []logic.Term, result logic.Term, returns *[]earlyReturn) (bool, error) {
	for _, stmt := range list {
		switch s := stmt.(type) {
		case *contract.Let:
			v, err := t.expr(s.Init, scope, logic.SortInt)
			if err != nil {
				return false, err
			}
			scope.Bind(s.Name, v)
		case *contract.Return:
			if s.Value == nil {
				return false, errorf(UnsupportedExpression, "return without a value")
			}
			v, err := t.value(s.Value, scope, result)
			if err != nil {
				return false, err
			}
			*returns = append(*returns, earlyReturn{path: copyTerms(path), value: v})
			return true, nil
		case *contract.If:
			cond, err := t.Condition(s.Cond, scope)
			if err != nil {
				return false, err
			}
			thenExits, err := t.branch(s.Then, scope, append(copyTerms(path), cond), result, returns)
			if err != nil {
				return false, err
			}
			elseExits, err := t.branch(s.Else, scope, append(copyTerms(path), logic.Not(cond)), result, returns)
			if err != nil {
				return false, err
			}
			if thenExits && elseExits {
				return true, nil
			}
		case *contract.ExprStmt:
			// side effects are not modelled
		default:
			return false, errorf(UnsupportedExpression, "statement %T", stmt)
		}
	}
	return false, nil
}

func (t *Translator) branch(b *contract.Block, scope *Env, path []logic.Term, result logic.Term, returns *[]earlyReturn) (bool, error) {
	if b == nil {
		return false, nil
	}
	return t.stmts(b.Stmts, scope.Child(), path, result, returns)
}

// tail lowers the trailing expression of a block into a formula over result.
func (t *Translator) tail(e contract.Expr, scope *Env, result logic.Term) (logic.Term, error) {
	ifx, ok := e.(*contract.If)
	if !ok {
		v, err := t.value(e, scope, result)
		if err != nil {
			return nil, err
		}
		return logic.Eq(result, v), nil
	}
	cond, err := t.Condition(ifx.Cond, scope)
	if err != nil {
		return nil, err
	}
	var thenF, elseF logic.Term
	if ifx.Then != nil {
		if thenF, err = t.block(ifx.Then, scope.Child(), result); err != nil {
			return nil, err
		}
	}
	if ifx.Else != nil {
		if elseF, err = t.block(ifx.Else, scope.Child(), result); err != nil {
			return nil, err
		}
	}
	switch {
	case thenF != nil && elseF != nil:
		return logic.And(logic.Implies(cond, thenF), logic.Implies(logic.Not(cond), elseF)), nil
	case thenF != nil:
		return logic.Implies(cond, thenF), nil
	case elseF != nil:
		return logic.Implies(logic.Not(cond), elseF), nil
	}
	return nil, nil
}

// value translates a returned expression and checks it against the sort of
// result.
func (t *Translator) value(e contract.Expr, scope *Env, result logic.Term) (logic.Term, error) {
	if result == nil {
		return nil, errorf(UnsupportedExpression, "value returned without a %s symbol: %s", ResultName, contract.String(e))
	}
	v, err := t.expr(e, scope, result.Sort())
	if err != nil {
		return nil, err
	}
	if v.Sort() != result.Sort() {
		return nil, errorf(TypeError, "returns %s where %s is expected: %s", v.Sort(), result.Sort(), contract.String(e))
	}
	return v, nil
}

func implies(guard []logic.Term, f logic.Term) logic.Term {
	if len(guard) == 0 {
		return f
	}
	return logic.Implies(logic.And(guard...), f)
}

func negateAll(terms []logic.Term) []logic.Term {
	result := make([]logic.Term, len(terms))
	for i := range terms {
		result[i] = logic.Not(terms[i])
	}
	return result
}

func copyTerms(terms []logic.Term) []logic.Term {
	result := make([]logic.Term, len(terms))
	copy(result, terms)
	return result
}
