package logic

// Walk visits t depth first. Children are skipped when fn returns false.
func Walk(t Term, fn func(Term) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch x := t.(type) {
	case *App:
		for _, arg := range x.Args {
			Walk(arg, fn)
		}
	case *Arith:
		for _, arg := range x.Args {
			Walk(arg, fn)
		}
	case *Cmp:
		Walk(x.X, fn)
		Walk(x.Y, fn)
	case *Conn:
		for _, arg := range x.Args {
			Walk(arg, fn)
		}
	case *Forall:
		Walk(x.Body, fn)
	}
}

// Apps collects the distinct ground applications of fn in terms, in order of
// first occurrence. Applications under a quantifier are skipped.
func Apps(fn *Func, terms ...Term) []*App {
	var (
		result []*App
		seen   = make(map[string]struct{})
	)
	for _, t := range terms {
		Walk(t, func(n Term) bool {
			switch x := n.(type) {
			case *Forall:
				return false
			case *App:
				if x.Fn.Name != fn.Name {
					return true
				}
				key := x.String()
				if _, ok := seen[key]; !ok {
					seen[key] = struct{}{}
					result = append(result, x)
				}
			}
			return true
		})
	}
	return result
}

// FreeVars returns the distinct free variables of terms in order of first
// occurrence.
func FreeVars(terms ...Term) []*Var {
	var (
		result []*Var
		seen   = make(map[*Var]struct{})
	)
	for _, t := range terms {
		collectFree(t, make(map[*Var]struct{}), seen, &result)
	}
	return result
}

func collectFree(t Term, bound, seen map[*Var]struct{}, result *[]*Var) {
	Walk(t, func(n Term) bool {
		switch x := n.(type) {
		case *Forall:
			inner := make(map[*Var]struct{}, len(bound)+len(x.Vars))
			for v := range bound {
				inner[v] = struct{}{}
			}
			for _, v := range x.Vars {
				inner[v] = struct{}{}
			}
			collectFree(x.Body, inner, seen, result)
			return false
		case *Var:
			if _, ok := bound[x]; ok {
				return true
			}
			if _, ok := seen[x]; !ok {
				seen[x] = struct{}{}
				*result = append(*result, x)
			}
		}
		return true
	})
}

// Funcs returns the distinct uninterpreted functions applied in terms.
func Funcs(terms ...Term) []*Func {
	var (
		result []*Func
		seen   = make(map[string]struct{})
	)
	for _, t := range terms {
		Walk(t, func(n Term) bool {
			if app, ok := n.(*App); ok {
				if _, ok := seen[app.Fn.Name]; !ok {
					seen[app.Fn.Name] = struct{}{}
					result = append(result, app.Fn)
				}
			}
			return true
		})
	}
	return result
}

// Substitute returns a copy of t with variables replaced according to sub.
// Variables bound by an inner Forall are not replaced.
func Substitute(t Term, sub map[*Var]Term) Term {
	switch x := t.(type) {
	case *Var:
		if r, ok := sub[x]; ok {
			return r
		}
		return x
	case *App:
		return &App{Fn: x.Fn, Args: substituteAll(x.Args, sub)}
	case *Arith:
		return &Arith{Op: x.Op, Args: substituteAll(x.Args, sub)}
	case *Cmp:
		return &Cmp{Op: x.Op, X: Substitute(x.X, sub), Y: Substitute(x.Y, sub)}
	case *Conn:
		return &Conn{Op: x.Op, Args: substituteAll(x.Args, sub)}
	case *Forall:
		inner := make(map[*Var]Term, len(sub))
		for k, v := range sub {
			inner[k] = v
		}
		for _, v := range x.Vars {
			delete(inner, v)
		}
		return &Forall{Vars: x.Vars, Body: Substitute(x.Body, inner)}
	}
	return t
}

func substituteAll(terms []Term, sub map[*Var]Term) []Term {
	result := make([]Term, len(terms))
	for i := range terms {
		result[i] = Substitute(terms[i], sub)
	}
	return result
}

// HasQuantifier reports whether any of terms contains a Forall.
func HasQuantifier(terms ...Term) bool {
	found := false
	for _, t := range terms {
		Walk(t, func(n Term) bool {
			if _, ok := n.(*Forall); ok {
				found = true
			}
			return !found
		})
	}
	return found
}
