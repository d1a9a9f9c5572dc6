// Package verifier 对单个合约进行验证: 先静态检查, 再交给 SMT 求解器
package verifier

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"speclock/internal/axiom"
	"speclock/internal/contract"
	"speclock/internal/logic"
	"speclock/internal/smt"
	"speclock/internal/staticcheck"
	"speclock/internal/translator"
)

// Function is the implementation side of a check. Either field may be nil.
type Function struct {
	Signature *contract.Signature
	Body      *contract.Block
}

type Verifier struct {
	backend    smt.Backend
	translator *translator.Translator
	static     bool
	axioms     []axiom.Axiom
}

type Option func(*Verifier)

// WithConstants replaces the named constant table.
func WithConstants(constants translator.Constants) Option {
	return func(v *Verifier) {
		v.translator = translator.New(constants)
	}
}

// WithoutStaticCheck sends every contract to the solver.
func WithoutStaticCheck() Option {
	return func(v *Verifier) {
		v.static = false
	}
}

func New(backend smt.Backend, opts ...Option) *Verifier {
	v := &Verifier{
		backend:    backend,
		translator: translator.New(translator.DefaultConstants()),
		static:     true,
		axioms:     axiom.All(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks c against fn. For an ensures contract with a body it proves
// assumed requires ∧ body ⇒ c; a requires contract is checked against the
// type constraints of the signature alone. fn may be nil.
func (v *Verifier) Verify(ctx context.Context, c contract.Contract, fn *Function, assumed []contract.Contract) Outcome {
	var sig *contract.Signature
	if fn != nil {
		sig = fn.Signature
	}
	if v.static {
		switch staticcheck.Check(c, sig, v.translator.Constants()) {
		case staticcheck.Passed:
			o := Verified()
			o.DecidedBy = DecidedStatically
			return o
		case staticcheck.Failed:
			o := Failed(nil)
			o.DecidedBy = DecidedStatically
			return o
		}
	}

	env := translator.NewEnv()
	assertions := translator.Declare(sig, env, c.Kind == contract.KindEnsures)
	target, err := v.translator.Contract(c, env)
	if err != nil {
		return translationError(err)
	}

	if c.Kind == contract.KindEnsures && fn != nil && fn.Body != nil {
		for _, r := range assumed {
			if r.Kind != contract.KindRequires {
				continue
			}
			cond, err := v.translator.Contract(r, env)
			if err != nil {
				return translationError(errors.Wrapf(err, "assumed %s", r))
			}
			assertions = append(assertions, cond)
		}
		body, err := v.translator.Body(fn.Body, env)
		if err != nil {
			return translationError(errors.Wrap(err, "function body"))
		}
		if body != nil {
			assertions = append(assertions, body)
		}
	}
	assertions = append(assertions, logic.Not(target))
	assertions = append(assertions, v.axiomsFor(assertions)...)

	session, err := v.backend.NewSession()
	if err != nil {
		if errors.Is(err, smt.ErrUnavailable) {
			return v.decided(Error(SolverUnavailable, err.Error()))
		}
		return v.decided(Error(SolverError, err.Error()))
	}
	defer session.Close()

	if log.IsLevelEnabled(log.DebugLevel) {
		for _, a := range assertions {
			log.Debugf("assert %s", a)
		}
	}
	if err := session.Assert(assertions...); err != nil {
		return v.decided(Error(SolverError, err.Error()))
	}
	status, err := session.Check(ctx)
	if err != nil && ctx.Err() == nil {
		return v.decided(Error(SolverError, err.Error()))
	}
	switch status {
	case smt.StatusUnsat:
		return v.decided(Verified())
	case smt.StatusSat:
		model, err := session.Model(env.Symbols())
		o := Failed(model)
		if err != nil {
			log.Warnf("counterexample unavailable: %v", err)
			o.Message = err.Error()
		}
		return v.decided(o)
	}
	return v.decided(Unknown(unknownReason(ctx)))
}

// axiomsFor returns the axioms governing the functions applied in terms:
// quantified when the backend accepts them, ground instances otherwise.
func (v *Verifier) axiomsFor(terms []logic.Term) []logic.Term {
	if !v.backend.Quantifiers() {
		return axiom.Instantiate(v.axioms, terms...)
	}
	used := make(map[string]struct{})
	for _, fn := range logic.Funcs(terms...) {
		used[fn.Name] = struct{}{}
	}
	var relevant []axiom.Axiom
	for _, a := range v.axioms {
		if _, ok := used[a.Func.Name]; ok {
			relevant = append(relevant, a)
		}
	}
	return axiom.Quantified(relevant)
}

func (v *Verifier) decided(o Outcome) Outcome {
	o.DecidedBy = v.backend.Name()
	return o
}

func translationError(err error) Outcome {
	kind, ok := translator.KindOf(err)
	if !ok {
		kind = translator.UnsupportedExpression
	}
	return Error(ErrorKind(kind), err.Error())
}

func unknownReason(ctx context.Context) string {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ReasonTimeout
	case context.Canceled:
		return "cancelled"
	}
	return "solver returned unknown"
}
