// Package smt 封装求解器后端: yices 进程内求解, z3 子进程, 以及不可用占位
package smt

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"speclock/internal/logic"
)

type Status int

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	}
	return "unknown"
}

// Assignment is the value a model gives one symbol, rendered as a literal
// ("5", "-3", "true").
type Assignment struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Backend opens independent solver sessions. Implementations that cannot run
// sessions concurrently serialize them: NewSession blocks until the previous
// session is closed.
type Backend interface {
	Name() string
	// Quantifiers reports whether sessions accept universally quantified
	// assertions. Otherwise callers assert ground instances.
	Quantifiers() bool
	NewSession() (Session, error)
	Close() error
}

// Session is one solver context. It is used by a single goroutine and must be
// closed.
type Session interface {
	Assert(terms ...logic.Term) error
	// Check decides the conjunction of the asserted terms. It returns
	// StatusUnknown when ctx is done before the solver answers.
	Check(ctx context.Context) (Status, error)
	// Model evaluates vars in the model found by the last satisfiable Check.
	Model(vars []*logic.Var) ([]Assignment, error)
	Close()
}

// ErrUnavailable is returned by backends whose solver is not present.
var ErrUnavailable = errors.New("smt solver unavailable")

const (
	KindYices = "yices"
	KindZ3    = "z3"
	KindNone  = "none"
)

// Options configures Open.
type Options struct {
	// Logic is the yices logic name; empty selects QF_UFNIA.
	Logic string
	// Z3Path is the z3 executable; empty looks z3 up on PATH.
	Z3Path string
}

// Open returns the backend called kind. A z3 backend whose binary cannot be
// found degrades to Unavailable.
func Open(kind string, opts Options) (Backend, error) {
	switch strings.ToLower(kind) {
	case KindYices, "":
		return NewYices(opts.Logic)
	case KindZ3:
		z3, err := NewZ3(opts.Z3Path)
		if err != nil {
			return NewUnavailable(err.Error()), nil
		}
		return z3, nil
	case KindNone:
		return NewUnavailable("no solver configured"), nil
	}
	return nil, errors.Errorf("unknown solver backend %q", kind)
}
