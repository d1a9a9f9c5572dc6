package smt

import (
	"github.com/pkg/errors"
)

// Unavailable stands in for a solver that is not present. Every session it
// is asked for fails with ErrUnavailable.
type Unavailable struct {
	reason string
}

func NewUnavailable(reason string) *Unavailable {
	return &Unavailable{reason: reason}
}

func (u *Unavailable) Name() string      { return KindNone }
func (u *Unavailable) Quantifiers() bool { return false }
func (u *Unavailable) Close() error      { return nil }

func (u *Unavailable) NewSession() (Session, error) {
	return nil, errors.Wrap(ErrUnavailable, u.reason)
}
