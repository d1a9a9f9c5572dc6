package translator

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorKind string

const (
	UnsupportedExpression ErrorKind = "UnsupportedExpression"
	UnsupportedLiteral    ErrorKind = "UnsupportedLiteral"
	UnsupportedOperator   ErrorKind = "UnsupportedOperator"
	TypeError             ErrorKind = "TypeError"
	ParseError            ErrorKind = "ParseError"
)

// Error is a translation failure. It is never recovered from: the contract
// under check is reported as an error.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func errorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the translation error kind from a possibly wrapped error.
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return "", false
	}
	if e, ok := errors.Cause(err).(*Error); ok {
		return e.Kind, true
	}
	return "", false
}
