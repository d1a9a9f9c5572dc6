package verifier

import (
	"fmt"
	"strings"

	"speclock/internal/smt"
	"speclock/internal/translator"
)

type Status string

const (
	StatusVerified Status = "Verified"
	StatusFailed   Status = "Failed"
	StatusUnknown  Status = "Unknown"
	StatusError    Status = "Error"
)

// ErrorKind extends the translation error kinds with solver failures.
type ErrorKind string

const (
	UnsupportedExpression           = ErrorKind(translator.UnsupportedExpression)
	UnsupportedLiteral              = ErrorKind(translator.UnsupportedLiteral)
	UnsupportedOperator             = ErrorKind(translator.UnsupportedOperator)
	TypeError                       = ErrorKind(translator.TypeError)
	ParseError                      = ErrorKind(translator.ParseError)
	SolverError           ErrorKind = "SolverError"
	SolverUnavailable     ErrorKind = "SolverUnavailable"
)

// ReasonTimeout is the Unknown reason of a check cut short by its deadline.
const ReasonTimeout = "timeout"

// DecidedStatically marks outcomes that needed no solver.
const DecidedStatically = "static"

// Outcome is the terminal result of one contract check. Only the fields of
// its status are set.
type Outcome struct {
	Status         Status           `json:"status"`
	Counterexample []smt.Assignment `json:"counterexample,omitempty"`
	Reason         string           `json:"reason,omitempty"`
	ErrorKind      ErrorKind        `json:"error_kind,omitempty"`
	Message        string           `json:"message,omitempty"`
	// DecidedBy names the backend that produced the verdict, or "static".
	DecidedBy string `json:"decided_by,omitempty"`
}

func Verified() Outcome {
	return Outcome{Status: StatusVerified}
}

func Failed(counterexample []smt.Assignment) Outcome {
	return Outcome{Status: StatusFailed, Counterexample: counterexample}
}

func Unknown(reason string) Outcome {
	return Outcome{Status: StatusUnknown, Reason: reason}
}

func Error(kind ErrorKind, message string) Outcome {
	return Outcome{Status: StatusError, ErrorKind: kind, Message: message}
}

func (o Outcome) String() string {
	switch o.Status {
	case StatusFailed:
		if len(o.Counterexample) == 0 {
			return "Failed"
		}
		parts := make([]string, len(o.Counterexample))
		for i, a := range o.Counterexample {
			parts[i] = fmt.Sprintf("%s = %s", a.Name, a.Value)
		}
		return fmt.Sprintf("Failed{%s}", strings.Join(parts, ", "))
	case StatusUnknown:
		return fmt.Sprintf("Unknown{%s}", o.Reason)
	case StatusError:
		return fmt.Sprintf("Error{%s: %s}", o.ErrorKind, o.Message)
	}
	return string(o.Status)
}

// Value returns the counterexample value of name.
func (o Outcome) Value(name string) (string, bool) {
	for _, a := range o.Counterexample {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
