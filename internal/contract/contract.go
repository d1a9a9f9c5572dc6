// Package contract 定义 requires/ensures 合约及其条件表达式
package contract

import (
	"fmt"
)

type Kind int

const (
	KindRequires Kind = iota
	KindEnsures
)

func (k Kind) String() string {
	switch k {
	case KindRequires:
		return "requires"
	case KindEnsures:
		return "ensures"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Contract is a precondition or postcondition attached to a function.
type Contract struct {
	Kind      Kind
	Condition Expr
	Comment   string
}

func Requires(cond Expr, comment string) Contract {
	return Contract{Kind: KindRequires, Condition: cond, Comment: comment}
}

func Ensures(cond Expr, comment string) Contract {
	return Contract{Kind: KindEnsures, Condition: cond, Comment: comment}
}

func (c Contract) String() string {
	return fmt.Sprintf("%s(%s)", c.Kind, String(c.Condition))
}

// Validate rejects conditions containing nil nodes. Malformed input must be
// refused before it reaches the translator.
func (c Contract) Validate() error {
	if c.Kind != KindRequires && c.Kind != KindEnsures {
		return fmt.Errorf("unknown contract kind %d", int(c.Kind))
	}
	return validateExpr(c.Condition)
}

func validateExpr(e Expr) error {
	var err error
	Walk(e, func(n Expr) bool {
		if err != nil {
			return false
		}
		if isNil(n) {
			err = fmt.Errorf("malformed condition: nil node")
			return false
		}
		switch x := n.(type) {
		case *Binary:
			if isNil(x.X) || isNil(x.Y) {
				err = fmt.Errorf("malformed condition: binary %s with missing operand", x.Op)
			}
		case *Unary:
			if isNil(x.X) {
				err = fmt.Errorf("malformed condition: unary %s with missing operand", x.Op)
			}
		case *Paren:
			if isNil(x.X) {
				err = fmt.Errorf("malformed condition: empty parenthesis")
			}
		case *MethodCall:
			if isNil(x.Receiver) {
				err = fmt.Errorf("malformed condition: method %s without receiver", x.Method)
			}
		}
		return err == nil
	})
	return err
}
