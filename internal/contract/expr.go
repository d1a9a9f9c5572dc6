package contract

import (
	"reflect"
	"strings"
)

// Expr is a node of a contract condition or of a function body expression.
type Expr interface {
	expr()
}

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitBool
	LitFloat
	LitString
)

// Literal keeps the literal text as written; numeric parsing happens during
// translation so malformed text surfaces as a ParseError there.
type Literal struct {
	Kind LiteralKind
	Text string
}

type Ident struct {
	Name string
}

type BinaryOp string

const (
	OpAdd    BinaryOp = "+"
	OpSub    BinaryOp = "-"
	OpMul    BinaryOp = "*"
	OpDiv    BinaryOp = "/"
	OpRem    BinaryOp = "%"
	OpShr    BinaryOp = ">>"
	OpShl    BinaryOp = "<<"
	OpEq     BinaryOp = "=="
	OpNe     BinaryOp = "!="
	OpLt     BinaryOp = "<"
	OpLe     BinaryOp = "<="
	OpGt     BinaryOp = ">"
	OpGe     BinaryOp = ">="
	OpAnd    BinaryOp = "&&"
	OpOr     BinaryOp = "||"
	OpBitAnd BinaryOp = "&"
	OpBitOr  BinaryOp = "|"
	OpBitXor BinaryOp = "^"
)

type Binary struct {
	Op BinaryOp
	X  Expr
	Y  Expr
}

type UnaryOp string

const (
	OpNot   UnaryOp = "!"
	OpNeg   UnaryOp = "-"
	OpDeref UnaryOp = "*"
	OpRef   UnaryOp = "&"
)

type Unary struct {
	Op UnaryOp
	X  Expr
}

// MethodCall is a zero-argument method projection such as v.len().
type MethodCall struct {
	Receiver Expr
	Method   string
}

type Call struct {
	Fun  string
	Args []Expr
}

type Paren struct {
	X Expr
}

type Index struct {
	X     Expr
	Index Expr
}

func (*Literal) expr()    {}
func (*Ident) expr()      {}
func (*Binary) expr()     {}
func (*Unary) expr()      {}
func (*MethodCall) expr() {}
func (*Call) expr()       {}
func (*Paren) expr()      {}
func (*Index) expr()      {}
func (*If) expr()         {}

func Int(text string) *Literal { return &Literal{Kind: LitInt, Text: text} }

func Bool(v bool) *Literal {
	if v {
		return &Literal{Kind: LitBool, Text: "true"}
	}
	return &Literal{Kind: LitBool, Text: "false"}
}

func Var(name string) *Ident { return &Ident{Name: name} }

func Bin(op BinaryOp, x, y Expr) *Binary { return &Binary{Op: op, X: x, Y: y} }

func Not(x Expr) *Unary { return &Unary{Op: OpNot, X: x} }

func Neg(x Expr) *Unary { return &Unary{Op: OpNeg, X: x} }

// Walk visits e in depth-first order. Children are skipped when fn returns false.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) || isNil(e) {
		return
	}
	switch x := e.(type) {
	case *Binary:
		Walk(x.X, fn)
		Walk(x.Y, fn)
	case *Unary:
		Walk(x.X, fn)
	case *Paren:
		Walk(x.X, fn)
	case *MethodCall:
		Walk(x.Receiver, fn)
	case *Call:
		for _, arg := range x.Args {
			Walk(arg, fn)
		}
	case *Index:
		Walk(x.X, fn)
		Walk(x.Index, fn)
	}
}

// Unparen strips any number of enclosing parentheses.
func Unparen(e Expr) Expr {
	for {
		p, ok := e.(*Paren)
		if !ok || p == nil {
			return e
		}
		e = p.X
	}
}

func isNil(e Expr) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// String renders e in source form.
func String(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	if isNil(e) {
		sb.WriteString("<nil>")
		return
	}
	switch x := e.(type) {
	case *Literal:
		sb.WriteString(x.Text)
	case *Ident:
		sb.WriteString(x.Name)
	case *Binary:
		writeExpr(sb, x.X)
		sb.WriteString(" ")
		sb.WriteString(string(x.Op))
		sb.WriteString(" ")
		writeExpr(sb, x.Y)
	case *Unary:
		sb.WriteString(string(x.Op))
		writeExpr(sb, x.X)
	case *Paren:
		sb.WriteString("(")
		writeExpr(sb, x.X)
		sb.WriteString(")")
	case *MethodCall:
		writeExpr(sb, x.Receiver)
		sb.WriteString(".")
		sb.WriteString(x.Method)
		sb.WriteString("()")
	case *Call:
		sb.WriteString(x.Fun)
		sb.WriteString("(")
		for i, arg := range x.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeExpr(sb, arg)
		}
		sb.WriteString(")")
	case *Index:
		writeExpr(sb, x.X)
		sb.WriteString("[")
		writeExpr(sb, x.Index)
		sb.WriteString("]")
	case *If:
		sb.WriteString("if ")
		writeExpr(sb, x.Cond)
		sb.WriteString(" { ... }")
		if x.Else != nil {
			sb.WriteString(" else { ... }")
		}
	}
}
