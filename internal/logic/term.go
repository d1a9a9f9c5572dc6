// Package logic is the solver-independent term language shared by the
// translator, the axiom injector and the smt backends: quantifier-optional
// formulas over unbounded integers and booleans with uninterpreted
// Int^n -> Int functions.
package logic

import (
	"fmt"
	"strconv"
	"strings"
)

type Sort int

const (
	SortInt Sort = iota
	SortBool
)

func (s Sort) String() string {
	if s == SortBool {
		return "Bool"
	}
	return "Int"
}

// Term is a well-sorted formula or integer expression. String returns the
// SMT-LIB 2 rendering.
type Term interface {
	Sort() Sort
	String() string
}

// Var is a named symbol. Free variables are declared per solver session;
// variables listed by a Forall are bound.
type Var struct {
	Name string
	sort Sort
}

func NewVar(name string, sort Sort) *Var {
	return &Var{Name: name, sort: sort}
}

func (v *Var) Sort() Sort     { return v.sort }
func (v *Var) String() string { return Symbol(v.Name) }

type IntConst struct {
	Value int64
}

func Int(v int64) IntConst { return IntConst{Value: v} }

func (c IntConst) Sort() Sort { return SortInt }
func (c IntConst) String() string {
	if c.Value < 0 {
		return fmt.Sprintf("(- %s)", strconv.FormatUint(uint64(-(c.Value+1))+1, 10))
	}
	return strconv.FormatInt(c.Value, 10)
}

type BoolConst struct {
	Value bool
}

var (
	True  = BoolConst{Value: true}
	False = BoolConst{Value: false}
)

func (c BoolConst) Sort() Sort { return SortBool }
func (c BoolConst) String() string {
	if c.Value {
		return "true"
	}
	return "false"
}

// Func is an uninterpreted function from Arity integers to an integer.
type Func struct {
	Name  string
	Arity int
}

var (
	Shr = &Func{Name: "shr", Arity: 2}
	Shl = &Func{Name: "shl", Arity: 2}
	Len = &Func{Name: "len", Arity: 1}
)

type App struct {
	Fn   *Func
	Args []Term
}

func Apply(fn *Func, args ...Term) *App {
	return &App{Fn: fn, Args: args}
}

func (a *App) Sort() Sort { return SortInt }
func (a *App) String() string {
	return sexpr(Symbol(a.Fn.Name), a.Args...)
}

type ArithOp string

const (
	OpAdd ArithOp = "+"
	OpSub ArithOp = "-"
	OpMul ArithOp = "*"
	OpDiv ArithOp = "div"
	OpNeg ArithOp = "neg"
)

type Arith struct {
	Op   ArithOp
	Args []Term
}

func (a *Arith) Sort() Sort { return SortInt }
func (a *Arith) String() string {
	if a.Op == OpNeg {
		return sexpr("-", a.Args...)
	}
	return sexpr(string(a.Op), a.Args...)
}

func Add(x, y Term) *Arith { return &Arith{Op: OpAdd, Args: []Term{x, y}} }
func Sub(x, y Term) *Arith { return &Arith{Op: OpSub, Args: []Term{x, y}} }
func Mul(x, y Term) *Arith { return &Arith{Op: OpMul, Args: []Term{x, y}} }
func Div(x, y Term) *Arith { return &Arith{Op: OpDiv, Args: []Term{x, y}} }
func Neg(x Term) *Arith    { return &Arith{Op: OpNeg, Args: []Term{x}} }

type CmpOp string

const (
	OpEq CmpOp = "="
	OpNe CmpOp = "distinct"
	OpLt CmpOp = "<"
	OpLe CmpOp = "<="
	OpGt CmpOp = ">"
	OpGe CmpOp = ">="
)

// Cmp compares two terms. Eq and Ne accept either sort as long as both sides
// agree; the orderings are integer only.
type Cmp struct {
	Op CmpOp
	X  Term
	Y  Term
}

func (c *Cmp) Sort() Sort     { return SortBool }
func (c *Cmp) String() string { return sexpr(string(c.Op), c.X, c.Y) }

func Eq(x, y Term) *Cmp { return &Cmp{Op: OpEq, X: x, Y: y} }
func Ne(x, y Term) *Cmp { return &Cmp{Op: OpNe, X: x, Y: y} }
func Lt(x, y Term) *Cmp { return &Cmp{Op: OpLt, X: x, Y: y} }
func Le(x, y Term) *Cmp { return &Cmp{Op: OpLe, X: x, Y: y} }
func Gt(x, y Term) *Cmp { return &Cmp{Op: OpGt, X: x, Y: y} }
func Ge(x, y Term) *Cmp { return &Cmp{Op: OpGe, X: x, Y: y} }

type BoolOp string

const (
	OpAnd     BoolOp = "and"
	OpOr      BoolOp = "or"
	OpNot     BoolOp = "not"
	OpImplies BoolOp = "=>"
)

type Conn struct {
	Op   BoolOp
	Args []Term
}

func (c *Conn) Sort() Sort     { return SortBool }
func (c *Conn) String() string { return sexpr(string(c.Op), c.Args...) }

// And returns True for no operands and the operand itself for one.
func And(args ...Term) Term {
	switch len(args) {
	case 0:
		return True
	case 1:
		return args[0]
	}
	return &Conn{Op: OpAnd, Args: args}
}

// Or returns False for no operands and the operand itself for one.
func Or(args ...Term) Term {
	switch len(args) {
	case 0:
		return False
	case 1:
		return args[0]
	}
	return &Conn{Op: OpOr, Args: args}
}

func Not(x Term) *Conn { return &Conn{Op: OpNot, Args: []Term{x}} }

func Implies(x, y Term) *Conn { return &Conn{Op: OpImplies, Args: []Term{x, y}} }

type Forall struct {
	Vars []*Var
	Body Term
}

func ForAll(vars []*Var, body Term) *Forall {
	return &Forall{Vars: vars, Body: body}
}

func (f *Forall) Sort() Sort { return SortBool }
func (f *Forall) String() string {
	var sb strings.Builder
	sb.WriteString("(forall (")
	for i, v := range f.Vars {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "(%s %s)", v, v.Sort())
	}
	sb.WriteString(") ")
	sb.WriteString(f.Body.String())
	sb.WriteString(")")
	return sb.String()
}

func sexpr(head string, args ...Term) string {
	var sb strings.Builder
	sb.WriteString("(")
	sb.WriteString(head)
	for _, arg := range args {
		sb.WriteString(" ")
		sb.WriteString(arg.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// reserved words of SMT-LIB 2 that are never simple symbols.
var reserved = map[string]struct{}{
	"_": {}, "!": {}, "as": {}, "let": {}, "exists": {}, "forall": {}, "match": {}, "par": {},
	"BINARY": {}, "DECIMAL": {}, "HEXADECIMAL": {}, "NUMERAL": {}, "STRING": {},
}

// Symbol quotes name when it is not a plain SMT-LIB simple symbol.
func Symbol(name string) string {
	if name == "" {
		return "||"
	}
	quoted := "|" + strings.ReplaceAll(name, "|", "") + "|"
	if _, ok := reserved[name]; ok {
		return quoted
	}
	for i, r := range name {
		simple := strings.ContainsRune("~!@$%^&*_-+=<>.?/", r) ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !simple {
			return quoted
		}
	}
	return name
}
