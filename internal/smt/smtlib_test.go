package smt

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speclock/internal/logic"
)

func Test_ParseValues(t *testing.T) {
	values, err := parseValues("((a 5)\n (|v.len()| (- 12))\n (p false))")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "5", "v.len()": "-12", "p": "false"}, values)

	_, err = parseValues("((a 5)")
	assert.Error(t, err)
	_, err = parseValues("((a (/ 1 2)))")
	assert.Error(t, err)
}

func Test_Z3Script(t *testing.T) {
	a := logic.NewVar("a", logic.SortInt)
	b := logic.NewVar("b", logic.SortInt)
	s := &Z3Session{}
	require.NoError(t, s.Assert(
		logic.Ge(logic.Apply(logic.Shr, a, b), logic.Int(0)),
		logic.ForAll([]*logic.Var{b}, logic.Ge(logic.Apply(logic.Len, b), logic.Int(0))),
	))
	assert.Error(t, s.Assert(logic.Add(a, b)))

	assert.Equal(t, "(set-option :produce-models true)\n"+
		"(declare-fun shr (Int Int) Int)\n"+
		"(declare-fun len (Int) Int)\n"+
		"(declare-const a Int)\n"+
		"(declare-const b Int)\n"+
		"(assert (>= (shr a b) 0))\n"+
		"(assert (forall ((b Int)) (>= (len b) 0)))\n"+
		"(check-sat)\n"+
		"(get-value (a b))\n", s.Script())
}

func Test_Z3ScriptRenamesClashingSymbols(t *testing.T) {
	a := logic.NewVar("a", logic.SortInt)
	shr := logic.NewVar("shr", logic.SortInt)
	abs := logic.NewVar("abs", logic.SortInt)
	s := &Z3Session{}
	require.NoError(t, s.Assert(logic.Ge(logic.Apply(logic.Shr, a, shr), abs)))

	assert.Equal(t, "(set-option :produce-models true)\n"+
		"(declare-fun shr (Int Int) Int)\n"+
		"(declare-const a Int)\n"+
		"(declare-const shr! Int)\n"+
		"(declare-const abs! Int)\n"+
		"(assert (>= (shr a shr!) abs!))\n"+
		"(check-sat)\n"+
		"(get-value (a shr! abs!))\n", s.Script())

	values, err := parseValues("((a 1) (shr! 2) (|abs!| (- 3)))")
	require.NoError(t, err)
	s.model = values
	model, err := s.Model([]*logic.Var{a, shr, abs})
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{Name: "a", Value: "1"}, {Name: "shr", Value: "2"}, {Name: "abs", Value: "-3"}}, model)
}

func z3Session(t *testing.T) Session {
	if _, err := exec.LookPath("z3"); err != nil {
		t.Skip("z3 not found on PATH, skipping integration test")
	}
	z, err := NewZ3("")
	require.NoError(t, err)
	s, err := z.NewSession()
	require.NoError(t, err)
	return s
}

func Test_Z3Counterexample(t *testing.T) {
	s := z3Session(t)
	defer s.Close()

	a := logic.NewVar("a", logic.SortInt)
	require.NoError(t, s.Assert(logic.Le(a, logic.Int(5)), logic.Not(logic.Gt(a, logic.Int(10)))))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	status, err := s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusSat, status)

	model, err := s.Model([]*logic.Var{a})
	require.NoError(t, err)
	require.Len(t, model, 1)
	assert.Equal(t, "a", model[0].Name)
}

func Test_Z3BuiltinNamedVariable(t *testing.T) {
	s := z3Session(t)
	defer s.Close()

	mod := logic.NewVar("mod", logic.SortInt)
	require.NoError(t, s.Assert(logic.Gt(mod, logic.Int(3)), logic.Lt(mod, logic.Int(5))))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	status, err := s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, StatusSat, status)

	model, err := s.Model([]*logic.Var{mod})
	require.NoError(t, err)
	assert.Equal(t, []Assignment{{Name: "mod", Value: "4"}}, model)
}

func Test_Z3QuantifiedUnsat(t *testing.T) {
	s := z3Session(t)
	defer s.Close()

	x := logic.NewVar("x", logic.SortInt)
	bound := logic.NewVar("y", logic.SortInt)
	require.NoError(t, s.Assert(
		logic.ForAll([]*logic.Var{bound}, logic.Ge(logic.Apply(logic.Len, bound), logic.Int(0))),
		logic.Lt(logic.Apply(logic.Len, x), logic.Int(0)),
	))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	status, err := s.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusUnsat, status)
}
