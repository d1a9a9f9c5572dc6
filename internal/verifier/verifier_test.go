package verifier

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speclock/internal/contract"
	"speclock/internal/logic"
	"speclock/internal/smt"
)

var (
	a        = contract.Var("a")
	b        = contract.Var("b")
	result   = contract.Var("result")
	zero     = contract.Int("0")
	bin      = contract.Bin
	requires = func(e contract.Expr) contract.Contract { return contract.Requires(e, "") }
	ensures  = func(e contract.Expr) contract.Contract { return contract.Ensures(e, "") }
)

func signed(names ...string) *contract.Signature {
	sig := &contract.Signature{Returns: "i64"}
	for _, n := range names {
		sig.Params = append(sig.Params, contract.Param{Name: n, Type: "i64"})
	}
	return sig
}

// withYices runs fn against a fresh in-process backend.
func withYices(t *testing.T, fn func(v *Verifier)) {
	y, err := smt.NewYices("")
	require.NoError(t, err)
	defer y.Close()
	fn(New(y))
}

func Test_ScenarioA(t *testing.T) {
	withYices(t, func(v *Verifier) {
		fn := &Function{Signature: signed("a", "b"), Body: &contract.Block{Tail: bin(contract.OpAdd, a, b)}}
		assumed := []contract.Contract{requires(bin(contract.OpGe, a, zero)), requires(bin(contract.OpGe, b, zero))}

		o := v.Verify(context.Background(), ensures(bin(contract.OpGe, result, zero)), fn, assumed)
		assert.Equal(t, StatusVerified, o.Status, o.String())
		assert.Equal(t, smt.KindYices, o.DecidedBy)

		// without the preconditions a + b may be negative
		o = v.Verify(context.Background(), ensures(bin(contract.OpGe, result, zero)), fn, nil)
		assert.Equal(t, StatusFailed, o.Status, o.String())
	})
}

func Test_ScenarioB(t *testing.T) {
	withYices(t, func(v *Verifier) {
		sig := signed("a")
		sig.Params = append(sig.Params, contract.Param{Name: "cond", Type: "bool"})
		fn := &Function{Signature: sig, Body: &contract.Block{
			Stmts: []contract.Stmt{&contract.If{
				Cond: contract.Var("cond"),
				Then: &contract.Block{Stmts: []contract.Stmt{&contract.Return{Value: a}}},
			}},
			Tail: a,
		}}

		o := v.Verify(context.Background(), ensures(bin(contract.OpEq, result, a)), fn, nil)
		assert.Equal(t, StatusVerified, o.Status, o.String())
	})
}

func Test_ScenarioC(t *testing.T) {
	withYices(t, func(v *Verifier) {
		fn := &Function{Signature: signed("a"), Body: &contract.Block{Tail: a}}
		assumed := []contract.Contract{requires(bin(contract.OpLe, a, contract.Int("5")))}

		o := v.Verify(context.Background(), ensures(bin(contract.OpGt, result, contract.Int("10"))), fn, assumed)
		require.Equal(t, StatusFailed, o.Status, o.String())
		value, ok := o.Value("a")
		require.True(t, ok, o.String())
		n, err := strconv.ParseInt(value, 10, 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, n, int64(5))
		r, ok := o.Value("result")
		assert.True(t, ok)
		assert.Equal(t, value, r)
	})
}

func Test_ScenarioD(t *testing.T) {
	withYices(t, func(v *Verifier) {
		initial, height, interval := contract.Var("initial"), contract.Var("height"), contract.Var("interval")
		fn := &Function{
			Signature: signed("initial", "height", "interval"),
			Body: &contract.Block{Tail: bin(contract.OpShr, initial,
				&contract.Paren{X: bin(contract.OpDiv, height, interval)})},
		}
		assumed := []contract.Contract{
			requires(bin(contract.OpGe, initial, zero)),
			requires(bin(contract.OpGe, height, zero)),
			requires(bin(contract.OpGe, interval, contract.Int("1"))),
		}

		o := v.Verify(context.Background(), ensures(bin(contract.OpLe, result, initial)), fn, assumed)
		assert.Equal(t, StatusVerified, o.Status, o.String())

		// the axioms bound shifts but do not pin them down
		o = v.Verify(context.Background(), ensures(bin(contract.OpEq, result, initial)), fn, assumed)
		assert.Equal(t, StatusFailed, o.Status, o.String())
	})
}

func Test_ScenarioE(t *testing.T) {
	withYices(t, func(v *Verifier) {
		cond := bin(contract.OpGt, &contract.Index{X: contract.Var("arr"), Index: zero}, zero)

		o := v.Verify(context.Background(), ensures(cond), &Function{Signature: signed("arr")}, nil)
		assert.Equal(t, StatusError, o.Status)
		assert.Equal(t, UnsupportedExpression, o.ErrorKind)
	})
}

func Test_VoidFunction(t *testing.T) {
	withYices(t, func(v *Verifier) {
		fn := &Function{
			Signature: &contract.Signature{Params: []contract.Param{{Name: "a", Type: "i64"}}},
			Body:      &contract.Block{Stmts: []contract.Stmt{&contract.ExprStmt{X: a}}},
		}
		positive := bin(contract.OpGt, a, zero)

		o := v.Verify(context.Background(), ensures(positive), fn, []contract.Contract{requires(positive)})
		assert.Equal(t, StatusVerified, o.Status, o.String())

		o = v.Verify(context.Background(), ensures(positive), fn, nil)
		assert.Equal(t, StatusFailed, o.Status, o.String())

		// result does not exist without a return type
		o = v.Verify(context.Background(), ensures(bin(contract.OpGe, result, zero)), fn, nil)
		assert.Equal(t, StatusError, o.Status)
	})
}

func Test_NoSilentPass(t *testing.T) {
	withYices(t, func(v *Verifier) {
		fn := &Function{Signature: signed("a"), Body: &contract.Block{Tail: a}}
		conds := []contract.Expr{
			bin(contract.OpGe, &contract.Call{Fun: "abs", Args: []contract.Expr{a}}, zero),
			bin(contract.OpGe, &contract.MethodCall{Receiver: a, Method: "count_ones"}, zero),
			bin(contract.OpGe, &contract.Literal{Kind: contract.LitFloat, Text: "0.5"}, zero),
			bin(contract.OpEq, bin(contract.OpRem, a, contract.Int("2")), zero),
			bin(contract.OpAnd, a, contract.Bool(true)),
		}
		for _, cond := range conds {
			o := v.Verify(context.Background(), ensures(cond), fn, nil)
			assert.Equal(t, StatusError, o.Status, contract.String(cond))
		}

		badBody := &Function{Signature: signed("a"), Body: &contract.Block{Tail: &contract.Literal{Kind: contract.LitFloat, Text: "1.5"}}}
		o := v.Verify(context.Background(), ensures(bin(contract.OpGe, result, a)), badBody, nil)
		assert.Equal(t, StatusError, o.Status)
		assert.Equal(t, UnsupportedLiteral, o.ErrorKind)

		badAssumption := []contract.Contract{requires(bin(contract.OpGe, &contract.Index{X: a, Index: zero}, zero))}
		o = v.Verify(context.Background(), ensures(bin(contract.OpGe, result, a)), fn, badAssumption)
		assert.Equal(t, StatusError, o.Status)
	})
}

func Test_AxiomSoundness(t *testing.T) {
	withYices(t, func(v *Verifier) {
		fn := &Function{Signature: signed("a", "b"), Body: &contract.Block{Tail: a}}
		assumed := []contract.Contract{requires(bin(contract.OpGe, a, zero)), requires(bin(contract.OpGe, b, zero))}
		shr := bin(contract.OpShr, a, b)

		o := v.Verify(context.Background(), ensures(bin(contract.OpAnd,
			bin(contract.OpGe, shr, zero), bin(contract.OpLe, shr, a))), fn, assumed)
		assert.Equal(t, StatusVerified, o.Status, o.String())

		o = v.Verify(context.Background(), ensures(bin(contract.OpEq, bin(contract.OpShr, a, zero), a)), fn, nil)
		assert.Equal(t, StatusVerified, o.Status, o.String())

		o = v.Verify(context.Background(), ensures(bin(contract.OpGe, bin(contract.OpShl, a, b), a)), fn, assumed)
		assert.Equal(t, StatusVerified, o.Status, o.String())
	})
}

func Test_RequiresCheck(t *testing.T) {
	withYices(t, func(v *Verifier) {
		sig := &contract.Signature{Params: []contract.Param{{Name: "x", Type: "i64"}, {Name: "n", Type: "u32"}}}
		fn := &Function{Signature: sig}

		o := v.Verify(context.Background(), requires(bin(contract.OpGe, contract.Var("x"), zero)), fn, nil)
		require.Equal(t, StatusFailed, o.Status)
		x, ok := o.Value("x")
		require.True(t, ok)
		n, err := strconv.ParseInt(x, 10, 64)
		require.NoError(t, err)
		assert.Less(t, n, int64(0))

		o = v.Verify(context.Background(), requires(bin(contract.OpGe, contract.Var("n"), zero)), fn, nil)
		assert.Equal(t, StatusVerified, o.Status)
		assert.Equal(t, DecidedStatically, o.DecidedBy)

		o = v.Verify(context.Background(), requires(bin(contract.OpGe, result, zero)), fn, nil)
		assert.Equal(t, StatusError, o.Status)
	})
}

func Test_UnsignedWithoutStaticCheck(t *testing.T) {
	y, err := smt.NewYices("")
	require.NoError(t, err)
	defer y.Close()
	v := New(y, WithoutStaticCheck())

	sig := &contract.Signature{Params: []contract.Param{{Name: "n", Type: "usize"}}, Returns: "u64"}
	fn := &Function{Signature: sig, Body: &contract.Block{Tail: contract.Var("n")}}
	o := v.Verify(context.Background(), ensures(bin(contract.OpGe, result, zero)), fn, nil)
	assert.Equal(t, StatusVerified, o.Status)
	assert.Equal(t, smt.KindYices, o.DecidedBy)
}

func Test_LengthIsNonNegative(t *testing.T) {
	withYices(t, func(v *Verifier) {
		length := &contract.MethodCall{Receiver: contract.Var("v"), Method: "len"}
		fn := &Function{Signature: signed("v"), Body: &contract.Block{Tail: length}}

		o := v.Verify(context.Background(), ensures(bin(contract.OpGe, result, zero)), fn, nil)
		assert.Equal(t, StatusVerified, o.Status, o.String())
	})
}

func Test_CustomConstants(t *testing.T) {
	y, err := smt.NewYices("")
	require.NoError(t, err)
	defer y.Close()
	v := New(y, WithConstants(map[string]int64{"CAP": 100}))

	fn := &Function{Signature: signed("a"), Body: &contract.Block{Tail: contract.Var("CAP")}}
	o := v.Verify(context.Background(), ensures(bin(contract.OpEq, result, contract.Int("100"))), fn, nil)
	assert.Equal(t, StatusVerified, o.Status, o.String())
}

func Test_Unavailable(t *testing.T) {
	v := New(smt.NewUnavailable("built without a solver"))
	fn := &Function{Signature: signed("a"), Body: &contract.Block{Tail: a}}

	o := v.Verify(context.Background(), ensures(bin(contract.OpGt, result, a)), fn, nil)
	assert.Equal(t, StatusError, o.Status)
	assert.Equal(t, SolverUnavailable, o.ErrorKind)

	// static decisions need no solver
	o = v.Verify(context.Background(), ensures(bin(contract.OpLt, contract.Int("1"), contract.Int("2"))), fn, nil)
	assert.Equal(t, StatusVerified, o.Status)
}

// stalledBackend never answers before its context ends.
type stalledBackend struct{}

func (stalledBackend) Name() string      { return "stalled" }
func (stalledBackend) Quantifiers() bool { return false }
func (stalledBackend) Close() error      { return nil }
func (stalledBackend) NewSession() (smt.Session, error) {
	return stalledSession{}, nil
}

type stalledSession struct{}

func (stalledSession) Assert(...logic.Term) error { return nil }
func (stalledSession) Check(ctx context.Context) (smt.Status, error) {
	<-ctx.Done()
	return smt.StatusUnknown, nil
}
func (stalledSession) Model([]*logic.Var) ([]smt.Assignment, error) { return nil, nil }
func (stalledSession) Close()                                       {}

func Test_Timeout(t *testing.T) {
	v := New(stalledBackend{})
	fn := &Function{Signature: signed("a"), Body: &contract.Block{Tail: a}}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	o := v.Verify(ctx, ensures(bin(contract.OpGt, result, a)), fn, nil)
	assert.Equal(t, StatusUnknown, o.Status)
	assert.Equal(t, ReasonTimeout, o.Reason)
}

func Test_OutcomeJSON(t *testing.T) {
	outcomes := []Outcome{
		Verified(),
		Failed([]smt.Assignment{{Name: "a", Value: "5"}}),
		Unknown(ReasonTimeout),
		Error(TypeError, "operator && expects Bool operands"),
	}
	for _, o := range outcomes {
		data, err := json.Marshal(o)
		require.NoError(t, err)
		var back Outcome
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, o, back)
	}
	assert.Equal(t, "Failed{a = 5}", outcomes[1].String())
}

func Test_Z3Scenarios(t *testing.T) {
	if _, err := exec.LookPath("z3"); err != nil {
		t.Skip("z3 not found on PATH, skipping integration test")
	}
	z, err := smt.NewZ3("")
	require.NoError(t, err)
	v := New(z)

	initial := contract.Var("initial")
	fn := &Function{
		Signature: signed("initial", "height"),
		Body:      &contract.Block{Tail: bin(contract.OpShr, initial, contract.Var("height"))},
	}
	assumed := []contract.Contract{
		requires(bin(contract.OpGe, initial, zero)),
		requires(bin(contract.OpGe, contract.Var("height"), zero)),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	o := v.Verify(ctx, ensures(bin(contract.OpLe, result, initial)), fn, assumed)
	assert.Equal(t, StatusVerified, o.Status, o.String())

	// model finding under quantifiers may give up, but must never pass
	o = v.Verify(ctx, ensures(bin(contract.OpGt, result, contract.Int("10"))), fn, assumed)
	assert.NotEqual(t, StatusVerified, o.Status, o.String())
}
