package bundle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speclock/internal/contract"
)

const sample = `
constants:
  CAP: "1_000"
functions:
  - name: block_subsidy
    params:
      - {name: height, type: u64}
    returns: u64
    body: |
      halvings := height / HALVING_INTERVAL
      if halvings >= 64 {
          return 0
      }
      return INITIAL_SUBSIDY >> halvings
    requires:
      - height >= 0
    ensures:
      - condition: result <= consensus.INITIAL_SUBSIDY
        comment: never exceeds the initial subsidy
      - result >= 0
  - name: pick
    params:
      - {name: cond, type: bool}
      - {name: a, type: i64}
    returns: i64
    body: |
      if cond {
          return a
      }
      return a
    ensures: ["result == a"]
`

func Test_Parse(t *testing.T) {
	b, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, int64(1000), b.Constants["CAP"])
	require.Len(t, b.Functions, 2)

	fn := b.Functions[0]
	assert.Equal(t, "block_subsidy", fn.Name)
	assert.Equal(t, "u64", fn.Signature.Returns)
	require.Len(t, fn.Contracts, 3)
	assert.Equal(t, contract.KindRequires, fn.Contracts[0].Kind)
	assert.Equal(t, "height >= 0", contract.String(fn.Contracts[0].Condition))
	assert.Equal(t, "result <= consensus::INITIAL_SUBSIDY", contract.String(fn.Contracts[1].Condition))
	assert.Equal(t, "never exceeds the initial subsidy", fn.Contracts[1].Comment)
	assert.Len(t, fn.Requires(), 1)
	assert.Len(t, fn.Ensures(), 2)

	require.Len(t, fn.Body.Stmts, 2)
	let, ok := fn.Body.Stmts[0].(*contract.Let)
	require.True(t, ok)
	assert.Equal(t, "halvings", let.Name)
	_, ok = fn.Body.Stmts[1].(*contract.If)
	assert.True(t, ok)
	assert.Equal(t, "INITIAL_SUBSIDY >> halvings", contract.String(fn.Body.Tail))
}

func Test_ParseExpr(t *testing.T) {
	cases := map[string]string{
		"i < v.len()":              "i < v.len()",
		"len(v) > 0":               "v.len() > 0",
		"!(a && b) || c":           "!(a && b) || c",
		"*p == -1":                 "*p == -1",
		"arr[0] > 0":               "arr[0] > 0",
		"opt.is_some()":            "opt.is_some()",
		"abs(x) >= 0":              "abs(x) >= 0",
		"x == consensus.MAX_MONEY": "x == consensus::MAX_MONEY",
		"x == 017":                 "x == 15",
		"x == 0o17":                "x == 15",
		"x == 0b101":               "x == 5",
		"x == 0x_ff":               "x == 255",
		"x == 1_000":               "x == 1000",
	}
	for src, want := range cases {
		e, err := ParseExpr(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, contract.String(e), src)
	}

	// literals beyond int64 keep their value and fail later in translation
	e, err := ParseExpr("0x1_0000_0000_0000_0000")
	require.NoError(t, err)
	assert.Equal(t, "18446744073709551616", contract.String(e))

	e, err = ParseExpr("x &^ y")
	require.NoError(t, err)
	assert.Equal(t, contract.BinaryOp("&^"), e.(*contract.Binary).Op)

	_, err = ParseExpr("x +")
	assert.Error(t, err)
	_, err = ParseExpr("func() int { return 1 }()")
	assert.Error(t, err)
}

func Test_ParseBodyElseIf(t *testing.T) {
	body, err := ParseBody(`
var sign = 0
if x > 0 {
    sign = 1
} else if x < 0 {
    return -1
} else {
    return 0
}
return sign
`)
	assert.Error(t, err)
	assert.Nil(t, body)

	body, err = ParseBody(`
if x > 0 {
    return 1
} else if x < 0 {
    return -1
}
return 0
`)
	require.NoError(t, err)
	require.Len(t, body.Stmts, 1)
	ifs := body.Stmts[0].(*contract.If)
	require.NotNil(t, ifs.Else)
	require.Len(t, ifs.Else.Stmts, 1)
	_, ok := ifs.Else.Stmts[0].(*contract.If)
	assert.True(t, ok)
	assert.Equal(t, "0", contract.String(body.Tail))
}

func Test_ParseErrors(t *testing.T) {
	_, err := Parse([]byte("functions:\n  - params: []\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("functions:\n  - name: f\n  - name: f\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("functions:\n  - name: f\n    body: |\n      for {}\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("functions:\n  - name: f\n    ensures: [\"result >\"]\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("constants:\n  CAP: lots\n"))
	assert.Error(t, err)

	b, err := Parse([]byte("functions:\n  - name: f\n    requires: [\"x >= 0\"]\n"))
	require.NoError(t, err)
	assert.Nil(t, b.Functions[0].Body)
}
