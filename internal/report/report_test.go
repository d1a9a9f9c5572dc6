package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"speclock/internal/contract"
	"speclock/internal/smt"
	"speclock/internal/speclock"
	"speclock/internal/translator"
	"speclock/internal/verifier"
)

func sampleResults() []speclock.FunctionResult {
	return []speclock.FunctionResult{
		{
			Name:   "subsidy",
			Status: speclock.Passed,
			Contracts: []speclock.ContractResult{
				{Kind: "ensures", Condition: "result <= INITIAL_SUBSIDY", Comment: "capped", Outcome: verifier.Verified()},
			},
		},
		{
			Name:   "identity",
			Status: speclock.Failed,
			Contracts: []speclock.ContractResult{
				{Kind: "ensures", Condition: "result > 10", Outcome: verifier.Failed([]smt.Assignment{{Name: "a", Value: "5"}})},
				{Kind: "ensures", Condition: "arr[0] > 0", Outcome: verifier.Error(verifier.UnsupportedExpression, "index expression arr[0]")},
				{Kind: "ensures", Condition: "result >= a", Outcome: verifier.Unknown(verifier.ReasonTimeout)},
			},
		},
	}
}

func Test_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleResults(), false))

	out := buf.String()
	assert.Contains(t, out, "[Passed] subsidy")
	assert.Contains(t, out, "// capped")
	assert.Contains(t, out, "Failed{a = 5}")
	assert.Contains(t, out, "Error{UnsupportedExpression: index expression arr[0]}")
	assert.Contains(t, out, "Unknown{timeout}")
	assert.Contains(t, out, "2 functions: 1 passed, 1 failed, 0 partial")
	assert.NotContains(t, out, "\033[")
}

func Test_JSONIsLossless(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResults()))

	var doc struct {
		Functions []speclock.FunctionResult `json:"functions"`
		Summary   Summary                   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, sampleResults(), doc.Functions)
	assert.Equal(t, 2, doc.Summary.Functions)
	assert.Equal(t, 1, doc.Summary.Outcomes[verifier.StatusFailed])
}

func Test_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "junit", nil))
}

func Test_Classify(t *testing.T) {
	fn := &contract.Function{
		Name:      "f",
		Signature: &contract.Signature{Params: []contract.Param{{Name: "n", Type: "u32"}}},
		Contracts: []contract.Contract{
			contract.Requires(contract.Bin(contract.OpGe, contract.Var("n"), contract.Int("0")), ""),
			contract.Requires(contract.Bin(contract.OpEq, contract.Var("n"), contract.Int("5")), ""),
		},
	}
	cs := Classify([]*contract.Function{fn}, translator.DefaultConstants())

	require.Len(t, cs, 2)
	assert.Equal(t, Classification{Function: "f", Kind: "requires", Condition: "n >= 0", Shape: "non-negative", Result: "Passed"}, cs[0])
	assert.Equal(t, "RequiresSolver", cs[1].Result)

	var buf bytes.Buffer
	require.NoError(t, WriteClassifications(&buf, FormatText, cs))
	assert.Contains(t, buf.String(), "constant-equality")
}
