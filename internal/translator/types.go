package translator

import (
	"speclock/internal/contract"
	"speclock/internal/logic"
)

// ResultName is the reserved symbol standing for a function's return value.
const ResultName = "result"

func sortOf(typ string) logic.Sort {
	if contract.IsBool(typ) {
		return logic.SortBool
	}
	return logic.SortInt
}

// Declare creates the symbols of sig in env and returns the type constraints
// they induce: one v >= 0 for every unsigned parameter, and for the result when
// withResult is set and the return type is unsigned. Declaring the same
// signature twice in one environment adds no constraint the second time.
func Declare(sig *contract.Signature, env *Env, withResult bool) []logic.Term {
	var constraints []logic.Term
	if sig == nil {
		return nil
	}
	for _, p := range sig.Params {
		v, created := env.Declare(p.Name, sortOf(p.Type))
		if created && contract.IsUnsigned(p.Type) {
			constraints = append(constraints, logic.Ge(v, logic.Int(0)))
		}
	}
	if withResult && sig.HasReturn() {
		v, created := env.Declare(ResultName, sortOf(sig.Returns))
		if created && contract.IsUnsigned(sig.Returns) {
			constraints = append(constraints, logic.Ge(v, logic.Int(0)))
		}
	}
	return constraints
}
