package smt

import (
	"strconv"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"

	"speclock/internal/logic"
)

// Model reads vars from the last model. Symbols the solver never saw are
// unconstrained and left out.
func (s *Solver) Model(vars []*logic.Var) ([]Assignment, error) {
	if s.model == nil {
		return nil, errors.New("no model available")
	}
	result := make([]Assignment, 0, len(vars))
	for _, v := range vars {
		term, ok := s.vars[v]
		if !ok {
			continue
		}
		value, err := s.value(term, v.Sort())
		if err != nil {
			return nil, errors.Wrapf(err, "value of %s", v.Name)
		}
		result = append(result, Assignment{Name: v.Name, Value: value})
	}
	return result, nil
}

func (s *Solver) value(term yices2.TermT, sort logic.Sort) (string, error) {
	if sort == logic.SortBool {
		var val int32
		if errcode := yices2.GetBoolValue(*s.model, term, &val); errcode != 0 {
			return "", errors.New(yices2.ErrorString())
		}
		return strconv.FormatBool(val != 0), nil
	}
	var val int64
	if errcode := yices2.GetInt64Value(*s.model, term, &val); errcode != 0 {
		return "", errors.New(yices2.ErrorString())
	}
	return strconv.FormatInt(val, 10), nil
}
