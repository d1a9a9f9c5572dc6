package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"

	"speclock/internal/contract"
	"speclock/internal/staticcheck"
	"speclock/internal/translator"
)

// Classification is the static verdict on one contract.
type Classification struct {
	Function  string `json:"function"`
	Kind      string `json:"kind"`
	Condition string `json:"condition"`
	Shape     string `json:"shape"`
	Result    string `json:"result"`
}

// Classify runs the static checker over every contract of fns.
func Classify(fns []*contract.Function, consts translator.Constants) []Classification {
	var result []Classification
	for _, fn := range fns {
		for _, c := range fn.Contracts {
			result = append(result, Classification{
				Function:  fn.Name,
				Kind:      c.Kind.String(),
				Condition: contract.String(c.Condition),
				Shape:     staticcheck.Classify(c).String(),
				Result:    staticcheck.Check(c, fn.Signature, consts).String(),
			})
		}
	}
	return result
}

func WriteClassifications(w io.Writer, format string, cs []Classification) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(cs), "encode classifications")
	case FormatText, "":
		colour := IsTerminal(w)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FUNCTION\tKIND\tSHAPE\tRESULT\tCONDITION")
		for _, c := range cs {
			result := c.Result
			if colour {
				result = Colour(resultColour(c.Result), result)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.Function, c.Kind, c.Shape, result, c.Condition)
		}
		return tw.Flush()
	}
	return errors.Errorf("unknown report format %q", format)
}

func resultColour(result string) int {
	switch result {
	case staticcheck.Passed.String():
		return green
	case staticcheck.Failed.String():
		return red
	}
	return yellow
}
