// Package report renders verification results as text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"speclock/internal/speclock"
	"speclock/internal/verifier"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

const (
	red    = 31
	green  = 32
	yellow = 33
	cyan   = 36
)

func Colour(color int, str string) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, str)
}

// IsTerminal reports whether w is a terminal, where text output is coloured.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type Summary struct {
	Functions int                     `json:"functions"`
	Statuses  map[speclock.Status]int `json:"statuses"`
	Outcomes  map[verifier.Status]int `json:"outcomes"`
}

func Summarize(results []speclock.FunctionResult) Summary {
	s := Summary{
		Functions: len(results),
		Statuses:  make(map[speclock.Status]int),
		Outcomes:  make(map[verifier.Status]int),
	}
	for i := range results {
		s.Statuses[results[i].Status]++
		for status, n := range results[i].Counts() {
			s.Outcomes[status] += n
		}
	}
	return s
}

// Write renders results in format.
func Write(w io.Writer, format string, results []speclock.FunctionResult) error {
	switch format {
	case FormatJSON:
		return JSON(w, results)
	case FormatText, "":
		return Text(w, results, IsTerminal(w))
	}
	return errors.Errorf("unknown report format %q", format)
}

func JSON(w io.Writer, results []speclock.FunctionResult) error {
	doc := struct {
		Functions []speclock.FunctionResult `json:"functions"`
		Summary   Summary                   `json:"summary"`
	}{results, Summarize(results)}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(doc), "encode report")
}

func Text(w io.Writer, results []speclock.FunctionResult, colour bool) error {
	paint := func(c int, s string) string {
		if colour {
			return Colour(c, s)
		}
		return s
	}
	var sb strings.Builder
	for _, r := range results {
		fmt.Fprintf(&sb, "%s %s\n", paint(functionColour(r.Status), fmt.Sprintf("[%s]", r.Status)), r.Name)
		for _, c := range r.Contracts {
			fmt.Fprintf(&sb, "  %-8s %s\n", c.Kind, c.Condition)
			fmt.Fprintf(&sb, "           %s", paint(outcomeColour(c.Outcome.Status), c.Outcome.String()))
			if c.Outcome.DecidedBy != "" {
				fmt.Fprintf(&sb, " (%s)", c.Outcome.DecidedBy)
			}
			sb.WriteString("\n")
			if c.Comment != "" {
				fmt.Fprintf(&sb, "           %s\n", paint(cyan, "// "+c.Comment))
			}
		}
	}
	s := Summarize(results)
	fmt.Fprintf(&sb, "\n%d functions: %d passed, %d failed, %d partial\n", s.Functions,
		s.Statuses[speclock.Passed], s.Statuses[speclock.Failed], s.Statuses[speclock.Partial])
	statuses := make([]string, 0, len(s.Outcomes))
	for status := range s.Outcomes {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(&sb, "  %-9s %d\n", status, s.Outcomes[verifier.Status(status)])
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func functionColour(s speclock.Status) int {
	switch s {
	case speclock.Passed:
		return green
	case speclock.Partial:
		return yellow
	}
	return red
}

func outcomeColour(s verifier.Status) int {
	switch s {
	case verifier.StatusVerified:
		return green
	case verifier.StatusUnknown:
		return yellow
	}
	return red
}
