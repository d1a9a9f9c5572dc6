package smt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"speclock/internal/logic"
)

// Z3 runs every check as a z3 subprocess fed an SMT-LIB 2 script on stdin.
// Sessions are independent processes and may run concurrently.
type Z3 struct {
	path string
}

func NewZ3(path string) (*Z3, error) {
	if path == "" {
		path = "z3"
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "z3 not found (%s)", path)
	}
	return &Z3{path: resolved}, nil
}

func (z *Z3) Name() string      { return KindZ3 }
func (z *Z3) Quantifiers() bool { return true }
func (z *Z3) Close() error      { return nil }

func (z *Z3) NewSession() (Session, error) {
	return &Z3Session{path: z.path}, nil
}

type Z3Session struct {
	path     string
	asserted []logic.Term
	model    map[string]string
	// symbols holds the script name of every free variable of the last script.
	symbols map[*logic.Var]string
}

// builtins are the core and integer theory symbols a declared constant
// must not reuse.
var builtins = map[string]struct{}{
	"true": {}, "false": {}, "not": {}, "and": {}, "or": {}, "xor": {}, "=>": {},
	"=": {}, "distinct": {}, "ite": {}, "div": {}, "mod": {}, "abs": {},
	"to_real": {}, "to_int": {}, "is_int": {}, "+": {}, "-": {}, "*": {}, "/": {},
	"<": {}, "<=": {}, ">": {}, ">=": {},
}

func (s *Z3Session) Assert(terms ...logic.Term) error {
	for _, t := range terms {
		if t.Sort() != logic.SortBool {
			return errors.Errorf("assert non boolean term %s", t)
		}
	}
	s.asserted = append(s.asserted, terms...)
	return nil
}

// Script renders the asserted terms as an SMT-LIB 2 script ending in
// check-sat and a get-value over every free symbol. Variables named after a
// builtin or a declared function are renamed with a trailing "!".
func (s *Z3Session) Script() string {
	var sb strings.Builder
	sb.WriteString("(set-option :produce-models true)\n")
	funcs := logic.Funcs(s.asserted...)
	taken := make(map[string]struct{}, len(funcs))
	for _, fn := range funcs {
		taken[fn.Name] = struct{}{}
		dom := strings.TrimSpace(strings.Repeat("Int ", fn.Arity))
		fmt.Fprintf(&sb, "(declare-fun %s (%s) Int)\n", logic.Symbol(fn.Name), dom)
	}

	var (
		vars     = logic.FreeVars(s.asserted...)
		declared = make([]*logic.Var, len(vars))
		sub      = make(map[*logic.Var]logic.Term)
	)
	s.symbols = make(map[*logic.Var]string, len(vars))
	for i, v := range vars {
		declared[i] = v
		_, builtin := builtins[v.Name]
		_, function := taken[v.Name]
		if builtin || function {
			declared[i] = logic.NewVar(v.Name+"!", v.Sort())
			sub[v] = declared[i]
		}
		s.symbols[v] = declared[i].Name
		fmt.Fprintf(&sb, "(declare-const %s %s)\n", declared[i], v.Sort())
	}
	for _, t := range s.asserted {
		if len(sub) > 0 {
			t = logic.Substitute(t, sub)
		}
		fmt.Fprintf(&sb, "(assert %s)\n", t)
	}
	sb.WriteString("(check-sat)\n")
	if len(declared) > 0 {
		names := make([]string, len(declared))
		for i, v := range declared {
			names[i] = v.String()
		}
		fmt.Fprintf(&sb, "(get-value (%s))\n", strings.Join(names, " "))
	}
	return sb.String()
}

func (s *Z3Session) Check(ctx context.Context) (Status, error) {
	s.model = nil
	args := []string{"-in", "-smt2"}
	if deadline, ok := ctx.Deadline(); ok {
		ms := time.Until(deadline).Milliseconds()
		if ms <= 0 {
			return StatusUnknown, nil
		}
		args = append(args, fmt.Sprintf("-t:%d", ms))
	}
	script := s.Script()
	log.Debugf("z3 script:\n%s", script)

	cmd := exec.CommandContext(ctx, s.path, args...)
	cmd.Stdin = strings.NewReader(script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	if ctx.Err() != nil {
		return StatusUnknown, nil
	}

	// z3 exits non-zero when get-value follows unsat, so the verdict line
	// is trusted over the exit status.
	output := strings.TrimSpace(stdout.String())
	verdict, rest := output, ""
	if i := strings.IndexByte(output, '\n'); i >= 0 {
		verdict, rest = strings.TrimSpace(output[:i]), output[i+1:]
	}
	switch verdict {
	case "unsat":
		return StatusUnsat, nil
	case "unknown", "timeout":
		return StatusUnknown, nil
	case "sat":
		model, err := parseValues(rest)
		if err != nil {
			return StatusUnknown, errors.Wrap(err, "z3 model")
		}
		s.model = model
		return StatusSat, nil
	}
	if runErr != nil {
		return StatusUnknown, errors.Wrapf(runErr, "z3: %s%s", output, strings.TrimSpace(stderr.String()))
	}
	return StatusUnknown, errors.Errorf("unexpected z3 output: %s", output)
}

func (s *Z3Session) Model(vars []*logic.Var) ([]Assignment, error) {
	if s.model == nil {
		return nil, errors.New("no model available")
	}
	result := make([]Assignment, 0, len(vars))
	for _, v := range vars {
		name, ok := s.symbols[v]
		if !ok {
			name = v.Name
		}
		if value, ok := s.model[name]; ok {
			result = append(result, Assignment{Name: v.Name, Value: value})
		}
	}
	return result, nil
}

func (s *Z3Session) Close() {
	s.asserted = nil
	s.model = nil
	s.symbols = nil
}
