package smt

import (
	"context"
	"sync"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"speclock/internal/logic"
)

// DefaultLogic covers uninterpreted functions over nonlinear integer
// arithmetic. Yices decides it with MCSAT.
const DefaultLogic = "QF_UFNIA"

// Yices runs sessions in process. Yices keeps its term tables in global
// state, so one session is open at a time.
type Yices struct {
	logic string
	funcs *functions

	mu     sync.Mutex
	closed bool
}

func NewYices(logic string) (*Yices, error) {
	if logic == "" {
		logic = DefaultLogic
	}
	yices2.Init()
	y := &Yices{
		logic: logic,
		funcs: newFunctions(),
	}
	// validate the logic once so that sessions fail early and uniformly
	var cfg yices2.ConfigT
	yices2.InitConfig(&cfg)
	defer yices2.CloseConfig(&cfg)
	if errcode := yices2.DefaultConfigForLogic(cfg, logic); errcode < 0 {
		yices2.Exit()
		return nil, errors.Errorf("yices logic %s: %s", logic, yices2.ErrorString())
	}
	return y, nil
}

func (y *Yices) Name() string      { return KindYices }
func (y *Yices) Quantifiers() bool { return false }

// Close releases every yices resource. It waits for an open session.
func (y *Yices) Close() error {
	y.mu.Lock()
	defer y.mu.Unlock()
	if !y.closed {
		y.closed = true
		yices2.Exit()
	}
	return nil
}

func (y *Yices) NewSession() (Session, error) {
	y.mu.Lock()
	if y.closed {
		y.mu.Unlock()
		return nil, errors.New("yices backend closed")
	}

	var cfg yices2.ConfigT
	yices2.InitConfig(&cfg)
	defer yices2.CloseConfig(&cfg)
	if errcode := yices2.DefaultConfigForLogic(cfg, y.logic); errcode < 0 {
		y.mu.Unlock()
		return nil, errors.Errorf("yices logic %s: %s", y.logic, yices2.ErrorString())
	}
	s := &Solver{
		backend: y,
		vars:    make(map[*logic.Var]yices2.TermT),
	}
	yices2.InitContext(cfg, &s.ctx)
	return s, nil
}

// Solver is a yices session. It holds the backend lock until Close.
type Solver struct {
	backend *Yices
	ctx     yices2.ContextT
	model   *yices2.ModelT
	vars    map[*logic.Var]yices2.TermT
	closed  bool
}

func (s *Solver) Assert(terms ...logic.Term) error {
	if logic.HasQuantifier(terms...) {
		return errors.Errorf("%s accepts quantifier-free formulas only", KindYices)
	}
	raw := make([]yices2.TermT, 0, len(terms))
	for _, t := range terms {
		r, err := s.lower(t)
		if err != nil {
			return errors.Wrapf(err, "lower %s", t)
		}
		raw = append(raw, r)
	}
	errorcode := yices2.AssertFormulas(s.ctx, raw)
	if errorcode < 0 {
		return errors.Errorf("assert: %s", yices2.ErrorString())
	}
	return nil
}

func (s *Solver) Check(ctx context.Context) (Status, error) {
	if ctx.Err() != nil {
		return StatusUnknown, nil
	}
	var (
		done    = make(chan struct{})
		stopped = make(chan struct{})
	)
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			yices2.StopSearch(s.ctx)
		case <-done:
		}
	}()

	status := yices2.CheckContext(s.ctx, yices2.ParamT{})
	close(done)
	<-stopped
	log.Debugf("yices status %d", status)
	switch status {
	case yices2.StatusSat:
		s.freeModel()
		s.model = yices2.GetModel(s.ctx, 1)
		if s.model == nil {
			return StatusUnknown, errors.Errorf("get model: %s", yices2.ErrorString())
		}
		return StatusSat, nil
	case yices2.StatusUnsat:
		return StatusUnsat, nil
	case yices2.StatusInterrupted, yices2.StatusUnknown:
		return StatusUnknown, nil
	case yices2.StatusError:
		return StatusUnknown, errors.Errorf("check: %s", yices2.ErrorString())
	}
	return StatusUnknown, errors.Errorf("check: unexpected status %d", status)
}

func (s *Solver) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.freeModel()
	yices2.CloseContext(&s.ctx)
	s.backend.mu.Unlock()
}

func (s *Solver) freeModel() {
	if s.model != nil {
		yices2.CloseModel(s.model)
		s.model = nil
	}
}
