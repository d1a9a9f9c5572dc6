// Package speclock 并发地验证一组函数的全部合约
package speclock

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"speclock/internal/contract"
	"speclock/internal/verifier"
)

type Status string

const (
	// Passed means every contract was verified.
	Passed Status = "Passed"
	// Failed means some contract failed or could not be checked.
	Failed Status = "Failed"
	// Partial means nothing failed but some contract stayed undecided.
	Partial Status = "Partial"
)

type ContractResult struct {
	Kind      string           `json:"kind"`
	Condition string           `json:"condition"`
	Comment   string           `json:"comment,omitempty"`
	Outcome   verifier.Outcome `json:"outcome"`
	Elapsed   time.Duration    `json:"elapsed_ns"`
}

type FunctionResult struct {
	Name      string           `json:"name"`
	Status    Status           `json:"status"`
	Contracts []ContractResult `json:"contracts"`
}

// Counts tallies the outcomes of r by status.
func (r *FunctionResult) Counts() map[verifier.Status]int {
	counts := make(map[verifier.Status]int)
	for _, c := range r.Contracts {
		counts[c.Outcome.Status]++
	}
	return counts
}

// Aggregate derives the status of a function from its contract outcomes.
func Aggregate(outcomes []verifier.Outcome) Status {
	status := Passed
	for _, o := range outcomes {
		switch o.Status {
		case verifier.StatusFailed, verifier.StatusError:
			return Failed
		case verifier.StatusUnknown:
			status = Partial
		}
	}
	return status
}

// Runner checks contracts on a bounded pool of workers. Every check gets its
// own solver session, environment and deadline.
type Runner struct {
	verifier    *verifier.Verifier
	parallelism int
	timeout     time.Duration
}

// NewRunner returns a runner; a zero timeout leaves checks unbounded.
func NewRunner(v *verifier.Verifier, parallelism int, timeout time.Duration) *Runner {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Runner{
		verifier:    v,
		parallelism: parallelism,
		timeout:     timeout,
	}
}

type job struct {
	fn       int
	index    int
	contract contract.Contract
	function *verifier.Function
	assumed  []contract.Contract
}

type done struct {
	job
	outcome verifier.Outcome
	elapsed time.Duration
}

// Run verifies every contract of fns. Requires contracts are checked against
// the signature alone; ensures contracts assume all requires of their
// function. Results keep the order of fns and of their contracts.
func (r *Runner) Run(ctx context.Context, fns []*contract.Function) []FunctionResult {
	var (
		results = make([]FunctionResult, len(fns))
		jobs    []job
	)
	for i, fn := range fns {
		results[i] = FunctionResult{
			Name:      fn.Name,
			Contracts: make([]ContractResult, len(fn.Contracts)),
		}
		target := &verifier.Function{Signature: fn.Signature, Body: fn.Body}
		assumed := fn.Requires()
		for j, c := range fn.Contracts {
			jobs = append(jobs, job{fn: i, index: j, contract: c, function: target, assumed: assumed})
		}
	}
	// requires first
	sortRequiresFirst(jobs)

	var (
		queue   = make(chan job)
		outputs = make(chan done, r.parallelism)
		wg      sync.WaitGroup
	)
	for w := 0; w < r.parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				outputs <- r.check(ctx, j)
			}
		}()
	}
	go func() {
		for _, j := range jobs {
			queue <- j
		}
		close(queue)
		wg.Wait()
		close(outputs)
	}()

	for d := range outputs {
		c := d.contract
		results[d.fn].Contracts[d.index] = ContractResult{
			Kind:      c.Kind.String(),
			Condition: contract.String(c.Condition),
			Comment:   c.Comment,
			Outcome:   d.outcome,
			Elapsed:   d.elapsed,
		}
	}
	for i := range results {
		outcomes := make([]verifier.Outcome, len(results[i].Contracts))
		for j, c := range results[i].Contracts {
			outcomes[j] = c.Outcome
		}
		results[i].Status = Aggregate(outcomes)
		log.Infof("function %s: %s", results[i].Name, results[i].Status)
	}
	return results
}

func (r *Runner) check(ctx context.Context, j job) done {
	start := time.Now()
	checkCtx, cancel := ctx, context.CancelFunc(func() {})
	if r.timeout > 0 {
		checkCtx, cancel = context.WithTimeout(ctx, r.timeout)
	}
	defer cancel()
	outcome := r.verifier.Verify(checkCtx, j.contract, j.function, j.assumed)
	elapsed := time.Since(start)
	log.Debugf("%s %s: %s in %s", j.contract.Kind, contract.String(j.contract.Condition), outcome, elapsed)
	return done{job: j, outcome: outcome, elapsed: elapsed}
}

func sortRequiresFirst(jobs []job) {
	var requires, ensures []job
	for _, j := range jobs {
		if j.contract.Kind == contract.KindRequires {
			requires = append(requires, j)
		} else {
			ensures = append(ensures, j)
		}
	}
	copy(jobs, append(requires, ensures...))
}
