package patch

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runner runs one request. *Agent implements it.
type Runner interface {
	Run(ctx context.Context, req ExecutionRequest) error
}

// Result is the outcome of one request in a batch.
type Result struct {
	Request ExecutionRequest
	Err     error
}

// Executor fans a batch of requests out to a Runner.
type Executor struct {
	runner Runner
}

// NewExecutor returns an Executor running every request through r.
func NewExecutor(r Runner) *Executor {
	return &Executor{runner: r}
}

// Run starts every request at once and waits for all of them. A failing
// request does not cancel the others. Results are in request order.
//
// Requests against the same container are not serialized; callers must
// not submit overlapping requests for one container.
func (e *Executor) Run(ctx context.Context, reqs ...ExecutionRequest) []Result {
	results := make([]Result, len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			results[i] = Result{Request: req, Err: e.runner.Run(ctx, req)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Failed counts results with an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
