package orchestrator

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
)

// Run is the handle of one hotswap debug session workflow. Every Run produces exactly one SessionResult.
type Run struct {
	id      string
	token   string
	project string
	session uuid.UUID
	cancel  context.CancelFunc

	once   sync.Once
	done   chan struct{}
	result entity.SessionResult
}

func newRun(id, token, project string, session uuid.UUID, cancel context.CancelFunc) *Run {
	if cancel == nil {
		cancel = func() {}
	}
	return &Run{
		id:      id,
		token:   token,
		project: project,
		session: session,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// ID returns the run identifier sent with the launch request.
func (r *Run) ID() string { return r.id }

// Token returns the work done progress token of the run.
func (r *Run) Token() string { return r.token }

// Project returns the name of the project the run was started for.
func (r *Run) Project() string { return r.project }

// Done is closed once the result is available.
func (r *Run) Done() <-chan struct{} { return r.done }

// Cancel requests cancellation. It takes effect at the next phase boundary.
func (r *Run) Cancel() { r.cancel() }

// Result returns the result of a completed run.
func (r *Run) Result() (entity.SessionResult, bool) {
	select {
	case <-r.done:
		return r.result, true
	default:
		return entity.SessionResult{}, false
	}
}

// Wait blocks until the run completes or ctx is done.
func (r *Run) Wait(ctx context.Context) (entity.SessionResult, error) {
	select {
	case <-r.done:
		return r.result, nil
	case <-ctx.Done():
		return entity.SessionResult{}, ctx.Err()
	}
}

func (r *Run) complete(result entity.SessionResult) {
	r.once.Do(func() {
		r.result = result
		close(r.done)
		r.cancel()
	})
}

// NewCompletedRun returns a run that already holds result.
func NewCompletedRun(id, token, project string, result entity.SessionResult) *Run {
	r := newRun(id, token, project, uuid.Nil, nil)
	r.complete(result)
	return r
}
