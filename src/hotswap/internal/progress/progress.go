// Package progress tracks the weighted progress of a hotswap debug session run.
package progress

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"go.uber.org/zap"
)

// Reporter delivers progress updates to a sink such as the IDE.
type Reporter interface {
	Begin(ctx context.Context, title string) error
	Report(ctx context.Context, message string, percentage uint32) error
	End(ctx context.Context, message string) error
}

// Tracker accumulates phase weights. Each weighted phase is counted at most once,
// so the reported value never decreases and never exceeds entity.ProgressTotal.
type Tracker struct {
	mu        sync.Mutex
	weights   map[entity.Phase]uint32
	completed map[entity.Phase]bool
	value     uint32
	trace     []uint32
	reporter  Reporter
	logger    *zap.SugaredLogger
}

// NewTracker returns a Tracker over the given weights, which must sum to entity.ProgressTotal.
func NewTracker(weights map[entity.Phase]uint32, reporter Reporter, logger *zap.SugaredLogger) (*Tracker, error) {
	if err := entity.ValidateWeights(weights); err != nil {
		return nil, err
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Tracker{
		weights:   weights,
		completed: make(map[entity.Phase]bool, len(weights)),
		reporter:  reporter,
		logger:    logger,
	}, nil
}

// Begin starts reporting.
func (t *Tracker) Begin(ctx context.Context, title string) {
	if err := t.reporter.Begin(ctx, title); err != nil {
		t.logger.Warnw("starting progress", zap.Error(err))
	}
}

// Complete records the full weight of phase and reports the new cumulative value.
// Phases without a weight, or completed before, leave the value unchanged and report nothing.
func (t *Tracker) Complete(ctx context.Context, phase entity.Phase) uint32 {
	t.mu.Lock()
	weight, ok := t.weights[phase]
	if !ok || t.completed[phase] {
		value := t.value
		t.mu.Unlock()
		return value
	}
	t.completed[phase] = true
	t.value = min(t.value+weight, entity.ProgressTotal)
	value := t.value
	t.trace = append(t.trace, value)
	t.mu.Unlock()

	if err := t.reporter.Report(ctx, fmt.Sprintf("%s done", phase), value); err != nil {
		t.logger.Warnw("reporting progress", "phase", phase.String(), zap.Error(err))
	}
	return value
}

// End finishes reporting with a final message.
func (t *Tracker) End(ctx context.Context, message string) {
	if err := t.reporter.End(ctx, message); err != nil {
		t.logger.Warnw("ending progress", zap.Error(err))
	}
}

// Value returns the current cumulative progress.
func (t *Tracker) Value() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Trace returns every value reported so far, in order.
func (t *Tracker) Trace() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.trace)
}

// NopReporter discards progress.
type NopReporter struct{}

// Begin implements Reporter.
func (NopReporter) Begin(context.Context, string) error { return nil }

// Report implements Reporter.
func (NopReporter) Report(context.Context, string, uint32) error { return nil }

// End implements Reporter.
func (NopReporter) End(context.Context, string) error { return nil }
