// Package dispatcher serializes interactive work (prompts, launch requests) onto a single goroutine.
package dispatcher

import (
	"context"
	"fmt"
	"sync"

	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=dispatcher.go -destination=dispatchermock/dispatchermock.go -package=dispatchermock

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ErrStopped is returned when work is submitted after the dispatcher has been stopped.
var ErrStopped = errors.New("interactive dispatcher is stopped")

type interactiveKey struct{}

// Dispatcher runs work on the interactive goroutine.
type Dispatcher interface {
	// Run enqueues fn and returns without waiting for it. fn receives a context that keeps the values
	// of ctx but is not cancelled with it.
	Run(ctx context.Context, fn func(ctx context.Context)) error
	// RunAndWait runs fn on the interactive goroutine and blocks until it returns or ctx is done.
	// Calls made from the interactive goroutine itself run inline.
	RunAndWait(ctx context.Context, fn func(ctx context.Context) error) error
}

// Params are inbound parameters to initialize a new dispatcher.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type task struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

type dispatcher struct {
	logger *zap.SugaredLogger
	stats  tally.Scope

	mu      sync.Mutex
	queue   []task
	stopped bool
	started bool
	wake    chan struct{}
	done    chan struct{}
}

// New creates a Dispatcher whose goroutine is tied to the Fx lifecycle.
func New(p Params) Dispatcher {
	d := newDispatcher(p.Logger, p.Stats)
	p.Lifecycle.Append(fx.Hook{
		OnStart: d.OnStart,
		OnStop:  d.OnStop,
	})
	return d
}

func newDispatcher(logger *zap.SugaredLogger, stats tally.Scope) *dispatcher {
	return &dispatcher{
		logger: logger.With("plugin", "dispatcher"),
		stats:  stats.SubScope("dispatcher"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// OnStart starts the interactive goroutine.
func (d *dispatcher) OnStart(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}
	d.started = true
	go d.loop()
	return nil
}

// OnStop rejects new work and waits for queued work to drain.
func (d *dispatcher) OnStop(ctx context.Context) error {
	d.mu.Lock()
	d.stopped = true
	started := d.started
	d.mu.Unlock()
	d.signal()

	if !started {
		return nil
	}

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("draining interactive work: %w", ctx.Err())
	}
}

func (d *dispatcher) Run(ctx context.Context, fn func(ctx context.Context)) error {
	detached := context.WithoutCancel(ctx)
	return d.enqueue(task{
		ctx: detached,
		fn: func(ctx context.Context) error {
			fn(ctx)
			return nil
		},
	})
}

func (d *dispatcher) RunAndWait(ctx context.Context, fn func(ctx context.Context) error) error {
	if d.onInteractive(ctx) {
		return fn(ctx)
	}

	result := make(chan error, 1)
	if err := d.enqueue(task{ctx: ctx, fn: fn, result: result}); err != nil {
		return err
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *dispatcher) onInteractive(ctx context.Context) bool {
	owner, ok := ctx.Value(interactiveKey{}).(*dispatcher)
	return ok && owner == d
}

func (d *dispatcher) enqueue(t task) error {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return ErrStopped
	}
	d.queue = append(d.queue, t)
	d.mu.Unlock()

	d.stats.Counter("enqueued").Inc(1)
	d.signal()
	return nil
}

func (d *dispatcher) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) loop() {
	defer close(d.done)
	for {
		d.mu.Lock()
		if len(d.queue) == 0 {
			stopped := d.stopped
			d.mu.Unlock()
			if stopped {
				return
			}
			<-d.wake
			continue
		}
		t := d.queue[0]
		d.queue[0] = task{}
		d.queue = d.queue[1:]
		d.mu.Unlock()

		d.execute(t)
	}
}

func (d *dispatcher) execute(t task) {
	if t.result != nil && t.ctx.Err() != nil {
		// The waiting caller already gave up.
		t.result <- t.ctx.Err()
		return
	}

	err := d.safeCall(context.WithValue(t.ctx, interactiveKey{}, d), t.fn)
	if t.result != nil {
		t.result <- err
	} else if err != nil {
		d.logger.Errorw("interactive work failed", zap.Error(err))
	}
}

func (d *dispatcher) safeCall(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			d.stats.Counter("panics").Inc(1)
			err = fmt.Errorf("panic in interactive work: %v", r)
		}
	}()
	return fn(ctx)
}
