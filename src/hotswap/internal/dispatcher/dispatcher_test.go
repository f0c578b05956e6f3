package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func newStarted(t *testing.T) *dispatcher {
	d := newDispatcher(zap.NewNop().Sugar(), tally.NoopScope)
	require.NoError(t, d.OnStart(context.Background()))
	t.Cleanup(func() {
		assert.NoError(t, d.OnStop(context.Background()))
	})
	return d
}

func TestNew(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	d := New(Params{
		Lifecycle: lc,
		Logger:    zap.NewNop().Sugar(),
		Stats:     tally.NoopScope,
	})
	lc.RequireStart()

	ran := false
	require.NoError(t, d.RunAndWait(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	lc.RequireStop()
	assert.ErrorIs(t, d.Run(context.Background(), func(ctx context.Context) {}), ErrStopped)
}

func TestRunIsSerializedInOrder(t *testing.T) {
	d := newStarted(t)

	var (
		mu    sync.Mutex
		order []int
		wg    sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		i := i
		require.NoError(t, d.Run(context.Background(), func(ctx context.Context) {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	wg.Wait()

	require.Len(t, order, 20)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestRunDetachesCancellationButKeepsValues(t *testing.T) {
	d := newStarted(t)
	id := uuid.Must(uuid.NewV4())

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), entity.SessionContextKey, id))
	cancel()

	got := make(chan context.Context, 1)
	require.NoError(t, d.Run(ctx, func(ctx context.Context) {
		got <- ctx
	}))

	workCtx := <-got
	assert.NoError(t, workCtx.Err())
	assert.Equal(t, id, workCtx.Value(entity.SessionContextKey))
}

func TestRunAndWait(t *testing.T) {
	d := newStarted(t)

	t.Run("returns the work error", func(t *testing.T) {
		wantErr := assert.AnError
		err := d.RunAndWait(context.Background(), func(ctx context.Context) error {
			return wantErr
		})
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("nested call runs inline", func(t *testing.T) {
		calls := 0
		err := d.RunAndWait(context.Background(), func(ctx context.Context) error {
			calls++
			return d.RunAndWait(ctx, func(ctx context.Context) error {
				calls++
				return nil
			})
		})
		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("caller context done while waiting", func(t *testing.T) {
		release := make(chan struct{})
		require.NoError(t, d.Run(context.Background(), func(ctx context.Context) {
			<-release
		}))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		ran := false
		err := d.RunAndWait(ctx, func(ctx context.Context) error {
			ran = true
			return nil
		})
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		close(release)
		// Flush the queue so the abandoned task has been processed.
		require.NoError(t, d.RunAndWait(context.Background(), func(ctx context.Context) error { return nil }))
		assert.False(t, ran)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		err := d.RunAndWait(context.Background(), func(ctx context.Context) error {
			panic("boom")
		})
		assert.ErrorContains(t, err, "boom")

		// The dispatcher is still serving work.
		assert.NoError(t, d.RunAndWait(context.Background(), func(ctx context.Context) error { return nil }))
	})
}

func TestOnStopDrainsQueuedWork(t *testing.T) {
	d := newDispatcher(zap.NewNop().Sugar(), tally.NoopScope)

	ran := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, d.Run(context.Background(), func(ctx context.Context) { ran++ }))
	}

	require.NoError(t, d.OnStart(context.Background()))
	require.NoError(t, d.OnStop(context.Background()))
	assert.Equal(t, 5, ran)

	assert.ErrorIs(t, d.RunAndWait(context.Background(), func(ctx context.Context) error { return nil }), ErrStopped)
}

func TestOnStopWithoutStart(t *testing.T) {
	d := newDispatcher(zap.NewNop().Sugar(), tally.NoopScope)
	assert.NoError(t, d.OnStop(context.Background()))
}

func TestOnStopTimeout(t *testing.T) {
	d := newDispatcher(zap.NewNop().Sugar(), tally.NoopScope)
	require.NoError(t, d.OnStart(context.Background()))

	release := make(chan struct{})
	require.NoError(t, d.Run(context.Background(), func(ctx context.Context) { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.Error(t, d.OnStop(ctx))

	close(release)
	<-d.done
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
