package launchconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/factory"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs/fsmock"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWatchedListing(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte(_appYAML), 0644))

	scope := tally.NewTestScope("testing", nil)
	lc := fxtest.NewLifecycle(t)
	r, err := New(Params{
		Config:    dirConfig(t, dir),
		Lifecycle: lc,
		FS:        fs.New(),
		Logger:    zap.NewNop().Sugar(),
		Stats:     scope,
	})
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	first, err := r.List(ctx, "java")
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Callers get their own copies of cached entries.
	first[0].VMArgs[0] = "-Xmx8g"
	second, err := r.List(ctx, "java")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "-Xmx1g", second[0].VMArgs[0])
	assert.Equal(t, int64(1), scope.Snapshot().Counters()["testing.launch_configs.cache_hits+"].Value())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("name: other\ntype: java\nproject: other\n"), 0644))
	assert.Eventually(t, func() bool {
		configs, err := r.List(ctx, "java")
		return err == nil && len(configs) == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestCreateInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	lc := fxtest.NewLifecycle(t)
	r, err := New(Params{
		Config:    dirConfig(t, t.TempDir()),
		Lifecycle: lc,
		FS:        fs.New(),
		Logger:    zap.NewNop().Sugar(),
		Stats:     tally.NoopScope,
	})
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	configs, err := r.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, configs)

	_, err = r.Create(ctx, factory.LaunchConfig("app", "app", false), true)
	require.NoError(t, err)

	configs, err = r.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, configs, 1)
}

func TestStartWatchingFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockFS := fsmock.NewMockHotswapFS(ctrl)
	mockFS.EXPECT().MkdirAll("/configs").Return(errors.New("read-only"))
	mockFS.EXPECT().DirExists("/configs").Return(false, nil).Times(2)

	core, recorded := observer.New(zap.WarnLevel)
	lc := fxtest.NewLifecycle(t)
	r, err := New(Params{
		Config:    dirConfig(t, "/configs"),
		Lifecycle: lc,
		FS:        mockFS,
		Logger:    zap.New(core).Sugar(),
		Stats:     tally.NoopScope,
	})
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	assert.Equal(t, 1, recorded.FilterMessage("launch configuration dir unavailable, listing without cache").Len())

	// Without a watcher every listing reads the directory.
	for i := 0; i < 2; i++ {
		_, err := r.List(context.Background(), "")
		require.NoError(t, err)
	}
}
