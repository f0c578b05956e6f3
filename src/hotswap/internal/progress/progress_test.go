package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingReporter struct {
	began   []string
	reports []uint32
	ended   []string
	err     error
}

func (r *recordingReporter) Begin(_ context.Context, title string) error {
	r.began = append(r.began, title)
	return r.err
}

func (r *recordingReporter) Report(_ context.Context, _ string, percentage uint32) error {
	r.reports = append(r.reports, percentage)
	return r.err
}

func (r *recordingReporter) End(_ context.Context, message string) error {
	r.ended = append(r.ended, message)
	return r.err
}

func TestNewTracker(t *testing.T) {
	_, err := NewTracker(map[entity.Phase]uint32{entity.PhaseCheckingAgent: 10}, nil, zap.NewNop().Sugar())
	assert.Error(t, err)

	tracker, err := NewTracker(entity.PhaseWeights, nil, zap.NewNop().Sugar())
	require.NoError(t, err)
	assert.Equal(t, uint32(0), tracker.Value())
}

func TestTrackerFullRun(t *testing.T) {
	ctx := context.Background()
	reporter := &recordingReporter{}
	tracker, err := NewTracker(entity.PhaseWeights, reporter, zap.NewNop().Sugar())
	require.NoError(t, err)

	tracker.Begin(ctx, "Hotswap debug")
	for _, phase := range entity.WeightedPhases {
		tracker.Complete(ctx, phase)
	}
	tracker.End(ctx, "launched")

	assert.Equal(t, []uint32{30, 60, 90, 100}, tracker.Trace())
	assert.Equal(t, []uint32{30, 60, 90, 100}, reporter.reports)
	assert.Equal(t, []string{"Hotswap debug"}, reporter.began)
	assert.Equal(t, []string{"launched"}, reporter.ended)
	assert.Equal(t, uint32(entity.ProgressTotal), tracker.Value())
}

func TestTrackerIsMonotonic(t *testing.T) {
	ctx := context.Background()
	tracker, err := NewTracker(entity.PhaseWeights, nil, zap.NewNop().Sugar())
	require.NoError(t, err)

	phases := []entity.Phase{
		entity.PhaseValidatingProject,
		entity.PhaseCheckingAgent,
		entity.PhaseInstallingAgent,
		entity.PhaseCheckingAgent,
		entity.PhaseLaunching,
		entity.PhasePromptingRuntimeInstall,
		entity.PhaseCheckingRuntime,
		entity.PhaseResolvingLaunchConfig,
		entity.PhaseLaunching,
		entity.PhaseDone,
	}

	var last uint32
	for _, phase := range phases {
		v := tracker.Complete(ctx, phase)
		assert.GreaterOrEqual(t, v, last)
		assert.LessOrEqual(t, v, uint32(entity.ProgressTotal))
		last = v
	}
	assert.Equal(t, []uint32{30, 40, 70, 100}, tracker.Trace())
}

func TestTrackerStopsAtFailedPhase(t *testing.T) {
	tracker, err := NewTracker(entity.PhaseWeights, nil, zap.NewNop().Sugar())
	require.NoError(t, err)

	tracker.End(context.Background(), "agent install failed")
	assert.Empty(t, tracker.Trace())
	assert.Equal(t, uint32(0), tracker.Value())
}

func TestTrackerLogsReporterErrors(t *testing.T) {
	ctx := context.Background()
	core, recorded := observer.New(zap.WarnLevel)
	reporter := &recordingReporter{err: errors.New("closed")}
	tracker, err := NewTracker(entity.PhaseWeights, reporter, zap.New(core).Sugar())
	require.NoError(t, err)

	tracker.Begin(ctx, "Hotswap debug")
	assert.Equal(t, uint32(30), tracker.Complete(ctx, entity.PhaseCheckingAgent))
	tracker.End(ctx, "")

	assert.Equal(t, 3, recorded.Len())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
