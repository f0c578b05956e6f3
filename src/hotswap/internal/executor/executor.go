package executor

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=executor.go -destination=executormock/executormock.go -package=executormock

// Module provides a module to inject using fx.
var Module = fx.Provide(func(logger *zap.SugaredLogger) Executor {
	return NewExecutor(WithLogger(logger))
})

// Output is the captured result of a finished command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Executor wraps the execution of external binaries so that each run is logged and can be faked in tests.
type Executor interface {
	// Run logs and executes name with args, bound to ctx. A non-zero exit code is reported
	// through Output and a non-nil *exec.ExitError.
	Run(ctx context.Context, name string, args ...string) (Output, error)
}

type executorImp struct {
	logger *zap.SugaredLogger
	// execFunc may be nil to skip execution in tests.
	execFunc func(cmd *exec.Cmd) error
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(e *executorImp) {
		e.logger = logger
	}
}

// WithExecFunc provides customized exec behavior
func WithExecFunc(execFunc func(cmd *exec.Cmd) error) Option {
	return func(e *executorImp) {
		e.execFunc = execFunc
	}
}

// NewExecutor creates a new Executor with a noop logger that runs commands as-is.
func NewExecutor(opts ...Option) Executor {
	e := &executorImp{
		logger:   zap.NewNop().Sugar(),
		execFunc: func(cmd *exec.Cmd) error { return cmd.Run() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *executorImp) Run(ctx context.Context, name string, args ...string) (Output, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	e.logger.Infow("Exec", "Path", cmd.Path, "Args", args)

	if e.execFunc == nil {
		e.logger.Warn("missing ExecFunc - skipped execution")
		return Output{}, nil
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := e.execFunc(cmd)

	out := Output{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(cmd, err),
	}
	return out, err
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}
