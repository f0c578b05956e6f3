// Package orchestrator sequences the provisioning and launch phases of a hotswap debug session.
package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/agent"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/launchconfig"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/prompt"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/runtime"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	ideclient "github.com/uber/hotswap-lsp/src/hotswap/gateway/ide-client"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/dispatcher"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/errors"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/progress"
	"github.com/uber/hotswap-lsp/src/hotswap/mapper"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=orchestrator.go -destination=orchestratormock/orchestratormock.go -package=orchestratormock

const (
	_nameKey   = "orchestrator"
	_configKey = "hotswap"

	_promptTitle       = "Hotswap debug"
	_runtimeTitle      = "Enhanced runtime not found"
	_runtimeQuestion   = "Debugging continues without enhanced class redefinition. Show installation instructions?"
	_defaultCapability = "java"
	_tokenPrefix       = "hotswap-"
)

// Module provides the session orchestrator.
var Module = fx.Provide(New)

// Controller starts and cancels hotswap debug session runs.
type Controller interface {
	// Start validates project and schedules a run for it. An invalid project yields an already completed run.
	// When a run for the same project is active, that run is returned and joined is true.
	Start(ctx context.Context, project *entity.ProjectRef) (run *Run, joined bool)
	// Run starts a run for project and waits for its result.
	Run(ctx context.Context, project *entity.ProjectRef) entity.SessionResult
	// CancelToken cancels the run reporting progress under token.
	CancelToken(token string) bool
	// CancelProject cancels the active run for the named project.
	CancelProject(name string) bool
	// CancelSession cancels every run started by the IDE session and returns how many were cancelled.
	CancelSession(id uuid.UUID) int
	// Shutdown cancels all runs and waits for them to complete.
	Shutdown(ctx context.Context) error
}

// Config is the hotswap section of the service configuration.
type Config struct {
	RequiredCapability     string `yaml:"requiredCapability"`
	RuntimeInstructionsURL string `yaml:"runtimeInstructionsURL"`
}

// Params are inbound parameters to initialize a new orchestrator.
type Params struct {
	fx.In

	Config      config.Provider
	Lifecycle   fx.Lifecycle
	Agent       agent.Controller
	Runtime     runtime.Locator
	Synthesizer launchconfig.Synthesizer
	Prompt      prompt.Controller
	Dispatcher  dispatcher.Dispatcher
	IdeGateway  ideclient.Gateway
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
}

type controller struct {
	cfg         Config
	agent       agent.Controller
	runtime     runtime.Locator
	synthesizer launchconfig.Synthesizer
	prompt      prompt.Controller
	dispatcher  dispatcher.Dispatcher
	ideGateway  ideclient.Gateway
	logger      *zap.SugaredLogger
	stats       tally.Scope

	newReporter func(token string) progress.Reporter
	now         func() time.Time

	mu       sync.Mutex
	active   map[string]*Run
	stopping bool
	wg       sync.WaitGroup
}

// state is shared by the phases of a single run.
type state struct {
	run     *Run
	project *entity.ProjectRef
	env     entity.HotswapEnv
	config  *entity.LaunchConfig
	logger  *zap.SugaredLogger
}

type phase struct {
	phase entity.Phase
	fn    func(ctx context.Context, s *state) (entity.ProvisioningOutcome, error)
}

// New creates the session orchestrator. Active runs are cancelled and awaited when the application stops.
func New(p Params) (Controller, error) {
	cfg := Config{RequiredCapability: _defaultCapability}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if err := entity.ValidateWeights(entity.PhaseWeights); err != nil {
		return nil, err
	}

	c := &controller{
		cfg:         cfg,
		agent:       p.Agent,
		runtime:     p.Runtime,
		synthesizer: p.Synthesizer,
		prompt:      p.Prompt,
		dispatcher:  p.Dispatcher,
		ideGateway:  p.IdeGateway,
		logger:      p.Logger.With("plugin", _nameKey),
		stats:       p.Stats.SubScope(_nameKey),
		now:         time.Now,
		active:      make(map[string]*Run),
	}
	c.newReporter = func(token string) progress.Reporter {
		return progress.NewIDEReporter(c.ideGateway, token)
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: c.Shutdown,
	})
	return c, nil
}

func (c *controller) Start(ctx context.Context, project *entity.ProjectRef) (*Run, bool) {
	started := c.now()
	sessionID, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		sessionID = uuid.Nil
	}
	id, token := newIDs()

	if err := c.validate(project); err != nil {
		run := newRun(id, token, project.String(), sessionID, nil)
		c.finish(ctx, run, started, entity.Failed(err.Error(), err))
		return run, false
	}

	c.mu.Lock()
	if existing, ok := c.active[project.Name]; ok {
		c.mu.Unlock()
		c.stats.Counter("joined").Inc(1)
		c.logger.Infow("joining active run", "project", project.Name, "run", existing.ID())
		return existing, true
	}
	if c.stopping {
		c.mu.Unlock()
		run := newRun(id, token, project.Name, sessionID, nil)
		err := fmt.Errorf("hotswap daemon is shutting down")
		c.finish(ctx, run, started, entity.Failed(err.Error(), err))
		return run, false
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	run := newRun(id, token, project.Name, sessionID, cancel)
	c.active[project.Name] = run
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		result := c.execute(runCtx, run, project)
		c.release(run)
		c.finish(runCtx, run, started, result)
	}()
	return run, false
}

func (c *controller) Run(ctx context.Context, project *entity.ProjectRef) entity.SessionResult {
	run, _ := c.Start(ctx, project)
	result, err := run.Wait(ctx)
	if err != nil {
		run.Cancel()
		<-run.Done()
		result, _ = run.Result()
	}
	return result
}

func (c *controller) CancelToken(token string) bool {
	return c.cancelWhere(func(r *Run) bool { return r.token == token }) > 0
}

func (c *controller) CancelProject(name string) bool {
	return c.cancelWhere(func(r *Run) bool { return r.project == name }) > 0
}

func (c *controller) CancelSession(id uuid.UUID) int {
	return c.cancelWhere(func(r *Run) bool { return r.session == id })
}

func (c *controller) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	c.stopping = true
	c.mu.Unlock()

	if n := c.cancelWhere(func(*Run) bool { return true }); n > 0 {
		c.logger.Infow("cancelled active runs", "count", n)
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for active runs: %w", ctx.Err())
	}
}

func (c *controller) cancelWhere(match func(*Run) bool) int {
	c.mu.Lock()
	var matched []*Run
	for _, r := range c.active {
		if match(r) {
			matched = append(matched, r)
		}
	}
	c.mu.Unlock()

	for _, r := range matched {
		r.Cancel()
	}
	return len(matched)
}

func (c *controller) release(run *Run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active[run.project] == run {
		delete(c.active, run.project)
	}
}

func (c *controller) validate(project *entity.ProjectRef) error {
	switch {
	case project == nil:
		return &errors.ValidationError{Reason: "no project selected"}
	case !project.IsOpen():
		return &errors.ValidationError{Project: project.Name, Reason: "project is not open"}
	case !project.HasCapability(c.cfg.RequiredCapability):
		return &errors.ValidationError{Project: project.Name, Reason: fmt.Sprintf("not a %s project", c.cfg.RequiredCapability)}
	}
	return nil
}

// execute runs the phases in order. Cancellation is observed between phases only.
func (c *controller) execute(ctx context.Context, run *Run, project *entity.ProjectRef) (result entity.SessionResult) {
	s := &state{
		run:     run,
		project: project,
		logger:  c.logger.With("run", run.ID(), "project", project.Name),
	}

	tracker, err := progress.NewTracker(entity.PhaseWeights, c.newReporter(run.Token()), s.logger)
	if err != nil {
		return entity.Failed(err.Error(), err)
	}
	tracker.Begin(ctx, fmt.Sprintf("%s: %s", _promptTitle, project.Name))
	defer func() {
		tracker.End(context.WithoutCancel(ctx), result.String())
	}()

	phases := []phase{
		{entity.PhaseCheckingAgent, c.checkAgent},
		{entity.PhaseCheckingRuntime, c.checkRuntime},
		{entity.PhaseResolvingLaunchConfig, c.resolveLaunchConfig},
		{entity.PhaseLaunching, c.launch},
	}

	worst := entity.Skipped()
	for _, p := range phases {
		if ctx.Err() != nil {
			s.logger.Infow("run cancelled", "before", p.phase.String())
			return entity.Cancelled()
		}

		outcome, err := c.runPhase(ctx, s, p)
		if err != nil {
			if ctx.Err() != nil {
				s.logger.Infow("run cancelled", "during", p.phase.String(), zap.Error(err))
				return entity.Cancelled()
			}
			return entity.Failed(err.Error(), err)
		}
		worst = entity.Worse(worst, outcome)
		tracker.Complete(ctx, p.phase)
	}

	if worst.Kind() == entity.OutcomeWarning {
		return entity.Warned(worst.Message(), true)
	}
	return entity.Launched()
}

// runPhase converts fatal outcomes and panics into errors.
func (c *controller) runPhase(ctx context.Context, s *state, p phase) (outcome entity.ProvisioningOutcome, err error) {
	defer func() {
		if v := recover(); v != nil {
			s.logger.Errorw("recovered panic", "phase", p.phase.String(), "panic", v)
			err = &errors.PhasePanicError{Phase: p.phase.String(), Value: v}
		}
	}()

	s.logger.Debugw("entering phase", "phase", p.phase.String())
	outcome, err = p.fn(ctx, s)
	if err == nil && outcome.Kind() == entity.OutcomeFatal {
		err = stderrors.New(outcome.Message())
	}
	return outcome, err
}

func (c *controller) checkAgent(ctx context.Context, s *state) (entity.ProvisioningOutcome, error) {
	if installed, ok := c.agent.Current(ctx); ok {
		s.env.Agent = installed
		return entity.Success(installed.Version), nil
	}

	s.logger.Infow("installing hotswap agent", "phase", entity.PhaseInstallingAgent.String())
	installed, ok := c.agent.Install(ctx)
	if !ok || installed == nil {
		err := &errors.ProvisioningError{Component: "agent"}
		return entity.Fatal(err.Error()), err
	}
	s.env.Agent = installed
	return entity.Success(installed.Version), nil
}

func (c *controller) checkRuntime(ctx context.Context, s *state) (entity.ProvisioningOutcome, error) {
	if found, ok := c.runtime.Find(ctx); ok {
		s.env.Runtime = found
		return entity.Success(found.Version), nil
	}

	unavailable := &errors.RuntimeUnavailableError{}
	s.logger.Infow("asking to install enhanced runtime", "phase", entity.PhasePromptingRuntimeInstall.String())
	install, err := c.prompt.AskYesNo(ctx, _runtimeTitle, _runtimeQuestion)
	if err != nil && ctx.Err() == nil {
		s.logger.Warnw("runtime install prompt failed, continuing without enhanced runtime", zap.Error(err))
	}
	if install && c.cfg.RuntimeInstructionsURL != "" {
		if err := c.prompt.ShowInstructions(ctx, c.cfg.RuntimeInstructionsURL); err != nil {
			s.logger.Warnw("showing runtime install instructions", zap.Error(err))
		}
	}
	return entity.Warning(unavailable.Error()), nil
}

func (c *controller) resolveLaunchConfig(ctx context.Context, s *state) (entity.ProvisioningOutcome, error) {
	cfg, err := c.synthesizer.FindOrDerive(ctx, s.project, s.env)
	if err == nil && cfg == nil {
		err = &errors.ConfigResolutionError{Project: s.project.Name}
	}
	if err != nil {
		var resolutionErr *errors.ConfigResolutionError
		if stderrors.As(err, &resolutionErr) {
			msg := fmt.Sprintf("Create a launch configuration for project %q first, then start the hotswap debug session again.", s.project.Name)
			if promptErr := c.prompt.Info(ctx, _promptTitle, msg); promptErr != nil {
				s.logger.Warnw("showing launch configuration hint", zap.Error(promptErr))
			}
		}
		return entity.Fatal(err.Error()), err
	}

	s.config = cfg
	return entity.Success(cfg.Name), nil
}

func (c *controller) launch(ctx context.Context, s *state) (entity.ProvisioningOutcome, error) {
	params := mapper.LaunchConfigToLaunchParams(s.run.ID(), s.config, s.env)
	err := c.dispatcher.Run(ctx, func(ctx context.Context) {
		if err := c.ideGateway.Launch(ctx, params); err != nil {
			c.logger.Errorw("launch request failed", "run", params.RunID, "configuration", params.Configuration.Name, zap.Error(err))
		}
	})
	if err != nil {
		dispatchErr := &errors.LaunchDispatchError{Configuration: s.config.Name, Cause: err}
		return entity.Fatal(dispatchErr.Error()), dispatchErr
	}
	return entity.Success(s.config.Name), nil
}

// finish records, logs and surfaces the terminal result, then completes the run.
func (c *controller) finish(ctx context.Context, run *Run, started time.Time, result entity.SessionResult) {
	c.stats.Tagged(map[string]string{"status": result.Status.String()}).Counter("runs").Inc(1)
	c.stats.Timer("duration").Record(c.now().Sub(started))

	logger := c.logger.With("run", run.ID(), "project", run.Project(), "status", result.Status.String())
	ctx = context.WithoutCancel(ctx)
	switch result.Status {
	case entity.StatusLaunched:
		logger.Info("hotswap debug session launched")
	case entity.StatusCancelled:
		logger.Info("hotswap debug session cancelled")
	case entity.StatusWarning:
		logger.Warnw("hotswap debug session launched with warnings", "message", result.Message)
		if err := c.prompt.Info(ctx, _promptTitle, result.Message); err != nil {
			logger.Warnw("showing result", zap.Error(err))
		}
	case entity.StatusFailed:
		logger.Errorw("hotswap debug session failed", "message", result.Message, zap.Error(result.Cause))
		if err := c.prompt.Error(ctx, _promptTitle, result.Message); err != nil {
			logger.Warnw("showing result", zap.Error(err))
		}
	}
	run.complete(result)
}

func newIDs() (string, string) {
	id := uuid.Must(uuid.NewV4()).String()
	return id, _tokenPrefix + id
}
