// Package launchconfig resolves the launch configuration used for a hotswap debug session.
package launchconfig

import (
	"context"
	"fmt"
	"slices"

	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/errors"
	launchconfigrepo "github.com/uber/hotswap-lsp/src/hotswap/repository/launchconfig"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=launchconfig.go -destination=launchconfigmock/launchconfigmock.go -package=launchconfigmock

const (
	_configKey     = "launchConfigs"
	_defaultKind   = "java"
	_defaultSuffix = " (hotswap)"

	_enhancedRedefinitionArg = "-XX:+AllowEnhancedClassRedefinition"
	_hotswapAgentArg         = "-XX:HotswapAgent=fatjar"
	_javaAgentArgPrefix      = "-javaagent:"
)

// Module provides the launch configuration synthesizer.
var Module = fx.Provide(New)

// Synthesizer finds or derives a hotswap-enabled launch configuration for a project.
type Synthesizer interface {
	// FindOrDerive returns a hotswap-enabled configuration bound to project. An existing enabled configuration
	// is reused as is. Otherwise a new configuration is derived from the project's base configuration, which is
	// left untouched. Without any base configuration it returns a *errors.ConfigResolutionError.
	FindOrDerive(ctx context.Context, project *entity.ProjectRef, env entity.HotswapEnv) (*entity.LaunchConfig, error)
}

// Config holds the synthesizer settings from the launchConfigs section.
type Config struct {
	Kind          string `yaml:"kind"`
	DerivedSuffix string `yaml:"derivedSuffix"`
}

// Params are inbound parameters to initialize a new synthesizer.
type Params struct {
	fx.In

	Config     config.Provider
	Repository launchconfigrepo.Repository
	Logger     *zap.SugaredLogger
}

type synthesizer struct {
	cfg    Config
	repo   launchconfigrepo.Repository
	logger *zap.SugaredLogger
}

// New creates a launch configuration synthesizer.
func New(p Params) (Synthesizer, error) {
	cfg := Config{Kind: _defaultKind, DerivedSuffix: _defaultSuffix}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if cfg.Kind == "" {
		return nil, fmt.Errorf("missing field %q in config", _configKey+".kind")
	}
	return &synthesizer{
		cfg:    cfg,
		repo:   p.Repository,
		logger: p.Logger.With("plugin", "launch-config-synthesizer"),
	}, nil
}

func (s *synthesizer) FindOrDerive(ctx context.Context, project *entity.ProjectRef, env entity.HotswapEnv) (*entity.LaunchConfig, error) {
	configs, err := s.repo.List(ctx, s.cfg.Kind)
	if err != nil {
		return nil, fmt.Errorf("listing launch configurations: %w", err)
	}

	var base *entity.LaunchConfig
	for _, c := range configs {
		if s.repo.BoundProjectName(ctx, c) != project.Name {
			continue
		}
		if c.HotswapEnabled {
			s.logger.Infow("reusing hotswap launch configuration", "project", project.Name, "configuration", c.Name)
			return c, nil
		}
		// Prefer a configuration the user created over an earlier derivation.
		if base == nil || (base.DerivedFrom != "" && c.DerivedFrom == "") {
			base = c
		}
	}
	if base == nil {
		return nil, &errors.ConfigResolutionError{Project: project.Name, Kind: s.cfg.Kind}
	}

	derived, err := s.repo.Create(ctx, Derive(base, env, s.cfg.DerivedSuffix), true)
	if err != nil {
		return nil, fmt.Errorf("deriving hotswap launch configuration from %q: %w", base.Name, err)
	}
	s.logger.Infow("derived hotswap launch configuration", "project", project.Name, "from", base.Name, "configuration", derived.Name)
	return derived, nil
}

// Derive returns a hotswap-enabled copy of base. base is not modified.
func Derive(base *entity.LaunchConfig, env entity.HotswapEnv, suffix string) *entity.LaunchConfig {
	derived := base.Clone()
	derived.Name = base.Name + suffix
	derived.HotswapEnabled = true
	derived.DerivedFrom = base.Name

	var args []string
	// Stock runtimes reject both -XX flags.
	if env.Runtime != nil {
		args = append(args, _enhancedRedefinitionArg, _hotswapAgentArg)
		derived.RuntimeHome = env.Runtime.Home
	}
	if env.Agent != nil && env.Agent.JarPath != "" {
		args = append(args, _javaAgentArgPrefix+env.Agent.JarPath)
	}
	for _, arg := range args {
		if !slices.Contains(derived.VMArgs, arg) {
			derived.VMArgs = append(derived.VMArgs, arg)
		}
	}
	return derived
}
