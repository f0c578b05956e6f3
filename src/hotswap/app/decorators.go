package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Context describes where the daemon is running.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the daemon is running on a developer machine.
	EnvLocal = "local"

	// EnvDevelopment indicates that the daemon is running in a development environment.
	EnvDevelopment = "development"

	_envHotswapEnvironment = "HOTSWAP_ENVIRONMENT"

	// Sinks that zap opens itself and that have no directory to create.
	_stdoutSink = "stdout"
	_stderrSink = "stderr"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envHotswapEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Cfg config.Provider
	FS  fs.HotswapFS
}

// decorateConfigProvider runs the startup steps that depend on configuration before any component reads it.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	cfg, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %w", err)
	}
	return cfg, nil
}

// ensureLogFolder creates the directories of all file based logging outputs.
func ensureLogFolder(cfg config.Provider, hfs fs.HotswapFS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %w", err)
	}

	paths := append(append([]string{}, c.OutputPaths...), c.ErrorOutputPaths...)
	for _, outputPath := range paths {
		if outputPath == _stdoutSink || outputPath == _stderrSink {
			continue
		}
		if err := hfs.MkdirAll(filepath.Dir(outputPath)); err != nil {
			return nil, fmt.Errorf("creating logging directory: %w", err)
		}
	}
	return cfg, nil
}
