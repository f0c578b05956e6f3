package launchconfig

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"github.com/uber/hotswap-lsp/src/hotswap/mapper"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

//go:generate mockgen -source=launchconfig.go -destination=launchconfigmock/launchconfigmock.go -package=launchconfigmock

const (
	_configKey     = "launchConfigs"
	_defaultDir    = "hotswap/launch-configs"
	_fileExt       = ".yaml"
	_maxNameSuffix = 100
)

var _unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Repository stores launch configurations as YAML files in a single directory.
type Repository interface {
	// List returns the stored configurations of the given kind, or all of them when kind is empty.
	// Files that cannot be read are logged and skipped.
	List(ctx context.Context, kind string) ([]*entity.LaunchConfig, error)
	// BoundProjectName returns the name of the project the configuration belongs to.
	BoundProjectName(ctx context.Context, cfg *entity.LaunchConfig) string
	// Create stores a new configuration copied from template. It never overwrites an existing configuration:
	// a name that is already taken gets a numeric suffix.
	Create(ctx context.Context, template *entity.LaunchConfig, hotswapEnabled bool) (*entity.LaunchConfig, error)
}

// Config is the launchConfigs section of the service configuration.
type Config struct {
	Dir string `yaml:"dir"`
}

// Params are inbound parameters to initialize a new launch configuration repository.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle `optional:"true"`
	FS        fs.HotswapFS
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
}

type repository struct {
	dir    string
	fs     fs.HotswapFS
	logger *zap.SugaredLogger
	stats  tally.Scope

	// The listing is cached only while the directory is watched.
	mu         sync.Mutex
	watcher    *fsnotify.Watcher
	wg         sync.WaitGroup
	cache      []*entity.LaunchConfig
	cached     bool
	generation uint64
}

// New returns a repository backed by the configured directory.
func New(p Params) (Repository, error) {
	var cfg Config
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}

	dir := cfg.Dir
	if dir == "" {
		cacheDir, err := p.FS.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("getting user cache dir: %w", err)
		}
		dir = filepath.Join(cacheDir, _defaultDir)
	}

	r := &repository{
		dir:    dir,
		fs:     p.FS,
		logger: p.Logger.With("plugin", "launch-configs"),
		stats:  p.Stats.SubScope("launch_configs"),
	}
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStart: r.startWatching,
			OnStop:  r.stopWatching,
		})
	}
	return r, nil
}

func (r *repository) List(ctx context.Context, kind string) ([]*entity.LaunchConfig, error) {
	all, err := r.listAll()
	if err != nil {
		return nil, err
	}
	r.stats.Gauge("configurations").Update(float64(len(all)))

	result := make([]*entity.LaunchConfig, 0, len(all))
	for _, c := range all {
		if kind == "" || c.Kind == kind {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *repository) BoundProjectName(ctx context.Context, cfg *entity.LaunchConfig) string {
	if cfg == nil {
		return ""
	}
	return cfg.ProjectName
}

func (r *repository) Create(ctx context.Context, template *entity.LaunchConfig, hotswapEnabled bool) (*entity.LaunchConfig, error) {
	if template == nil || template.Name == "" {
		return nil, fmt.Errorf("launch configuration template must have a name")
	}
	if err := r.fs.MkdirAll(r.dir); err != nil {
		return nil, fmt.Errorf("creating launch configuration dir: %w", err)
	}

	existing, err := r.listAll()
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[c.Name] = true
	}

	created := template.Clone()
	created.HotswapEnabled = hotswapEnabled
	for i := 1; i <= _maxNameSuffix; i++ {
		name := template.Name
		if i > 1 {
			name = fmt.Sprintf("%s (%d)", template.Name, i)
		}
		if taken[name] {
			continue
		}
		created.Name = name

		data, err := mapper.LaunchConfigToYAML(created)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(r.dir, fileName(name))
		if err := r.fs.CreateExclusive(path, data); err != nil {
			if errors.Is(err, iofs.ErrExist) {
				continue
			}
			return nil, fmt.Errorf("writing launch configuration %q: %w", name, err)
		}

		r.invalidate()
		r.logger.Infow("created launch configuration", "name", name, "project", created.ProjectName, "hotswap", hotswapEnabled)
		return created, nil
	}
	return nil, fmt.Errorf("no free name for launch configuration %q", template.Name)
}

func (r *repository) listAll() ([]*entity.LaunchConfig, error) {
	r.mu.Lock()
	if r.cached {
		configs := cloneAll(r.cache)
		r.mu.Unlock()
		r.stats.Counter("cache_hits").Inc(1)
		return configs, nil
	}
	generation, watching := r.generation, r.watcher != nil
	r.mu.Unlock()

	configs, err := r.readAll()
	if err != nil || !watching {
		return configs, err
	}

	r.mu.Lock()
	// A change observed while reading makes this listing stale already.
	if r.generation == generation && r.watcher != nil {
		r.cache = cloneAll(configs)
		r.cached = true
	}
	r.mu.Unlock()
	return configs, nil
}

func (r *repository) readAll() ([]*entity.LaunchConfig, error) {
	exists, err := r.fs.DirExists(r.dir)
	if err != nil {
		return nil, fmt.Errorf("checking launch configuration dir: %w", err)
	}
	if !exists {
		return nil, nil
	}

	entries, err := r.fs.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("reading launch configuration dir: %w", err)
	}

	var (
		configs []*entity.LaunchConfig
		errs    error
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), _fileExt) {
			continue
		}
		path := filepath.Join(r.dir, e.Name())
		data, err := r.fs.ReadFile(path)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		c, err := mapper.YAMLToLaunchConfig(data)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		configs = append(configs, c)
	}
	if errs != nil {
		r.logger.Warnw("skipped unreadable launch configurations", "count", len(multierr.Errors(errs)), zap.Error(errs))
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}

func fileName(name string) string {
	return strings.Trim(_unsafeFileChars.ReplaceAllString(name, "_"), "_") + _fileExt
}
