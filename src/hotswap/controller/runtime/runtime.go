// Package runtime locates an installed enhanced runtime (a JDK with enhanced class redefinition support).
package runtime

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/executor"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=runtime.go -destination=runtimemock/runtimemock.go -package=runtimemock

const (
	_nameKey            = "runtime"
	_configKey          = "runtime"
	_releaseFile        = "release"
	_bundleReleaseFile  = "Contents/Home/release"
	_keyJavaVersion     = "JAVA_VERSION"
	_keyImplementor     = "IMPLEMENTOR"
	_probeFlag          = "-XX:+AllowEnhancedClassRedefinition"
	_defaultScanTimeout = 10
)

// Module provides the runtime locator.
var Module = fx.Provide(New)

// Locator finds a compatible enhanced runtime.
type Locator interface {
	// Find scans the configured locations and returns the newest compatible runtime.
	// It has no side effects and returns within the configured scan timeout.
	Find(ctx context.Context) (*entity.Runtime, bool)
}

// Config is the runtime section of the service configuration.
type Config struct {
	SearchPaths        []string `yaml:"searchPaths"`
	Vendors            []string `yaml:"vendors"`
	VersionConstraint  string   `yaml:"versionConstraint"`
	Probe              bool     `yaml:"probe"`
	ScanTimeoutSeconds int      `yaml:"scanTimeoutSeconds"`
}

// Params are inbound parameters to initialize a new runtime locator.
type Params struct {
	fx.In

	Config   config.Provider
	FS       fs.HotswapFS
	Executor executor.Executor
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
}

type locator struct {
	cfg         Config
	searchPaths []string
	constraint  *semver.Constraints
	timeout     time.Duration
	fs          fs.HotswapFS
	executor    executor.Executor
	logger      *zap.SugaredLogger
	stats       tally.Scope
}

type candidate struct {
	runtime *entity.Runtime
	version *semver.Version
}

// New creates a runtime locator.
func New(p Params) (Locator, error) {
	cfg := Config{ScanTimeoutSeconds: _defaultScanTimeout}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if cfg.ScanTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%s.scanTimeoutSeconds must be positive, got %d", _configKey, cfg.ScanTimeoutSeconds)
	}

	l := &locator{
		cfg:      cfg,
		timeout:  time.Duration(cfg.ScanTimeoutSeconds) * time.Second,
		fs:       p.FS,
		executor: p.Executor,
		logger:   p.Logger.With("plugin", _nameKey),
		stats:    p.Stats.SubScope(_nameKey),
	}
	for _, path := range cfg.SearchPaths {
		if expanded := os.ExpandEnv(path); expanded != "" {
			l.searchPaths = append(l.searchPaths, filepath.Clean(expanded))
		}
	}
	if cfg.VersionConstraint != "" {
		c, err := semver.NewConstraint(cfg.VersionConstraint)
		if err != nil {
			return nil, fmt.Errorf("parsing %s.versionConstraint: %w", _configKey, err)
		}
		l.constraint = c
	}
	return l, nil
}

func (l *locator) Find(ctx context.Context) (*entity.Runtime, bool) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	l.stats.Counter("scans").Inc(1)

	// Filesystem calls ignore ctx, so a hung mount can only be abandoned, not interrupted.
	scanned := make(chan *candidate, 1)
	go func() { scanned <- l.scan(ctx) }()

	var best *candidate
	select {
	case best = <-scanned:
	case <-ctx.Done():
		l.stats.Counter("scan_timeouts").Inc(1)
		l.logger.Warnw("runtime scan did not finish", "searchPaths", l.searchPaths, zap.Error(ctx.Err()))
		return nil, false
	}

	if best == nil {
		l.logger.Infow("no enhanced runtime found", "searchPaths", l.searchPaths)
		return nil, false
	}
	l.stats.Counter("found").Inc(1)
	l.logger.Infow("found enhanced runtime", "home", best.runtime.Home, "version", best.runtime.Version)
	return best.runtime, true
}

func (l *locator) scan(ctx context.Context) *candidate {
	var best *candidate
	for _, home := range l.homes(ctx) {
		if ctx.Err() != nil {
			l.logger.Warnw("runtime scan stopped", "searchPaths", l.searchPaths, zap.Error(ctx.Err()))
			return nil
		}
		c := l.inspect(ctx, home)
		if c == nil {
			continue
		}
		if best == nil || c.version.GreaterThan(best.version) {
			best = c
		}
	}
	return best
}

// homes lists the candidate runtime homes: each search path itself and its direct children.
func (l *locator) homes(ctx context.Context) []string {
	var homes []string
	for _, path := range l.searchPaths {
		if ctx.Err() != nil {
			return homes
		}
		homes = append(homes, path)
		entries, err := l.fs.ReadDir(path)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				homes = append(homes, filepath.Join(path, e.Name()))
			}
		}
	}
	return homes
}

func (l *locator) inspect(ctx context.Context, dir string) *candidate {
	home, release, ok := l.readRelease(dir)
	if !ok {
		return nil
	}

	fields := parseRelease(release)
	rawVersion := fields[_keyJavaVersion]
	vendor := fields[_keyImplementor]
	version, err := semver.NewVersion(normalizeVersion(rawVersion))
	if err != nil {
		l.logger.Debugw("skipping runtime with unparsable version", "home", home, "version", rawVersion)
		return nil
	}
	if !l.vendorAllowed(vendor) {
		l.logger.Debugw("skipping runtime from other vendor", "home", home, "vendor", vendor)
		return nil
	}
	if l.constraint != nil && !l.constraint.Check(version) {
		l.logger.Debugw("skipping runtime outside version constraint", "home", home, "version", rawVersion)
		return nil
	}

	javaBinary := filepath.Join(home, "bin", "java")
	if l.cfg.Probe {
		if out, err := l.executor.Run(ctx, javaBinary, _probeFlag, "-version"); err != nil {
			l.logger.Debugw("runtime rejected enhanced redefinition", "home", home, "exitCode", out.ExitCode, zap.Error(err))
			return nil
		}
	}

	return &candidate{
		runtime: &entity.Runtime{
			Home:       home,
			Version:    rawVersion,
			Vendor:     vendor,
			JavaBinary: javaBinary,
		},
		version: version,
	}
}

// readRelease returns the runtime home under dir together with its release file contents.
func (l *locator) readRelease(dir string) (string, []byte, bool) {
	for _, name := range []string{_releaseFile, _bundleReleaseFile} {
		path := filepath.Join(dir, name)
		if ok, err := l.fs.FileExists(path); err != nil || !ok {
			continue
		}
		data, err := l.fs.ReadFile(path)
		if err != nil {
			l.logger.Warnw("reading runtime release file", "path", path, zap.Error(err))
			continue
		}
		return filepath.Dir(path), data, true
	}
	return "", nil, false
}

func (l *locator) vendorAllowed(vendor string) bool {
	if len(l.cfg.Vendors) == 0 {
		return true
	}
	for _, allowed := range l.cfg.Vendors {
		if strings.Contains(strings.ToLower(vendor), strings.ToLower(allowed)) {
			return true
		}
	}
	return false
}

// parseRelease reads the KEY="value" lines of a JDK release file.
func parseRelease(data []byte) map[string]string {
	fields := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok || key == "" || strings.HasPrefix(key, "#") {
			continue
		}
		fields[key] = strings.Trim(strings.TrimSpace(value), `"`)
	}
	return fields
}

// normalizeVersion turns JDK version strings such as "1.8.0_292" or "17.0.9+7" into semver.
func normalizeVersion(v string) string {
	if i := strings.IndexAny(v, "_+-"); i >= 0 {
		v = v[:i]
	}
	return v
}
