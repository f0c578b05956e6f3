// Package agent provisions the hotswap agent jar used by derived launch configurations.
package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=agent.go -destination=agentmock/agentmock.go -package=agentmock

const (
	_nameKey      = "agent"
	_configKey    = "agent"
	_jarName      = "hotswap-agent.jar"
	_markerName   = "VERSION"
	_defaultDir   = "hotswap/agent"
	_versionToken = "{version}"
)

// Module provides the agent provisioner and its downloader.
var Module = fx.Options(
	fx.Provide(New),
	fx.Provide(newDownloader),
)

// Controller determines whether the hotswap agent is installed and installs it.
type Controller interface {
	// IsInstalled reports whether a usable agent is present.
	IsInstalled(ctx context.Context) bool
	// Current returns the installed agent.
	Current(ctx context.Context) (*entity.Agent, bool)
	// Install makes sure the configured agent is present and returns it. Calling it when an agent is
	// already installed returns that agent without downloading. Concurrent callers share one download,
	// which is bounded by the download timeout rather than by any caller's context. A caller whose
	// context ends stops waiting and gets false. Failures are logged and reported as false.
	Install(ctx context.Context) (*entity.Agent, bool)
}

// Config is the agent section of the service configuration.
type Config struct {
	Version           string `yaml:"version"`
	VersionConstraint string `yaml:"versionConstraint"`
	InstallDir        string `yaml:"installDir"`
	DownloadURL       string `yaml:"downloadURL"`
	SHA256            string `yaml:"sha256"`
	TimeoutSeconds    int    `yaml:"downloadTimeoutSeconds"`
}

// Params are inbound parameters to initialize a new agent provisioner.
type Params struct {
	fx.In

	Config     config.Provider
	FS         fs.HotswapFS
	Downloader Downloader
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

type controller struct {
	cfg        Config
	timeout    time.Duration
	constraint *semver.Constraints
	installDir string
	fs         fs.HotswapFS
	downloader Downloader
	logger     *zap.SugaredLogger
	stats      tally.Scope
	group      singleflight.Group
}

// New creates an agent provisioner.
func New(p Params) (Controller, error) {
	cfg, err := loadConfig(p.Config)
	if err != nil {
		return nil, err
	}

	c := &controller{
		cfg:        cfg,
		timeout:    time.Duration(cfg.TimeoutSeconds) * time.Second,
		fs:         p.FS,
		downloader: p.Downloader,
		logger:     p.Logger.With("plugin", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
	}

	if cfg.VersionConstraint != "" {
		c.constraint, err = semver.NewConstraint(cfg.VersionConstraint)
		if err != nil {
			return nil, fmt.Errorf("parsing %s.versionConstraint: %w", _configKey, err)
		}
	}

	c.installDir = cfg.InstallDir
	if c.installDir == "" {
		cacheDir, err := p.FS.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("getting user cache dir: %w", err)
		}
		c.installDir = filepath.Join(cacheDir, _defaultDir)
	}
	return c, nil
}

func newDownloader(cfg config.Provider) (Downloader, error) {
	c, err := loadConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewHTTPDownloader(time.Duration(c.TimeoutSeconds) * time.Second), nil
}

func loadConfig(provider config.Provider) (Config, error) {
	cfg := Config{TimeoutSeconds: 120}
	if err := provider.Get(_configKey).Populate(&cfg); err != nil {
		return Config{}, fmt.Errorf("getting config field %q: %w", _configKey, err)
	}
	if cfg.Version == "" {
		return Config{}, fmt.Errorf("missing field %q in config", _configKey+".version")
	}
	if _, err := semver.NewVersion(cfg.Version); err != nil {
		return Config{}, fmt.Errorf("parsing %s.version: %w", _configKey, err)
	}
	if cfg.DownloadURL == "" {
		return Config{}, fmt.Errorf("missing field %q in config", _configKey+".downloadURL")
	}
	return cfg, nil
}

func (c *controller) IsInstalled(ctx context.Context) bool {
	_, ok := c.Current(ctx)
	return ok
}

func (c *controller) Current(ctx context.Context) (*entity.Agent, bool) {
	data, err := c.fs.ReadFile(filepath.Join(c.installDir, _markerName))
	if err != nil {
		return nil, false
	}
	version := strings.TrimSpace(string(data))
	if !c.acceptable(version) {
		c.logger.Infow("installed agent does not satisfy constraint", "version", version, "constraint", c.cfg.VersionConstraint)
		return nil, false
	}

	jar := c.jarPath(version)
	exists, err := c.fs.FileExists(jar)
	if err != nil || !exists {
		return nil, false
	}
	return &entity.Agent{Version: version, JarPath: jar}, true
}

func (c *controller) Install(ctx context.Context) (*entity.Agent, bool) {
	results := c.group.DoChan(_nameKey, func() (interface{}, error) {
		// The install is shared by every waiting caller and outlives each of them.
		installCtx, cancel := c.detach(ctx)
		defer cancel()
		if current, ok := c.Current(installCtx); ok {
			return current, nil
		}
		return c.install(installCtx)
	})

	select {
	case <-ctx.Done():
		c.logger.Infow("stopped waiting for hotswap agent install", zap.Error(ctx.Err()))
		return nil, false
	case res := <-results:
		if res.Shared {
			c.stats.Counter("installs_shared").Inc(1)
		}
		if res.Err != nil {
			c.stats.Counter("install_failures").Inc(1)
			c.logger.Errorw("installing hotswap agent", "version", c.cfg.Version, zap.Error(res.Err))
			return nil, false
		}
		return res.Val.(*entity.Agent), true
	}
}

func (c *controller) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if c.timeout <= 0 {
		return context.WithCancel(detached)
	}
	return context.WithTimeout(detached, c.timeout)
}

func (c *controller) install(ctx context.Context) (_ *entity.Agent, err error) {
	version := c.cfg.Version
	versionDir := filepath.Join(c.installDir, version)
	if err := c.fs.MkdirAll(versionDir); err != nil {
		return nil, fmt.Errorf("creating install dir: %w", err)
	}

	tmp, err := c.fs.TempFile(versionDir, _jarName+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			c.fs.Remove(tmpName)
		}
	}()

	url := strings.ReplaceAll(c.cfg.DownloadURL, _versionToken, version)
	c.logger.Infow("downloading hotswap agent", "version", version, "url", url)

	hash := sha256.New()
	downloadErr := c.downloader.Download(ctx, url, io.MultiWriter(tmp, hash))
	if closeErr := tmp.Close(); downloadErr == nil {
		downloadErr = closeErr
	}
	if downloadErr != nil {
		return nil, downloadErr
	}

	if want := strings.ToLower(c.cfg.SHA256); want != "" {
		if got := hex.EncodeToString(hash.Sum(nil)); got != want {
			return nil, fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}

	jar := c.jarPath(version)
	if err := c.fs.Rename(tmpName, jar); err != nil {
		return nil, fmt.Errorf("moving agent into place: %w", err)
	}
	if err := c.fs.WriteFile(filepath.Join(c.installDir, _markerName), []byte(version+"\n")); err != nil {
		return nil, fmt.Errorf("writing version marker: %w", err)
	}

	c.stats.Counter("installs").Inc(1)
	c.logger.Infow("installed hotswap agent", "version", version, "jar", jar)
	return &entity.Agent{Version: version, JarPath: jar}, nil
}

func (c *controller) jarPath(version string) string {
	return filepath.Join(c.installDir, version, _jarName)
}

func (c *controller) acceptable(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return c.constraint == nil || c.constraint.Check(v)
}
