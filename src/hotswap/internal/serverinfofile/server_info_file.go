// Package serverinfofile publishes how IDE clients can reach the running daemon.
package serverinfofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"sync"

	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=server_info_file.go -destination=serverinfofilemock/serverinfofilemock.go -package=serverinfofilemock

const _configKeyInfoFile = "serverInfoFilePath"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ServerInfoFile holds the connection details of this daemon in a single JSON file.
// The file is rewritten on every update and removed when the daemon stops.
type ServerInfoFile interface {
	UpdateField(key string, value string) error
}

// Params define values to be used by ServerInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	FS        fs.HotswapFS
	Logger    *zap.SugaredLogger
}

type infoFile struct {
	path   string
	fs     fs.HotswapFS
	logger *zap.SugaredLogger

	mu      sync.Mutex
	fields  map[string]string
	written bool
}

// New creates a ServerInfoFile at the configured path.
func New(p Params) (ServerInfoFile, error) {
	var path string
	if err := p.Config.Get(_configKeyInfoFile).Populate(&path); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}
	if path == "" {
		return nil, fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}

	f := &infoFile{
		path:   path,
		fs:     p.FS,
		logger: p.Logger,
		fields: make(map[string]string),
	}
	p.Lifecycle.Append(fx.Hook{OnStop: f.onStop})
	return f, nil
}

func (f *infoFile) UpdateField(key string, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.fields[key] = value
	data, err := json.Marshal(f.fields)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := f.fs.MkdirAll(filepath.Dir(f.path)); err != nil {
		return fmt.Errorf("creating info file dir: %w", err)
	}
	if err := f.fs.WriteFile(f.path, data); err != nil {
		return fmt.Errorf("writing info file: %w", err)
	}
	f.written = true
	f.logger.Infow("connection info saved", "file", f.path, key, value)
	return nil
}

func (f *infoFile) onStop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.written {
		return nil
	}
	if err := f.fs.Remove(f.path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return fmt.Errorf("removing info file: %w", err)
	}
	f.written = false
	return nil
}
