package serverinfofile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs/fsmock"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/mock/configmock"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		configKey   string
		errorString string
	}{
		{
			name:      "valid configuration",
			configKey: "valid",
		},
		{
			name:        "missing path key",
			configKey:   "missingKey",
			errorString: "missing field \"serverInfoFilePath\" in config",
		},
		{
			name:        "missing path value",
			configKey:   "missingValue",
			errorString: "missing field \"serverInfoFilePath\" in config",
		},
		{
			name:        "incorrectly formatted entry",
			configKey:   "formatProblem",
			errorString: "getting config field \"serverInfoFilePath\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			_, err := New(Params{
				Config:    newMockConfigProvider(ctrl, tt.configKey),
				Lifecycle: fxtest.NewLifecycle(t),
				FS:        fsmock.NewMockHotswapFS(ctrl),
				Logger:    zap.NewNop().Sugar(),
			})

			if tt.errorString != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateField(t *testing.T) {
	t.Run("multiple successful updates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", ".hotswapd")
		f := newInfoFile(path, fs.New())

		steps := []struct {
			key        string
			value      string
			expectJSON string
		}{
			{key: "lsp-address", value: "127.0.0.1:1", expectJSON: `{"lsp-address":"127.0.0.1:1"}`},
			{key: "lsp-address", value: "127.0.0.1:2", expectJSON: `{"lsp-address":"127.0.0.1:2"}`},
			{key: "pid", value: "42", expectJSON: `{"lsp-address":"127.0.0.1:2","pid":"42"}`},
		}

		for _, step := range steps {
			require.NoError(t, f.UpdateField(step.key, step.value))
			contents, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, step.expectJSON, string(contents))
		}
	})

	t.Run("write failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockHotswapFS(ctrl)
		fsMock.EXPECT().MkdirAll("/sample").Return(nil)
		fsMock.EXPECT().WriteFile("/sample/.hotswapd", gomock.Any()).Return(errors.New("read-only"))

		f := newInfoFile("/sample/.hotswapd", fsMock)
		assert.ErrorContains(t, f.UpdateField("key", "value"), "writing info file")
	})

	t.Run("directory failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockHotswapFS(ctrl)
		fsMock.EXPECT().MkdirAll("/sample").Return(errors.New("denied"))

		f := newInfoFile("/sample/.hotswapd", fsMock)
		assert.ErrorContains(t, f.UpdateField("key", "value"), "creating info file dir")
	})
}

func TestOnStop(t *testing.T) {
	t.Run("written file is removed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".hotswapd")
		f := newInfoFile(path, fs.New())
		require.NoError(t, f.UpdateField("lsp-address", "127.0.0.1:1"))

		require.NoError(t, f.onStop(context.Background()))
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("nothing written", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		f := newInfoFile("/sample/.hotswapd", fsmock.NewMockHotswapFS(ctrl))
		assert.NoError(t, f.onStop(context.Background()))
	})

	t.Run("already removed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".hotswapd")
		f := newInfoFile(path, fs.New())
		require.NoError(t, f.UpdateField("lsp-address", "127.0.0.1:1"))
		require.NoError(t, os.Remove(path))

		assert.NoError(t, f.onStop(context.Background()))
	})

	t.Run("removal error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockHotswapFS(ctrl)
		fsMock.EXPECT().MkdirAll(gomock.Any()).Return(nil)
		fsMock.EXPECT().WriteFile(gomock.Any(), gomock.Any()).Return(nil)
		fsMock.EXPECT().Remove("/sample/.hotswapd").Return(errors.New("busy"))

		f := newInfoFile("/sample/.hotswapd", fsMock)
		require.NoError(t, f.UpdateField("lsp-address", "127.0.0.1:1"))
		assert.Error(t, f.onStop(context.Background()))
	})
}

func TestLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".hotswapd")
	cfg, err := config.NewStaticProvider(map[string]interface{}{_configKeyInfoFile: path})
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	f, err := New(Params{Config: cfg, Lifecycle: lc, FS: fs.New(), Logger: zap.NewNop().Sugar()})
	require.NoError(t, err)

	lc.RequireStart()
	require.NoError(t, f.UpdateField("lsp-address", "127.0.0.1:1"))
	_, err = os.Stat(path)
	require.NoError(t, err)

	lc.RequireStop()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func newInfoFile(path string, hfs fs.HotswapFS) *infoFile {
	return &infoFile{
		path:   path,
		fs:     hfs,
		logger: zap.NewNop().Sugar(),
		fields: make(map[string]string),
	}
}

func newMockConfigProvider(ctrl *gomock.Controller, configKey string) config.Provider {
	configs := map[string]string{
		"valid": `
serverInfoFilePath: /my/sample/path/.hotswapd
`,
		"missingKey": `
otherKey: /my/sample/path/.hotswapd
`,
		"missingValue": `
serverInfoFilePath:
otherKey: sample
`,
		"formatProblem": `
serverInfoFilePath:
  infofile: /sample/.file
`,
	}

	yamlProv, _ := config.NewYAML(config.Source(strings.NewReader(configs[configKey])))
	configProviderMock := configmock.NewMockProvider(ctrl)
	configProviderMock.EXPECT().Get(_configKeyInfoFile).Return(yamlProv.Get(_configKeyInfoFile)).AnyTimes()
	return configProviderMock
}
