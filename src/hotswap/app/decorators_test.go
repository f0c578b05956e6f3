package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs/fsmock"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
)

func TestEnv(t *testing.T) {
	tests := []struct {
		name      string
		envVal    string
		expectVal string
	}{
		{
			name:      "local",
			expectVal: EnvLocal,
		},
		{
			name:      "development",
			envVal:    EnvDevelopment,
			expectVal: EnvDevelopment,
		},
		{
			name:      "unknown value",
			envVal:    "production",
			expectVal: EnvLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(_envHotswapEnvironment, tt.envVal)

			fxtest.New(
				t,
				fx.Provide(func() Context {
					return Context{Environment: EnvLocal, RuntimeEnvironment: EnvLocal}
				}),
				fx.Decorate(decorateEnvContext),
				fx.Invoke(func(ctx Context) {
					require.Equal(t, tt.expectVal, ctx.Environment, "unexpected environment")
					require.Equal(t, tt.expectVal, ctx.RuntimeEnvironment, "unexpected runtime environment")
				}),
			).RequireStart().RequireStop()
		})
	}
}

func TestDecorateConfigProvider(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsMock := fsmock.NewMockHotswapFS(ctrl)
	fsMock.EXPECT().MkdirAll("/tmp/hotswap").Return(nil)

	var got config.Provider
	fxtest.New(
		t,
		fx.Provide(func() fs.HotswapFS { return fsMock }),
		fx.Provide(func() config.Provider {
			p, _ := config.NewStaticProvider(map[string]interface{}{
				"logging": map[string]interface{}{
					"outputPaths": []string{"/tmp/hotswap/hotswapd.log"},
				},
			})
			return p
		}),
		fx.Decorate(decorateConfigProvider),
		fx.Populate(&got),
	).RequireStart().RequireStop()

	assert.NotNil(t, got)
}

func TestEnsureLogFolder(t *testing.T) {
	t.Run("file outputs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockHotswapFS(ctrl)
		fsMock.EXPECT().MkdirAll("/tmp/foo").Return(nil)
		fsMock.EXPECT().MkdirAll("/tmp/bar").Return(nil)

		p, err := config.NewStaticProvider(map[string]interface{}{
			"logging": map[string]interface{}{
				"outputPaths":      []string{"stdout", "/tmp/foo/myfile1.log"},
				"errorOutputPaths": []string{"stderr", "/tmp/bar/errors.log"},
			},
		})
		require.NoError(t, err)

		got, err := ensureLogFolder(p, fsMock)
		require.NoError(t, err)
		assert.Equal(t, p, got)
	})

	t.Run("error creating directory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockHotswapFS(ctrl)
		fsMock.EXPECT().MkdirAll("/tmp/foo").Return(errors.New("error creating directory"))

		p, _ := config.NewStaticProvider(map[string]interface{}{
			"logging": map[string]interface{}{
				"outputPaths": []string{"/tmp/foo/myfile1.log", "/tmp/bar/myfile2.log"},
			},
		})
		_, err := ensureLogFolder(p, fsMock)
		assert.Error(t, err)
	})

	t.Run("malformed logging block", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		p, _ := config.NewStaticProvider(map[string]interface{}{"logging": "verbose"})
		_, err := ensureLogFolder(p, fsmock.NewMockHotswapFS(ctrl))
		assert.Error(t, err)
	})
}
