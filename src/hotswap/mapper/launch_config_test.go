package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/factory"
	"github.com/uber/hotswap-lsp/src/hotswap/model"
	"go.lsp.dev/uri"
)

func TestLaunchConfigModelMapping(t *testing.T) {
	cfg := factory.LaunchConfig("app", "my-project", true)
	cfg.Attributes = map[string]string{"workingDir": "/work"}

	m := LaunchConfigToModel(cfg)
	assert.Equal(t, "app", m.Name)
	assert.Equal(t, "java", m.Type)
	assert.Equal(t, "my-project", m.Project)
	assert.True(t, m.Hotswap)

	m.VMArgs[0] = "-Xmx2g"
	m.Attributes["workingDir"] = "/other"
	assert.Equal(t, "-Xmx1g", cfg.VMArgs[0])
	assert.Equal(t, "/work", cfg.Attributes["workingDir"])

	back, err := ModelToLaunchConfig(LaunchConfigToModel(cfg))
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestModelToLaunchConfigMissingName(t *testing.T) {
	_, err := ModelToLaunchConfig(&model.LaunchConfig{Project: "my-project"})
	assert.Error(t, err)
}

func TestYAMLToLaunchConfig(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    *entity.LaunchConfig
		wantErr bool
	}{
		{
			name: "complete file",
			data: `
name: app
type: java
project: my-project
mainClass: com.example.Application
vmArgs: ["-Xmx1g"]
hotswap: false
`,
			want: &entity.LaunchConfig{
				Name:        "app",
				Kind:        "java",
				ProjectName: "my-project",
				MainClass:   "com.example.Application",
				VMArgs:      []string{"-Xmx1g"},
			},
		},
		{
			name:    "malformed yaml",
			data:    "name: [",
			wantErr: true,
		},
		{
			name:    "missing name",
			data:    "project: my-project",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := YAMLToLaunchConfig([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLaunchConfigToYAML(t *testing.T) {
	cfg := factory.LaunchConfig("app (hotswap)", "my-project", true)
	cfg.DerivedFrom = "app"

	data, err := LaunchConfigToYAML(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hotswap: true")
	assert.Contains(t, string(data), "derivedFrom: app")

	back, err := YAMLToLaunchConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestLaunchConfigToLaunchParams(t *testing.T) {
	cfg := factory.LaunchConfig("app", "my-project", true)

	t.Run("with agent and runtime", func(t *testing.T) {
		withRuntime := cfg.Clone()
		withRuntime.RuntimeHome = "/opt/jbr"
		env := entity.HotswapEnv{Agent: factory.Agent("2.0.1")}

		params := LaunchConfigToLaunchParams("run-1", withRuntime, env)
		assert.Equal(t, "run-1", params.RunID)
		assert.Equal(t, entity.LaunchModeDebug, params.Mode)
		assert.Equal(t, uri.File("/cache/hotswap/agent/2.0.1/hotswap-agent.jar"), params.AgentJar)
		assert.Equal(t, uri.File("/opt/jbr"), params.RuntimeHome)
	})

	t.Run("without agent", func(t *testing.T) {
		params := LaunchConfigToLaunchParams("run-2", cfg, entity.HotswapEnv{})
		assert.Empty(t, params.AgentJar)
		assert.Empty(t, params.RuntimeHome)
		assert.Same(t, cfg, params.Configuration)
	})
}
