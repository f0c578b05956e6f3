package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigDir(t *testing.T, files map[string]string) string {
	dir := t.TempDir()
	for name, contents := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(contents), 0644))
	}
	return dir
}

func TestNewConfigFromDir(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		wantErr   string
		wantLevel string
		wantKind  string
	}{
		{
			name: "merges listed files in order",
			files: map[string]string{
				"meta.yaml":  "files: [base.yaml, local.yaml]",
				"base.yaml":  "logging:\n  level: info\nlaunchConfigs:\n  kind: java-application\n",
				"local.yaml": "logging:\n  level: debug\n",
			},
			wantLevel: "debug",
			wantKind:  "java-application",
		},
		{
			name: "skips missing optional files",
			files: map[string]string{
				"meta.yaml": "files: [base.yaml, local.yaml]",
				"base.yaml": "logging:\n  level: warn\nlaunchConfigs:\n  kind: java-remote\n",
			},
			wantLevel: "warn",
			wantKind:  "java-remote",
		},
		{
			name:    "missing meta file",
			files:   map[string]string{},
			wantErr: "failed to load meta configuration",
		},
		{
			name: "no listed files exist",
			files: map[string]string{
				"meta.yaml": "files: [base.yaml]",
			},
			wantErr: "no configuration files found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeConfigDir(t, tt.files)
			provider, err := newConfigFromDir(dir)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, provider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "config", provider.Name())
			assert.Equal(t, tt.wantLevel, provider.Get("logging.level").String())
			assert.Equal(t, tt.wantKind, provider.Get("launchConfigs.kind").String())
		})
	}
}

func TestNewConfigExpandsEnvironment(t *testing.T) {
	dir := writeConfigDir(t, map[string]string{
		"meta.yaml": "files: [base.yaml]",
		"base.yaml": "agent:\n  installDir: ${HOTSWAP_TEST_AGENT_DIR:/default}\n",
	})
	t.Setenv(_envConfigDir, dir)
	t.Setenv("HOTSWAP_TEST_AGENT_DIR", "/custom/agent")

	provider, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, "/custom/agent", provider.Get("agent.installDir").String())
}

func TestGetConfigDir(t *testing.T) {
	t.Setenv(_envConfigDir, "")
	assert.Equal(t, _defaultConfigDir, getConfigDir())

	t.Setenv(_envConfigDir, "/etc/hotswap")
	assert.Equal(t, "/etc/hotswap", getConfigDir())
}

func TestShippedConfig(t *testing.T) {
	provider, err := newConfigFromDir(filepath.Join("..", "..", "config"))
	require.NoError(t, err)

	var address string
	require.NoError(t, provider.Get("jsonrpc.address").Populate(&address))
	assert.NotEmpty(t, address)

	var idle int
	require.NoError(t, provider.Get("idleTimeoutMinutes").Populate(&idle))
	assert.Positive(t, idle)

	assert.Equal(t, "java", provider.Get("launchConfigs.kind").String())
	assert.Contains(t, provider.Get("agent.downloadURL").String(), "{version}")

	var searchPaths []string
	require.NoError(t, provider.Get("runtime.searchPaths").Populate(&searchPaths))
	assert.NotEmpty(t, searchPaths)
}
