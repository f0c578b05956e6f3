package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/factory"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

func TestRequestToParams(t *testing.T) {
	t.Run("initialize", func(t *testing.T) {
		req := factory.JSONRPCRequest(protocol.MethodInitialize, protocol.InitializeParams{
			ClientInfo: &protocol.ClientInfo{Name: "eclipse"},
		})
		params, err := RequestToInitializeParams(req)
		require.NoError(t, err)
		assert.Equal(t, "eclipse", params.ClientInfo.Name)
	})

	t.Run("initialized", func(t *testing.T) {
		req := factory.JSONRPCNotification(protocol.MethodInitialized, protocol.InitializedParams{})
		_, err := RequestToInitializedParams(req)
		assert.NoError(t, err)
	})

	t.Run("execute command", func(t *testing.T) {
		req := factory.JSONRPCRequest(protocol.MethodWorkspaceExecuteCommand, protocol.ExecuteCommandParams{
			Command:   "hotswap.debug",
			Arguments: []interface{}{"my-project"},
		})
		params, err := RequestToExecuteCommandParams(req)
		require.NoError(t, err)
		assert.Equal(t, "hotswap.debug", params.Command)
	})

	t.Run("work done progress cancel", func(t *testing.T) {
		req := factory.JSONRPCNotification(protocol.MethodWorkDoneProgressCancel, &protocol.WorkDoneProgressCancelParams{
			Token: *protocol.NewProgressToken("token-1"),
		})
		params, err := RequestToWorkDoneProgressCancelParams(req)
		require.NoError(t, err)
		assert.Equal(t, "token-1", params.Token.String())
	})

	t.Run("malformed params", func(t *testing.T) {
		req := factory.JSONRPCRequest(protocol.MethodWorkspaceExecuteCommand, []int{1, 2})
		_, err := RequestToExecuteCommandParams(req)
		assert.ErrorContains(t, err, jsonrpc2.ErrParse.Error())
	})
}

func TestExecuteCommandParamsToProjectRef(t *testing.T) {
	tests := []struct {
		name    string
		params  *protocol.ExecuteCommandParams
		want    *entity.ProjectRef
		wantErr error
	}{
		{
			name:    "nil params",
			wantErr: errors.NoProjectArgumentError,
		},
		{
			name:    "no arguments",
			params:  &protocol.ExecuteCommandParams{Command: "hotswap.debug"},
			wantErr: errors.NoProjectArgumentError,
		},
		{
			name:    "bare project name",
			params:  &protocol.ExecuteCommandParams{Arguments: []interface{}{"my-project"}},
			wantErr: errors.NoProjectArgumentError,
		},
		{
			name: "project object",
			params: &protocol.ExecuteCommandParams{Arguments: []interface{}{
				map[string]interface{}{
					"id":           "p1",
					"name":         "my-project",
					"open":         true,
					"capabilities": []interface{}{"java"},
				},
			}},
			want: &entity.ProjectRef{ID: "p1", Name: "my-project", Open: true, Capabilities: []string{"java"}},
		},
		{
			name: "project object without name",
			params: &protocol.ExecuteCommandParams{Arguments: []interface{}{
				map[string]interface{}{"id": "p1"},
			}},
			wantErr: errors.NoProjectArgumentError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExecuteCommandParamsToProjectRef(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("wrong argument type", func(t *testing.T) {
		_, err := ExecuteCommandParamsToProjectRef(&protocol.ExecuteCommandParams{Arguments: []interface{}{42}})
		assert.ErrorContains(t, err, jsonrpc2.ErrParse.Error())
	})
}

func TestExecuteCommandParamsToProjectName(t *testing.T) {
	tests := []struct {
		name    string
		params  *protocol.ExecuteCommandParams
		want    string
		wantErr bool
	}{
		{
			name:    "nil params",
			wantErr: true,
		},
		{
			name:   "bare name",
			params: &protocol.ExecuteCommandParams{Arguments: []interface{}{"my-project"}},
			want:   "my-project",
		},
		{
			name:    "empty name",
			params:  &protocol.ExecuteCommandParams{Arguments: []interface{}{""}},
			wantErr: true,
		},
		{
			name: "project object",
			params: &protocol.ExecuteCommandParams{Arguments: []interface{}{
				map[string]interface{}{"name": "my-project"},
			}},
			want: "my-project",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExecuteCommandParamsToProjectName(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.NoProjectArgumentError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInitializeResultAppendExecuteCommandProvider(t *testing.T) {
	result := &protocol.InitializeResult{}
	InitializeResultAppendExecuteCommandProvider(result, &protocol.ExecuteCommandOptions{Commands: []string{"a", "b"}})
	InitializeResultAppendExecuteCommandProvider(result, &protocol.ExecuteCommandOptions{Commands: []string{"b", "c"}})
	assert.Equal(t, []string{"a", "b", "c"}, result.Capabilities.ExecuteCommandProvider.Commands)
}
