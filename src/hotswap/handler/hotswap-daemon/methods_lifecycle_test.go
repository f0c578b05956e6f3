package hotswapdaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/hotswap-daemon/hotswapdaemonmock"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
)

func TestLifecycleMethods(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		params    interface{}
		setReturn func(c *hotswapdaemonmock.MockController, err error)
	}{
		{
			name:   "Initialize",
			method: protocol.MethodInitialize,
			params: protocol.InitializeParams{},
			setReturn: func(c *hotswapdaemonmock.MockController, err error) {
				var result *protocol.InitializeResult
				if err == nil {
					result = &protocol.InitializeResult{}
				}
				c.EXPECT().Initialize(gomock.Any(), gomock.Any()).Return(result, err)
			},
		},
		{
			name:   "Initialized",
			method: protocol.MethodInitialized,
			params: protocol.InitializedParams{},
			setReturn: func(c *hotswapdaemonmock.MockController, err error) {
				c.EXPECT().Initialized(gomock.Any(), gomock.Any()).Return(err)
			},
		},
		{
			name:   "Shutdown",
			method: protocol.MethodShutdown,
			setReturn: func(c *hotswapdaemonmock.MockController, err error) {
				c.EXPECT().Shutdown(gomock.Any()).Return(err)
			},
		},
		{
			name:   "RequestFullShutdown",
			method: MethodRequestFullShutdown,
			setReturn: func(c *hotswapdaemonmock.MockController, err error) {
				c.EXPECT().RequestFullShutdown(gomock.Any()).Return(err)
			},
		},
		{
			name:   "Exit",
			method: protocol.MethodExit,
			setReturn: func(c *hotswapdaemonmock.MockController, err error) {
				c.EXPECT().Exit(gomock.Any()).Return(err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			ctx := context.Background()
			c := hotswapdaemonmock.NewMockController(ctrl)
			r := jsonRPCRouter{hotswapdaemon: c}

			// Valid params.
			tt.setReturn(c, nil)
			req, _ := jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, tt.params)
			assert.NoError(t, r.HandleReq(ctx, newMockReplier(), req))

			// Invalid params.
			if tt.params != nil {
				req, _ = jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, 5)
				assert.Error(t, r.HandleReq(ctx, newMockReplier(), req))
			}

			// Controller error.
			tt.setReturn(c, errors.New("controller error"))
			req, _ = jsonrpc2.NewCall(jsonrpc2.NewNumberID(5), tt.method, tt.params)
			assert.Error(t, r.HandleReq(ctx, newMockReplier(), req))
		})
	}
}

func TestExitRepliesBeforeController(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := hotswapdaemonmock.NewMockController(ctrl)

	var replied bool
	replier := func(ctx context.Context, result interface{}, err error) error {
		replied = true
		return nil
	}
	c.EXPECT().Exit(gomock.Any()).DoAndReturn(func(ctx context.Context) error {
		assert.True(t, replied)
		return nil
	})

	r := jsonRPCRouter{hotswapdaemon: c}
	req, _ := jsonrpc2.NewNotification(protocol.MethodExit, nil)
	assert.NoError(t, r.HandleReq(context.Background(), replier, req))
}
