package hotswapdaemon

import (
	"context"

	"github.com/uber/hotswap-lsp/src/hotswap/mapper"
	"go.lsp.dev/jsonrpc2"
)

// Initialize starts the LSP handshake for a new IDE connection.
func (r *jsonRPCRouter) Initialize(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToInitializeParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	result, err := r.hotswapdaemon.Initialize(ctx, params)
	if err != nil {
		return reply(ctx, nil, err)
	}
	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) Initialized(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToInitializedParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	err = r.hotswapdaemon.Initialized(ctx, params)
	return reply(ctx, nil, err)
}

// Shutdown cancels the caller's debug runs. The daemon itself keeps running unless RequestFullShutdown was sent first.
func (r *jsonRPCRouter) Shutdown(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.hotswapdaemon.Shutdown(ctx)
	return reply(ctx, nil, err)
}

// Exit ends the caller's session, or stops the daemon after RequestFullShutdown.
func (r *jsonRPCRouter) Exit(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	// Reply before the controller can begin stopping the process.
	reply(ctx, nil, nil)
	return r.hotswapdaemon.Exit(ctx)
}

func (r *jsonRPCRouter) RequestFullShutdown(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	err := r.hotswapdaemon.RequestFullShutdown(ctx)
	return reply(ctx, nil, err)
}
