package hotswapdaemon

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	controller "github.com/uber/hotswap-lsp/src/hotswap/controller/hotswap-daemon"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// MethodRequestFullShutdown directs the server to shut down on the next JSON-RPC 'exit' method call.
const MethodRequestFullShutdown = "hotswap/requestFullShutdown"

type jsonRPCRouter struct {
	hotswapdaemon controller.Controller
	uuid          uuid.UUID
	stats         tally.Scope
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)

	switch req.Method() {
	// Lifecycle
	case protocol.MethodInitialize:
		return r.Initialize(ctx, reply, req)
	case protocol.MethodInitialized:
		return r.Initialized(ctx, reply, req)
	case protocol.MethodShutdown:
		return r.Shutdown(ctx, reply, req)
	case protocol.MethodExit:
		return r.Exit(ctx, reply, req)
	case MethodRequestFullShutdown:
		return r.RequestFullShutdown(ctx, reply, req)

	// Workspace
	case protocol.MethodWorkspaceExecuteCommand:
		return r.ExecuteCommand(ctx, reply, req)

	// Window
	case protocol.MethodWorkDoneProgressCancel:
		return r.WorkDoneProgressCancel(ctx, reply, req)

	default:
		if r.stats != nil {
			r.stats.Counter("unhandled_methods").Inc(1)
		}
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}
