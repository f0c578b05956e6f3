package hotswapdaemon

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/uber/hotswap-lsp/src/hotswap/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"
)

const _fileScheme = "file://"

// Initialize stores information about a new connection and advertises the hotswap commands.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	result := &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: _serverName,
		},
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}

	s.InitializeParams = params
	s.WorkspaceRoot = workspaceRoot(params)
	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	mapper.InitializeResultAppendExecuteCommandProvider(result, &protocol.ExecuteCommandOptions{
		Commands: []string{c.commands.Debug, c.commands.Cancel},
	})
	return result, nil
}

// Initialized handles any actions that need to occur immediately after initialization.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	c.logger.Infow("session initialized", "session", s.UUID.String(), "client", s.ClientName(), "workspaceRoot", s.WorkspaceRoot)
	if err := c.ideGateway.LogMessage(ctx, &protocol.LogMessageParams{
		Message: fmt.Sprintf("Connected to %s.", _serverName),
		Type:    protocol.MessageTypeInfo,
	}); err != nil {
		c.logger.Warnw("sending log message", zap.Error(err))
	}
	return nil
}

// Shutdown is sent just before Exit to indicate that the session will exit.
func (c *controller) Shutdown(ctx context.Context) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}
	if n := c.orchestrator.CancelSession(id); n > 0 {
		c.logger.Infow("cancelled runs on shutdown", "session", id.String(), "count", n)
	}
	return nil
}

// Exit will be used to either clean up from an individual connection, or shutdown the whole server.
func (c *controller) Exit(ctx context.Context) error {
	if c.fullShutdown {
		// Zero out the timer to trigger immediate shutdown.
		c.idleTimerMu.Lock()
		c.idleTimer.Reset(0)
		c.idleTimerMu.Unlock()
		return nil
	}
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}

	return c.EndSession(ctx, s.UUID)
}

// RequestFullShutdown will set the controller to treat subsequent Shutdown and Exit requests as requests to exit the entire process.
func (c *controller) RequestFullShutdown(ctx context.Context) error {
	c.fullShutdown = true

	return nil
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	session := mapper.UUIDToSession(id, conn)
	if err := c.ideGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}

	if err := c.sessions.Set(ctx, session); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// EndSession cancels the session's runs and removes it, during or after the last JSON-RPC request.
func (c *controller) EndSession(ctx context.Context, uuid uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	if n := c.orchestrator.CancelSession(uuid); n > 0 {
		c.logger.Infow("cancelled runs of ended session", "session", uuid.String(), "count", n)
	}

	err := c.ideGateway.DeregisterClient(ctx, uuid)
	if err != nil {
		c.logger.Error(err)
	}

	return c.sessions.Delete(ctx, uuid)
}

func workspaceRoot(params *protocol.InitializeParams) string {
	if params == nil {
		return ""
	}
	candidates := []string{string(params.RootURI)}
	if len(params.WorkspaceFolders) > 0 {
		candidates = []string{string(params.WorkspaceFolders[0].URI), string(params.RootURI)}
	}
	for _, u := range candidates {
		if strings.HasPrefix(u, _fileScheme) {
			return uri.URI(u).Filename()
		}
	}
	return ""
}
