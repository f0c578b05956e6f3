// Package hotswapdaemon implements the hotswap-daemon business logic.
package hotswapdaemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/orchestrator"
	ideclient "github.com/uber/hotswap-lsp/src/hotswap/gateway/ide-client"
	"github.com/uber/hotswap-lsp/src/hotswap/repository/session"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=hotswap_daemon.go -destination=hotswapdaemonmock/hotswapdaemonmock.go -package=hotswapdaemonmock

const (
	// Configuration keys
	_idleTimeoutMinutesKey = "idleTimeoutMinutes"
	_commandsKey           = "hotswap.commands"

	_serverName = "Hotswap Debug Daemon"
)

// Controller orchestrates the business logic for each request.
type Controller interface {
	// LSP Methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) (err error)
	Shutdown(ctx context.Context) (err error)
	Exit(ctx context.Context) error

	// Workspace related methods.
	ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error)

	// Window related methods.
	WorkDoneProgressCancel(ctx context.Context, params *protocol.WorkDoneProgressCancelParams) error

	// Custom methods for use within this service.
	RequestFullShutdown(ctx context.Context) error
	InitSession(ctx context.Context, conn *jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, uuid uuid.UUID) error
}

// Commands names the workspace commands handled by the daemon.
type Commands struct {
	Debug  string `yaml:"debug"`
	Cancel string `yaml:"cancel"`
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Shutdowner   fx.Shutdowner
	Sessions     session.Repository
	IdeGateway   ideclient.Gateway
	Orchestrator orchestrator.Controller
	Logger       *zap.SugaredLogger
	Config       config.Provider
}

type controller struct {
	sessions           session.Repository
	shutdowner         fx.Shutdowner
	fullShutdown       bool
	idleTimer          *time.Timer
	idleTimerMu        sync.Mutex
	idleTimeoutMinutes time.Duration
	logger             *zap.SugaredLogger
	ideGateway         ideclient.Gateway
	orchestrator       orchestrator.Controller
	commands           Commands
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	ctx := context.Background()

	var timeoutMinutesRaw int64
	if err := p.Config.Get(_idleTimeoutMinutesKey).Populate(&timeoutMinutesRaw); err != nil || timeoutMinutesRaw == 0 {
		return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
	}
	commands := Commands{Debug: "hotswap.debug", Cancel: "hotswap.cancel"}
	if err := p.Config.Get(_commandsKey).Populate(&commands); err != nil {
		return nil, fmt.Errorf("unable to get command names from config: %w", err)
	}

	c := &controller{
		sessions:     p.Sessions,
		shutdowner:   p.Shutdowner,
		logger:       p.Logger,
		ideGateway:   p.IdeGateway,
		orchestrator: p.Orchestrator,
		commands:     commands,

		idleTimeoutMinutes: time.Duration(timeoutMinutesRaw) * time.Minute,
	}
	c.refreshIdleTimer(ctx)

	return c, nil
}

// refreshIdleTimer ensures that the service shuts down after a defined inactivity period with no connections.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call starts the timer before the first connection arrives.
	if c.idleTimer == nil {
		c.idleTimer = time.AfterFunc(c.idleTimeoutMinutes, c.shutdownIdle)
		return nil
	}

	// Subsequent calls stop the timer and reset it only if no connections are active.
	currentSessions, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}

	c.idleTimer.Stop()
	if currentSessions == 0 {
		c.idleTimer.Reset(c.idleTimeoutMinutes)
	}
	return nil
}

func (c *controller) shutdownIdle() {
	c.logger.Info("Shutdown signal received.")
	if err := c.shutdowner.Shutdown(); err != nil {
		c.logger.Errorw("shutting down", zap.Error(err))
	}
}
