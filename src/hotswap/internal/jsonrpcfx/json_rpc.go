// Package jsonrpcfx serves IDE connections over JSON-RPC on a TCP listener.
package jsonrpcfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/serverinfofile"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=json_rpc.go -destination=jsonrpcfxmock/jsonrpcfxmock.go -package=jsonrpcfxmock

const (
	_configKeyAddress = "jsonrpc.address"
	_outputKey        = "lsp-address"
)

// Module is an fx module to handle JSON-RPC requests.
var Module = fx.Provide(New)

// JSONRPCModule accepts IDE connections and hands each one to the registered ConnectionManager.
type JSONRPCModule interface {
	ServeStream(ctx context.Context, conn jsonrpc2.Conn) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
	// Addr returns the bound listener address, or nil before the module has started.
	Addr() net.Addr
}

// Router handles the requests of a single connection.
type Router interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
	UUID() uuid.UUID
}

// ConnectionManager creates a Router for each new connection and cleans up after it closes.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

// Params define values to be used by the JSON-RPC module.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	ServerInfoFile serverinfofile.ServerInfoFile
}

type module struct {
	address        string
	logger         *zap.SugaredLogger
	stats          tally.Scope
	serverInfoFile serverinfofile.ServerInfoFile

	mu            sync.Mutex
	connectionMgr ConnectionManager
	ln            net.Listener

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a module that listens on the configured address once the application starts.
func New(p Params) (JSONRPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		logger:         p.Logger,
		stats:          p.Stats.SubScope("jsonrpc"),
		serverInfoFile: p.ServerInfoFile,
	}
	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.onStart,
		OnStop:  m.onStop,
	})
	return m, nil
}

func (m *module) onStart(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.address)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", m.address, err)
	}

	// The bound address differs from the configured one when an ephemeral port is requested.
	addr := ln.Addr().String()
	if err := m.serverInfoFile.UpdateField(_outputKey, addr); err != nil {
		ln.Close()
		return err
	}

	serveCtx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.ln = ln
	m.cancel = cancel
	m.done = make(chan struct{})
	m.mu.Unlock()

	m.logger.Infow("started JSON-RPC inbound", "address", addr)
	go m.serve(serveCtx, ln, m.done)
	return nil
}

func (m *module) serve(ctx context.Context, ln net.Listener, done chan struct{}) {
	defer close(done)
	err := jsonrpc2.Serve(ctx, ln, m, 0)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, net.ErrClosed) {
		m.logger.Errorw("JSON-RPC inbound stopped", zap.Error(err))
	}
}

func (m *module) onStop(ctx context.Context) error {
	m.mu.Lock()
	cancel, done, ln := m.cancel, m.done, m.ln
	m.mu.Unlock()
	if cancel == nil {
		return nil
	}

	// Serve does not close the listener itself, so its accept loop only exits once ln is closed.
	cancel()
	if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		m.logger.Warnw("closing JSON-RPC listener", zap.Error(err))
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ServeStream serves a single connection until it closes or the module stops.
func (m *module) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	m.mu.Lock()
	mgr := m.connectionMgr
	m.mu.Unlock()
	if mgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		return errors.New("cannot serve connection, no connection manager set")
	}

	router, err := mgr.NewConnection(ctx, &conn)
	if err != nil {
		return err
	}
	id := router.UUID()
	m.logger.Infow("client connected", zap.Stringer("uuid", id))
	m.stats.Counter("connections").Inc(1)
	conn.Go(ctx, router.HandleReq)

	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
	}

	mgr.RemoveConnection(ctx, id)
	m.logger.Infow("client disconnected", zap.Stringer("uuid", id))
	return conn.Err()
}

func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

func (m *module) Addr() net.Addr {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ln == nil {
		return nil
	}
	return m.ln.Addr()
}

func (m *module) processConfig(cfg config.Provider) error {
	if err := cfg.Get(_configKeyAddress).Populate(&m.address); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyAddress, err)
	}
	if m.address == "" {
		return fmt.Errorf("missing field %q in config", _configKeyAddress)
	}
	return nil
}
