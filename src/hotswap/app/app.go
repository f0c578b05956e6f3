// Package app assembles the hotswap daemon application.
package app

import (
	"context"
	"time"

	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/gateway"
	"github.com/uber/hotswap-lsp/src/hotswap/handler"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/core"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/dispatcher"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/executor"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/fs"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/jsonrpcfx"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/serverinfofile"
	"go.uber.org/fx"
)

const _serviceName = "hotswapd"

// Module defines the hotswap daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	dispatcher.Module,
	fs.Module,
	executor.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(newRootScope),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)

func newRootScope(lc fx.Lifecycle, env Context) tally.Scope {
	rs, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags: map[string]string{
			"service":     _serviceName,
			"environment": env.Environment,
		},
	}, 1*time.Second)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})
	return rs
}
