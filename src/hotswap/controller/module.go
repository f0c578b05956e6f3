// Package controller wires the business logic of the hotswap daemon.
package controller

import (
	"github.com/uber/hotswap-lsp/src/hotswap/controller/agent"
	hotswapdaemon "github.com/uber/hotswap-lsp/src/hotswap/controller/hotswap-daemon"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/launchconfig"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/orchestrator"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/prompt"
	"github.com/uber/hotswap-lsp/src/hotswap/controller/runtime"
	launchconfigrepo "github.com/uber/hotswap-lsp/src/hotswap/repository/launchconfig"
	"go.uber.org/fx"
)

// Module provides the controllers, the launch configuration store and the agent provisioner.
var Module = fx.Options(
	fx.Provide(hotswapdaemon.New),
	fx.Provide(orchestrator.New),
	fx.Provide(prompt.New),
	fx.Provide(launchconfig.New),
	fx.Provide(launchconfigrepo.New),
	fx.Provide(runtime.New),
	agent.Module,
)
