package handler

import (
	controller "github.com/uber/hotswap-lsp/src/hotswap/controller"
	hotswapdaemon "github.com/uber/hotswap-lsp/src/hotswap/controller/hotswap-daemon"
	handler "github.com/uber/hotswap-lsp/src/hotswap/handler/hotswap-daemon"
	"github.com/uber/hotswap-lsp/src/hotswap/repository/session"
	"go.uber.org/fx"
)

// Module provides the hotswap daemon inbounds into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputProcessInfo),
	fx.Invoke(func(h handler.Handler) {}),
	fx.Invoke(func(c hotswapdaemon.Controller) {}),
)
