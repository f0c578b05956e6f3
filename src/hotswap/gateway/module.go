// Package gateway wires the outbound clients of the hotswap daemon.
package gateway

import (
	ideclient "github.com/uber/hotswap-lsp/src/hotswap/gateway/ide-client"
	"go.uber.org/fx"
)

// Module provides the outbound gateways into an Fx application.
var Module = fx.Options(
	fx.Provide(ideclient.New),
)
