package hotswapdaemon

import (
	"context"

	"go.lsp.dev/protocol"
)

// WorkDoneProgressCancel cancels the run that reports progress under the given token.
func (c *controller) WorkDoneProgressCancel(ctx context.Context, params *protocol.WorkDoneProgressCancelParams) error {
	token := params.Token.String()
	if !c.orchestrator.CancelToken(token) {
		c.logger.Debugw("no active run for progress token", "token", token)
	}
	return nil
}
