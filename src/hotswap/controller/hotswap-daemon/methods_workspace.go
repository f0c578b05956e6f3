package hotswapdaemon

import (
	"context"

	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/errors"
	"github.com/uber/hotswap-lsp/src/hotswap/mapper"
	"go.lsp.dev/protocol"
)

const (
	_statusCancelled  = "cancelled"
	_statusNotRunning = "not-running"
)

// ExecuteCommand starts or cancels a hotswap debug session run. The debug command returns as soon as the run is
// scheduled; the result is reported through work done progress and window messages.
func (c *controller) ExecuteCommand(ctx context.Context, params *protocol.ExecuteCommandParams) (interface{}, error) {
	switch params.Command {
	case c.commands.Debug:
		project, err := mapper.ExecuteCommandParamsToProjectRef(params)
		if err != nil {
			return nil, err
		}
		run, joined := c.orchestrator.Start(ctx, project)
		result := &entity.CommandResult{
			RunID:  run.ID(),
			Token:  run.Token(),
			Status: entity.RunStatusRunning,
		}
		if joined {
			result.Status = entity.RunStatusJoined
		}
		if done, ok := run.Result(); ok {
			result.Status = done.Status.String()
			result.Message = done.Message
		}
		return result, nil

	case c.commands.Cancel:
		name, err := mapper.ExecuteCommandParamsToProjectName(params)
		if err != nil {
			return nil, err
		}
		result := &entity.CommandResult{Status: _statusNotRunning}
		if c.orchestrator.CancelProject(name) {
			result.Status = _statusCancelled
		}
		return result, nil
	}
	return nil, errors.UnknownCommandError
}
