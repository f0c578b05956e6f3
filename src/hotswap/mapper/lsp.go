package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// RequestToInitializeParams maps the parameters from a jsconrpc2.Request into protocol.InitializeParams.
func RequestToInitializeParams(req jsonrpc2.Request) (*protocol.InitializeParams, error) {
	params := protocol.InitializeParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToInitializedParams maps the parameters from a jsconrpc2.Request into protocol.InitializedParams.
func RequestToInitializedParams(req jsonrpc2.Request) (*protocol.InitializedParams, error) {
	params := protocol.InitializedParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToExecuteCommandParams maps the parameters from a jsconrpc2.Request into protocol.ExecuteCommandParams.
func RequestToExecuteCommandParams(req jsonrpc2.Request) (*protocol.ExecuteCommandParams, error) {
	params := protocol.ExecuteCommandParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// RequestToWorkDoneProgressCancelParams maps the parameters from a jsconrpc2.Request into protocol.WorkDoneProgressCancelParams.
func RequestToWorkDoneProgressCancelParams(req jsonrpc2.Request) (*protocol.WorkDoneProgressCancelParams, error) {
	params := protocol.WorkDoneProgressCancelParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	return &params, nil
}

// ExecuteCommandParamsToProjectRef decodes the first command argument into a ProjectRef.
// Only a project object is accepted: a bare name carries no open state or capabilities.
func ExecuteCommandParamsToProjectRef(params *protocol.ExecuteCommandParams) (*entity.ProjectRef, error) {
	if params == nil || len(params.Arguments) == 0 || params.Arguments[0] == nil {
		return nil, errors.NoProjectArgumentError
	}
	if _, ok := params.Arguments[0].(string); ok {
		return nil, errors.NoProjectArgumentError
	}

	raw, err := json.Marshal(params.Arguments[0])
	if err != nil {
		return nil, wrapErrParse(err)
	}
	project := entity.ProjectRef{}
	if err := json.Unmarshal(raw, &project); err != nil {
		return nil, wrapErrParse(err)
	}
	if project.Name == "" {
		return nil, errors.NoProjectArgumentError
	}
	return &project, nil
}

// ExecuteCommandParamsToProjectName returns the project name from the first command argument,
// which may be either a bare name or a project object.
func ExecuteCommandParamsToProjectName(params *protocol.ExecuteCommandParams) (string, error) {
	if params != nil && len(params.Arguments) > 0 {
		if name, ok := params.Arguments[0].(string); ok {
			if name == "" {
				return "", errors.NoProjectArgumentError
			}
			return name, nil
		}
	}
	project, err := ExecuteCommandParamsToProjectRef(params)
	if err != nil {
		return "", err
	}
	return project.Name, nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%s: %w", jsonrpc2.ErrParse, err)
}
