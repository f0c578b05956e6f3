// Package prompt asks the user questions and shows messages on the interactive goroutine.
package prompt

import (
	"context"
	"errors"
	"fmt"

	ideclient "github.com/uber/hotswap-lsp/src/hotswap/gateway/ide-client"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/dispatcher"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=prompt.go -destination=promptmock/promptmock.go -package=promptmock

const (
	_actionYes = "Yes"
	_actionNo  = "No"

	_clientCanceledMessage = "Request window/showMessageRequest failed with message: Canceled"
)

// Controller is the user prompt abstraction. All methods marshal their work to the interactive goroutine.
type Controller interface {
	// AskYesNo blocks until the user answers. A dismissed or cancelled prompt is answered with false.
	AskYesNo(ctx context.Context, title, message string) (bool, error)
	// Info shows an informational message without waiting for it to be displayed.
	Info(ctx context.Context, title, message string) error
	// Error shows an error message without waiting for it to be displayed.
	Error(ctx context.Context, title, message string) error
	// ShowInstructions opens target, usually an external web page, without waiting for it.
	ShowInstructions(ctx context.Context, target string) error
}

// Params are inbound parameters to initialize a new prompt controller.
type Params struct {
	fx.In

	IdeGateway ideclient.Gateway
	Dispatcher dispatcher.Dispatcher
	Logger     *zap.SugaredLogger
}

type controller struct {
	ideGateway ideclient.Gateway
	dispatcher dispatcher.Dispatcher
	logger     *zap.SugaredLogger
}

// New creates a prompt controller.
func New(p Params) Controller {
	return &controller{
		ideGateway: p.IdeGateway,
		dispatcher: p.Dispatcher,
		logger:     p.Logger.With("plugin", "prompt"),
	}
}

func (c *controller) AskYesNo(ctx context.Context, title, message string) (bool, error) {
	answer := false
	err := c.dispatcher.RunAndWait(ctx, func(ctx context.Context) error {
		selection, err := c.ideGateway.ShowMessageRequest(ctx, &protocol.ShowMessageRequestParams{
			Type:    protocol.MessageTypeInfo,
			Message: formatMessage(title, message),
			Actions: []protocol.MessageActionItem{
				{Title: _actionYes},
				{Title: _actionNo},
			},
		})
		if err != nil {
			if isClientCancellation(err) {
				c.logger.Infow("prompt dismissed by client", "title", title)
				return nil
			}
			return fmt.Errorf("show message request: %w", err)
		}
		answer = selection != nil && selection.Title == _actionYes
		return nil
	})
	if err != nil {
		return false, err
	}
	return answer, nil
}

func (c *controller) Info(ctx context.Context, title, message string) error {
	return c.show(ctx, protocol.MessageTypeInfo, title, message)
}

func (c *controller) Error(ctx context.Context, title, message string) error {
	return c.show(ctx, protocol.MessageTypeError, title, message)
}

func (c *controller) ShowInstructions(ctx context.Context, target string) error {
	return c.dispatcher.Run(ctx, func(ctx context.Context) {
		if _, err := c.ideGateway.ShowDocument(ctx, &protocol.ShowDocumentParams{
			URI:       protocol.URI(target),
			External:  true,
			TakeFocus: true,
		}); err != nil {
			c.logger.Warnw("show document", "target", target, zap.Error(err))
		}
	})
}

func (c *controller) show(ctx context.Context, kind protocol.MessageType, title, message string) error {
	return c.dispatcher.Run(ctx, func(ctx context.Context) {
		if err := c.ideGateway.ShowMessage(ctx, &protocol.ShowMessageParams{
			Type:    kind,
			Message: formatMessage(title, message),
		}); err != nil {
			c.logger.Warnw("show message", "title", title, zap.Error(err))
		}
	})
}

func formatMessage(title, message string) string {
	if title == "" {
		return message
	}
	return fmt.Sprintf("%s: %s", title, message)
}

// isClientCancellation reports whether the IDE cancelled the request, e.g. because the prompt was closed.
func isClientCancellation(err error) bool {
	var rpcError *jsonrpc2.Error
	return errors.As(err, &rpcError) &&
		rpcError.Code == jsonrpc2.InternalError &&
		rpcError.Message == _clientCanceledMessage
}
