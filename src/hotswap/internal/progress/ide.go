package progress

import (
	"context"

	ideclient "github.com/uber/hotswap-lsp/src/hotswap/gateway/ide-client"
	"go.lsp.dev/protocol"
)

type ideReporter struct {
	gateway ideclient.Gateway
	token   protocol.ProgressToken
}

// NewIDEReporter returns a Reporter that sends work done progress for token to the IDE session found in the context.
func NewIDEReporter(gateway ideclient.Gateway, token string) Reporter {
	return &ideReporter{
		gateway: gateway,
		token:   *protocol.NewProgressToken(token),
	}
}

func (r *ideReporter) Begin(ctx context.Context, title string) error {
	if err := r.gateway.WorkDoneProgressCreate(ctx, &protocol.WorkDoneProgressCreateParams{Token: r.token}); err != nil {
		return err
	}
	return r.gateway.Progress(ctx, &protocol.ProgressParams{
		Token: r.token,
		Value: &protocol.WorkDoneProgressBegin{
			Kind:        protocol.WorkDoneProgressKindBegin,
			Title:       title,
			Cancellable: true,
		},
	})
}

func (r *ideReporter) Report(ctx context.Context, message string, percentage uint32) error {
	return r.gateway.Progress(ctx, &protocol.ProgressParams{
		Token: r.token,
		Value: &protocol.WorkDoneProgressReport{
			Kind:       protocol.WorkDoneProgressKindReport,
			Message:    message,
			Percentage: percentage,
		},
	})
}

func (r *ideReporter) End(ctx context.Context, message string) error {
	return r.gateway.Progress(ctx, &protocol.ProgressParams{
		Token: r.token,
		Value: &protocol.WorkDoneProgressEnd{
			Kind:    protocol.WorkDoneProgressKindEnd,
			Message: message,
		},
	})
}
