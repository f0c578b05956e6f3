package progress

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber/hotswap-lsp/src/hotswap/gateway/ide-client/ideclientmock"
	"go.lsp.dev/protocol"
	"go.uber.org/mock/gomock"
)

func TestIDEReporter(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	gateway := ideclientmock.NewMockGateway(ctrl)
	token := *protocol.NewProgressToken("run-token")

	r := NewIDEReporter(gateway, "run-token")

	t.Run("begin", func(t *testing.T) {
		gateway.EXPECT().WorkDoneProgressCreate(ctx, &protocol.WorkDoneProgressCreateParams{Token: token}).Return(nil)
		gateway.EXPECT().Progress(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, params *protocol.ProgressParams) error {
			begin, ok := params.Value.(*protocol.WorkDoneProgressBegin)
			assert.True(t, ok)
			assert.Equal(t, "Hotswap debug", begin.Title)
			assert.True(t, begin.Cancellable)
			return nil
		})
		assert.NoError(t, r.Begin(ctx, "Hotswap debug"))
	})

	t.Run("begin create failure", func(t *testing.T) {
		gateway.EXPECT().WorkDoneProgressCreate(ctx, gomock.Any()).Return(errors.New("closed"))
		assert.Error(t, r.Begin(ctx, "Hotswap debug"))
	})

	t.Run("report", func(t *testing.T) {
		gateway.EXPECT().Progress(ctx, &protocol.ProgressParams{
			Token: token,
			Value: &protocol.WorkDoneProgressReport{
				Kind:       protocol.WorkDoneProgressKindReport,
				Message:    "checking-agent done",
				Percentage: 30,
			},
		}).Return(nil)
		assert.NoError(t, r.Report(ctx, "checking-agent done", 30))
	})

	t.Run("end", func(t *testing.T) {
		gateway.EXPECT().Progress(ctx, &protocol.ProgressParams{
			Token: token,
			Value: &protocol.WorkDoneProgressEnd{
				Kind:    protocol.WorkDoneProgressKindEnd,
				Message: "launched",
			},
		}).Return(nil)
		assert.NoError(t, r.End(ctx, "launched"))
	})
}
