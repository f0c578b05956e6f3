package hotswapdaemon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestWorkDoneProgressCancel(t *testing.T) {
	f := newFixture(t)

	f.orchestrator.EXPECT().CancelToken("hotswap-1").Return(true)
	assert.NoError(t, f.c.WorkDoneProgressCancel(context.Background(), &protocol.WorkDoneProgressCancelParams{
		Token: *protocol.NewProgressToken("hotswap-1"),
	}))

	f.orchestrator.EXPECT().CancelToken("unknown").Return(false)
	assert.NoError(t, f.c.WorkDoneProgressCancel(context.Background(), &protocol.WorkDoneProgressCancelParams{
		Token: *protocol.NewProgressToken("unknown"),
	}))
}
