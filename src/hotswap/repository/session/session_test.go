package session

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally"
	"github.com/uber/hotswap-lsp/src/hotswap/entity"
	"github.com/uber/hotswap-lsp/src/hotswap/internal/errors"
	"go.uber.org/goleak"
)

func TestSessionRepository(t *testing.T) {
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	t.Run("should Set and Get successfully", func(t *testing.T) {
		var id uuid.UUID
		s := &entity.Session{
			UUID:          id,
			WorkspaceRoot: "/home/user/project",
		}

		repository := New(testScope)

		err := repository.Set(context.Background(), s)
		require.NoError(t, err)
		val, err := repository.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, id, val.UUID)
		assert.Equal(t, "/home/user/project", val.WorkspaceRoot)
	})

	t.Run("should fail to get something that was not Set", func(t *testing.T) {
		repository := New(testScope)

		id := uuid.Must(uuid.NewV4())
		_, err := repository.Get(context.Background(), id)
		require.Error(t, err)
		var nf *errors.UUIDNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, id, nf.UUID)
	})

	t.Run("should reject nil session", func(t *testing.T) {
		repository := New(testScope)
		assert.Error(t, repository.Set(context.Background(), nil))
	})
}

func TestGetFromContext(t *testing.T) {
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	t.Run("should get when uuid is in context", func(t *testing.T) {
		var id uuid.UUID
		repository := New(testScope)
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)
		err := repository.Set(ctx, &entity.Session{UUID: id})
		require.NoError(t, err)
		val, err := repository.GetFromContext(ctx)
		assert.NoError(t, err)
		assert.Equal(t, id, val.UUID)
	})

	t.Run("should fail when uuid is missing from context", func(t *testing.T) {
		repository := New(testScope)

		_, err := repository.GetFromContext(context.Background())
		require.Error(t, err)
	})

	t.Run("should fail in context is not set in repository", func(t *testing.T) {
		var id uuid.UUID
		repository := New(testScope)
		ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)
		_, err := repository.GetFromContext(ctx)
		assert.Error(t, err)
	})
}

func TestDeleteAndCount(t *testing.T) {
	ctx := context.Background()
	testScope := tally.NewTestScope("testing", make(map[string]string, 0))
	repository := New(testScope)

	session1 := &entity.Session{UUID: uuid.Must(uuid.NewV4())}
	session2 := &entity.Session{UUID: uuid.Must(uuid.NewV4())}

	count, err := repository.SessionCount(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, repository.Set(ctx, session1))
	require.NoError(t, repository.Set(ctx, session2))
	count, _ = repository.SessionCount(ctx)
	assert.Equal(t, 2, count)

	// First deletion is successful. Multiple deletions return no error.
	assert.NoError(t, repository.Delete(ctx, session2.UUID))
	assert.NoError(t, repository.Delete(ctx, session2.UUID))
	_, err = repository.Get(ctx, session2.UUID)
	assert.Error(t, err)

	// Other session unaffected.
	result, err := repository.Get(ctx, session1.UUID)
	assert.NoError(t, err)
	assert.Equal(t, session1, result)

	count, _ = repository.SessionCount(ctx)
	assert.Equal(t, 1, count)
	gauges := testScope.Snapshot().Gauges()
	require.Contains(t, gauges, "testing.sessions.active_connections+")
	assert.Equal(t, float64(1), gauges["testing.sessions.active_connections+"].Value())
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
