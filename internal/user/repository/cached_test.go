package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verygoodisland/backend/internal/common/logger"
	"github.com/verygoodisland/backend/internal/user/domain"
)

type innerMock struct {
	FindByIDFunc    func(ctx context.Context, id int64) (domain.User, error)
	UpdateFunc      func(ctx context.Context, id int64, patch domain.ProfilePatch) error
	UpdatePhotoFunc func(ctx context.Context, id int64, photo string) error
	DeleteFunc      func(ctx context.Context, id int64) error
}

func (m *innerMock) Create(_ context.Context, user domain.User) (int64, error) { return user.ID, nil }

func (m *innerMock) FindByUsername(_ context.Context, _ string) (domain.User, error) {
	return domain.User{}, ErrUserNotFound
}

func (m *innerMock) FindByID(ctx context.Context, id int64) (domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return domain.User{ID: id}, nil
}

func (m *innerMock) Update(ctx context.Context, id int64, patch domain.ProfilePatch) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, patch)
	}
	return nil
}

func (m *innerMock) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	if m.UpdatePhotoFunc != nil {
		return m.UpdatePhotoFunc(ctx, id, photo)
	}
	return nil
}

func (m *innerMock) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *innerMock) List(_ context.Context, page, pageSize int, _ string) (domain.UserPage, error) {
	return domain.UserPage{Page: page, PageSize: pageSize}, nil
}

// scriptedHook intercepts every redis command in process: no server, no
// dialing. Get commands are answered from getValue/getErr; everything else
// succeeds. Command names are recorded in order.
type scriptedHook struct {
	commands []string
	getValue string
	getErr   error
}

func (h *scriptedHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *scriptedHook) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		h.commands = append(h.commands, cmd.Name())
		if cmd.Name() == "get" {
			if h.getErr != nil {
				return h.getErr
			}
			cmd.(*redis.StringCmd).SetVal(h.getValue)
			return nil
		}
		return nil
	}
}

func (h *scriptedHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

// brokenHook fails every command, as an unreachable redis would.
type brokenHook struct{ err error }

func (h *brokenHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *brokenHook) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, _ redis.Cmder) error { return h.err }
}

func (h *brokenHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newCachedRepository(t *testing.T, inner Repository, hook redis.Hook) *CachedRepository {
	t.Helper()
	log, err := logger.New("", "test", "error")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(hook)

	return NewCachedRepository(inner, rdb, time.Minute, log)
}

func TestCachedFindByIDMissFillsCache(t *testing.T) {
	inner := &innerMock{
		FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
			return domain.User{ID: id, Username: "alice123"}, nil
		},
	}
	hook := &scriptedHook{getErr: redis.Nil}
	cached := newCachedRepository(t, inner, hook)

	user, err := cached.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "alice123", user.Username)
	assert.Equal(t, []string{"get", "set"}, hook.commands)
}

func TestCachedFindByIDHitSkipsStore(t *testing.T) {
	raw, err := json.Marshal(domain.User{ID: 7, Username: "cached99"})
	require.NoError(t, err)

	inner := &innerMock{
		FindByIDFunc: func(context.Context, int64) (domain.User, error) {
			t.Fatal("store must not be hit on a cache hit")
			return domain.User{}, nil
		},
	}
	cached := newCachedRepository(t, inner, &scriptedHook{getValue: string(raw)})

	user, err := cached.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "cached99", user.Username)
}

func TestCachedFindByIDCorruptEntryIsDropped(t *testing.T) {
	inner := &innerMock{
		FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
			return domain.User{ID: id, Username: "fresh123"}, nil
		},
	}
	hook := &scriptedHook{getValue: "not json at all"}
	cached := newCachedRepository(t, inner, hook)

	user, err := cached.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "fresh123", user.Username)
	assert.Equal(t, []string{"get", "del", "set"}, hook.commands)
}

func TestCachedFindByIDDegradesWhenCacheUnreachable(t *testing.T) {
	inner := &innerMock{
		FindByIDFunc: func(_ context.Context, id int64) (domain.User, error) {
			return domain.User{ID: id, Username: "alice123"}, nil
		},
	}
	cached := newCachedRepository(t, inner, &brokenHook{err: errors.New("connection refused")})

	user, err := cached.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "alice123", user.Username)
}

func TestCachedMutationsInvalidate(t *testing.T) {
	nickname := "Captain"
	hook := &scriptedHook{}
	cached := newCachedRepository(t, &innerMock{}, hook)
	ctx := context.Background()

	require.NoError(t, cached.Update(ctx, 7, domain.ProfilePatch{Nickname: &nickname}))
	require.NoError(t, cached.UpdatePhoto(ctx, 7, "new.png"))
	require.NoError(t, cached.Delete(ctx, 7))

	assert.Equal(t, []string{"del", "del", "del"}, hook.commands)
}

func TestCachedMutationFailureSkipsInvalidation(t *testing.T) {
	storeErr := errors.New("store down")
	hook := &scriptedHook{}
	cached := newCachedRepository(t, &innerMock{
		UpdatePhotoFunc: func(context.Context, int64, string) error { return storeErr },
	}, hook)

	err := cached.UpdatePhoto(context.Background(), 7, "new.png")
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, hook.commands)
}

func TestCachedMutationSucceedsWhenCacheUnreachable(t *testing.T) {
	cached := newCachedRepository(t, &innerMock{}, &brokenHook{err: errors.New("connection refused")})

	assert.NoError(t, cached.Delete(context.Background(), 7))
}
