package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verygoodisland/backend/internal/common/logger"
	"github.com/verygoodisland/backend/internal/user/domain"
)

// CachedRepository decorates a Repository with a redis read cache for
// FindByID. Username lookups stay on the database: they back authentication
// and must always see fresh state. Cache failures degrade to the inner
// store, never to a request failure.
type CachedRepository struct {
	inner Repository
	rdb   *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedRepository(inner Repository, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedRepository {
	return &CachedRepository{
		inner: inner,
		rdb:   rdb,
		ttl:   ttl,
		log:   log,
	}
}

func (c *CachedRepository) key(id int64) string {
	return fmt.Sprintf("user:id:%d", id)
}

func (c *CachedRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	raw, err := c.rdb.Get(ctx, c.key(id)).Bytes()
	if err == nil {
		var user domain.User
		if unmarshalErr := json.Unmarshal(raw, &user); unmarshalErr == nil {
			return user, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		c.rdb.Del(ctx, c.key(id))
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warnf("user cache read failed for id=%d: %v", id, err)
	}

	user, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	if raw, marshalErr := json.Marshal(user); marshalErr == nil {
		if setErr := c.rdb.Set(ctx, c.key(id), raw, c.ttl).Err(); setErr != nil {
			c.log.Warnf("user cache write failed for id=%d: %v", id, setErr)
		}
	}

	return user, nil
}

func (c *CachedRepository) Create(ctx context.Context, user domain.User) (int64, error) {
	return c.inner.Create(ctx, user)
}

func (c *CachedRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return c.inner.FindByUsername(ctx, username)
}

func (c *CachedRepository) Update(ctx context.Context, id int64, patch domain.ProfilePatch) error {
	if err := c.inner.Update(ctx, id, patch); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	if err := c.inner.UpdatePhoto(ctx, id, photo); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedRepository) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachedRepository) List(ctx context.Context, page, pageSize int, factor string) (domain.UserPage, error) {
	return c.inner.List(ctx, page, pageSize, factor)
}

func (c *CachedRepository) invalidate(ctx context.Context, id int64) {
	if err := c.rdb.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warnf("user cache invalidation failed for id=%d: %v", id, err)
	}
}
