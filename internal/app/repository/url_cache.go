package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"github.com/redis/go-redis/v9"
)

const urlCacheTTL = 10 * time.Minute

// cachedURLRepository caches GetByID lookups in Redis. URL records are
// immutable after creation, so a cached entry can never go stale; the TTL just
// bounds memory. All other operations pass through.
type cachedURLRepository struct {
	URLRepository
	rdb *redis.Client
}

// NewCachedURLRepository wraps inner with a Redis read-through cache.
func NewCachedURLRepository(inner URLRepository, rdb *redis.Client) URLRepository {
	return &cachedURLRepository{URLRepository: inner, rdb: rdb}
}

func (r *cachedURLRepository) GetByID(ctx context.Context, id int64) (*model.URL, error) {
	key := fmt.Sprintf("url:id:%d", id)

	if data, err := r.rdb.Get(ctx, key).Bytes(); err == nil {
		var url model.URL
		if err := json.Unmarshal(data, &url); err == nil {
			return &url, nil
		}
	}

	url, err := r.URLRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(url); err == nil {
		// Best effort; a failed cache write just means a DB hit next time.
		r.rdb.Set(ctx, key, data, urlCacheTTL)
	}

	return url, nil
}
