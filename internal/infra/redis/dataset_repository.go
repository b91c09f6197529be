package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"eneagramas-site/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DatasetLoader fetches site content from a backing store (YAML file, Postgres).
type DatasetLoader interface {
	LoadDataset(ctx context.Context, datasetID string) (domain.Dataset, error)
}

// DatasetRepository caches datasets in Redis and falls back to a loader on
// cache miss. The dataset is stored as one JSON string:
//
//	SET site:dataset:{datasetID} {json} EX ttl
type DatasetRepository struct {
	client *redis.Client
	loader DatasetLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewDatasetRepository(client *redis.Client, loader DatasetLoader, ttl time.Duration) *DatasetRepository {
	return &DatasetRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *DatasetRepository) GetDataset(ctx context.Context, datasetID string) (domain.Dataset, error) {
	if ds, ok := r.cached(ctx, datasetID); ok {
		return ds, nil
	}

	result, err, _ := r.sf.Do(datasetID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if ds, ok := r.cached(ctx, datasetID); ok {
			return ds, nil
		}

		ds, err := r.loader.LoadDataset(ctx, datasetID)
		if err != nil {
			return domain.Dataset{}, err
		}

		if raw, err := json.Marshal(ds); err == nil {
			_ = r.client.Set(ctx, r.key(datasetID), raw, r.ttlWithJitter()).Err()
		}
		return ds, nil
	})
	if err != nil {
		return domain.Dataset{}, err
	}
	return result.(domain.Dataset), nil
}

// Invalidate drops the cached copy so the next read goes to the loader.
func (r *DatasetRepository) Invalidate(ctx context.Context, datasetID string) error {
	return r.client.Del(ctx, r.key(datasetID)).Err()
}

// cached treats redis.Nil, transport errors and corrupt entries as a miss.
func (r *DatasetRepository) cached(ctx context.Context, datasetID string) (domain.Dataset, bool) {
	raw, err := r.client.Get(ctx, r.key(datasetID)).Bytes()
	if err != nil {
		return domain.Dataset{}, false
	}
	var ds domain.Dataset
	if err := json.Unmarshal(raw, &ds); err != nil {
		return domain.Dataset{}, false
	}
	if err := ds.Validate(); err != nil {
		return domain.Dataset{}, false
	}
	return ds, true
}

func (r *DatasetRepository) key(datasetID string) string {
	return "site:dataset:" + datasetID
}

func (r *DatasetRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
