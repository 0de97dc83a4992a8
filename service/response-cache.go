package service

import (
	"encoding/json"
	"errors"
	"sync"
	"tarkovapi/metrics"
	"tarkovapi/repository"
	"tarkovapi/utils"
	"time"

	"github.com/gin-contrib/cache/persistence"
	"github.com/sirupsen/logrus"
)

// Schedule reports when the next ingestion of a collection is due. ok is
// false when no ingestion is scheduled.
type Schedule interface {
	UntilNext(collection repository.Collection) (until time.Duration, ok bool)
}

// ResponseCache stores serialized responses until the next ingestion of the
// collection they were read from. A nil store disables it: every Get misses
// and every Set is dropped.
type ResponseCache struct {
	store       persistence.CacheStore
	schedule    Schedule
	fallbackTTL time.Duration
	pending     sync.WaitGroup
}

func NewResponseCache(store persistence.CacheStore, schedule Schedule, fallbackTTL time.Duration) *ResponseCache {
	return &ResponseCache{
		store:       store,
		schedule:    schedule,
		fallbackTTL: fallbackTTL,
	}
}

func (c *ResponseCache) Enabled() bool {
	return c != nil && c.store != nil
}

func (c *ResponseCache) TTL(collection repository.Collection) time.Duration {
	if c.schedule != nil {
		if until, ok := c.schedule.UntilNext(collection); ok {
			return max(until, time.Second)
		}
	}
	return c.fallbackTTL
}

func key(collection repository.Collection, k string) string {
	return string(collection) + ":" + k
}

func (c *ResponseCache) Get(collection repository.Collection, k string) ([]byte, bool) {
	if !c.Enabled() {
		return nil, false
	}
	var payload []byte
	err := c.store.Get(key(collection, k), &payload)
	if err != nil {
		if !errors.Is(err, persistence.ErrCacheMiss) {
			utils.Log.WithError(err).WithField("key", k).Warn("response cache read failed")
		}
		metrics.CacheLookupCounter.WithLabelValues(string(collection), "miss").Inc()
		return nil, false
	}
	metrics.CacheLookupCounter.WithLabelValues(string(collection), "hit").Inc()
	return payload, true
}

func (c *ResponseCache) Set(collection repository.Collection, k string, payload []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.store.Set(key(collection, k), payload, c.TTL(collection)); err != nil {
		utils.Log.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"key":        k,
		}).Warn("response cache write failed")
	}
}

// SetAsync writes in the background. A repeated request may still miss until
// the write lands.
func (c *ResponseCache) SetAsync(collection repository.Collection, k string, payload []byte) {
	if !c.Enabled() {
		return
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.Set(collection, k, payload)
	}()
}

// Wait blocks until every background write has finished.
func (c *ResponseCache) Wait() {
	if c == nil {
		return
	}
	c.pending.Wait()
}

// Load serves k from the cache, or runs load and caches its serialized
// result.
func (c *ResponseCache) Load(collection repository.Collection, k string, load func() (any, error)) ([]byte, error) {
	if payload, ok := c.Get(collection, k); ok {
		return payload, nil
	}
	value, err := load()
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	c.SetAsync(collection, k, payload)
	return payload, nil
}

// loadEach caches every entity under its own id so a batch that overlaps an
// earlier one only loads the remainder. The merged array is ordered by id and
// silently omits ids that load did not return.
func loadEach[T any](c *ResponseCache, collection repository.Collection, ids []string, load func(missing []string) ([]T, error), idOf func(T) string) ([]byte, error) {
	ids = utils.SortedUniques(ids)
	found := make(map[string]json.RawMessage, len(ids))
	missing := make([]string, 0)
	for _, id := range ids {
		if payload, ok := c.Get(collection, "id:"+id); ok {
			found[id] = payload
		} else {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		entities, err := load(missing)
		if err != nil {
			return nil, err
		}
		for _, entity := range entities {
			payload, err := json.Marshal(entity)
			if err != nil {
				return nil, err
			}
			id := idOf(entity)
			found[id] = payload
			c.SetAsync(collection, "id:"+id, payload)
		}
	}
	merged := make([]json.RawMessage, 0, len(found))
	for _, id := range ids {
		if payload, ok := found[id]; ok {
			merged = append(merged, payload)
		}
	}
	return json.Marshal(merged)
}
