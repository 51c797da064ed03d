package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"go-disasterai/metrics"
	"go-disasterai/types"
)

// DefaultCacheTTL matches the document analysis cache lifetime.
const DefaultCacheTTL = time.Hour

// Cache memoizes completed analyses keyed by document content. When Redis is
// configured it is the primary store; an in-process map covers the
// no-Redis deployment and any Redis outage.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration

	mu  sync.Mutex
	mem map[string]memEntry
}

// memEntry stamps a cached result so the memory tier honors the TTL the same
// way Redis does.
type memEntry struct {
	res     types.AnalysisResult
	expires time.Time
}

// NewCache wraps an optional Redis client. Pass nil to run memory-only.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		rdb: rdb,
		ttl: ttl,
		mem: make(map[string]memEntry),
	}
}

// CacheKey derives the lookup key from the document payload. Only a prefix
// of the base64 data feeds the hash; full documents can run to tens of
// megabytes.
func CacheKey(documentData, mimeType string) string {
	prefix := documentData
	if len(prefix) > 1000 {
		prefix = prefix[:1000]
	}
	sum := sha256.Sum256([]byte(mimeType + ":" + prefix))
	return "analysis:" + hex.EncodeToString(sum[:])
}

// Get returns a cached result if one exists.
func (c *Cache) Get(ctx context.Context, key string) (types.AnalysisResult, bool) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var res types.AnalysisResult
			if jsonErr := json.Unmarshal(raw, &res); jsonErr == nil {
				metrics.CacheHitsTotal.Inc()
				return res, true
			}
		} else if err != redis.Nil {
			log.Printf("analysis cache: redis get failed, using memory: %v", err)
		}
	}

	c.mu.Lock()
	ent, ok := c.mem[key]
	if ok && time.Now().After(ent.expires) {
		delete(c.mem, key)
		ok = false
	}
	c.mu.Unlock()

	if ok {
		metrics.CacheHitsTotal.Inc()
	} else {
		metrics.CacheMissesTotal.Inc()
	}
	return ent.res, ok
}

// Set stores a result in both tiers.
func (c *Cache) Set(ctx context.Context, key string, res types.AnalysisResult) {
	if c.rdb != nil {
		raw, err := json.Marshal(res)
		if err == nil {
			if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Printf("analysis cache: redis set failed: %v", err)
			}
		}
	}

	c.mu.Lock()
	c.mem[key] = memEntry{res: res, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}
