package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-disasterai/types"
)

func TestMemoryCacheHonorsTTL(t *testing.T) {
	cache := NewCache(nil, 25*time.Millisecond)
	key := CacheKey("ZG9j", "application/pdf")
	ctx := context.Background()

	cache.Set(ctx, key, types.AnalysisResult{Summary: "cached"})

	res, ok := cache.Get(ctx, key)
	require.True(t, ok)
	require.Equal(t, "cached", res.Summary)

	time.Sleep(40 * time.Millisecond)

	_, ok = cache.Get(ctx, key)
	require.False(t, ok)
}

func TestMemoryCacheDefaultTTL(t *testing.T) {
	cache := NewCache(nil, 0)
	require.Equal(t, DefaultCacheTTL, cache.ttl)
}
