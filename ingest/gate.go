// Package ingest coordinates document intake: it gates duplicate
// submissions, memoizes completed analyses, normalizes model output, and
// substitutes fixed fallback data so a submission always yields a
// renderable result.
package ingest

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"go-disasterai/types"
)

// Analyzer produces a finished result for a document. The gate does not care
// which model backs it.
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest, taskID, documentID string) (types.AnalysisResult, error)
}

// Publisher receives every result the gate admits.
type Publisher interface {
	Publish(res types.AnalysisResult)
}

// Starter is an optional Publisher extension notified the moment a
// submission is admitted, before any cache or model I/O.
type Starter interface {
	Started(taskID string)
}

// Gate is the single entry point for document ingestion.
type Gate struct {
	analyzer   Analyzer
	cache      *Cache
	publishers []Publisher

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewGate builds a gate. cache may be nil to disable memoization.
func NewGate(analyzer Analyzer, cache *Cache, publishers ...Publisher) *Gate {
	return &Gate{
		analyzer:   analyzer,
		cache:      cache,
		publishers: publishers,
		inflight:   make(map[string]struct{}),
	}
}

// NewTaskID mints a task identifier from the current wall clock.
func NewTaskID() string {
	return fmt.Sprintf("task_%d", time.Now().UnixMilli())
}

// BeginIngestion runs one submission end to end and never returns an error:
// an analyzer failure substitutes the fixed fallback result instead. The
// second return is false only when the identical document is already being
// ingested, which drops the duplicate rather than double-publishing.
func (g *Gate) BeginIngestion(ctx context.Context, req types.AnalysisRequest) (types.AnalysisResult, bool) {
	key := CacheKey(req.DocumentData, req.MimeType)

	g.mu.Lock()
	if _, busy := g.inflight[key]; busy {
		g.mu.Unlock()
		log.Printf("ingest: duplicate submission dropped (key %.12s)", key)
		return types.AnalysisResult{}, false
	}
	g.inflight[key] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.inflight, key)
		g.mu.Unlock()
	}()

	taskID := NewTaskID()
	documentID := "doc_" + taskID
	g.started(taskID)

	if g.cache != nil {
		if cached, ok := g.cache.Get(ctx, key); ok {
			cached.TaskID = taskID
			cached.DocumentID = documentID
			log.Printf("ingest: cache hit for task %s", taskID)
			g.publish(cached)
			return cached, true
		}
	}

	res, err := g.analyzer.Analyze(ctx, req, taskID, documentID)
	if err != nil {
		log.Printf("ingest: analysis failed for task %s, substituting fallback: %v", taskID, err)
		res = FallbackResult(taskID, documentID)
	} else if g.cache != nil {
		g.cache.Set(ctx, key, res)
	}

	g.publish(res)
	return res, true
}

func (g *Gate) started(taskID string) {
	for _, p := range g.publishers {
		if s, ok := p.(Starter); ok {
			s.Started(taskID)
		}
	}
}

func (g *Gate) publish(res types.AnalysisResult) {
	for _, p := range g.publishers {
		p.Publish(res)
	}
}
