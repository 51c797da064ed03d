// Package external pulls live hazard data from public feeds: USGS
// earthquake GeoJSON and the GDACS RSS stream. Responses are cached for five
// minutes so the poller can run aggressively without hammering the sources.
package external

import (
	"context"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"go-disasterai/metrics"
	"go-disasterai/types"
)

const (
	usgsFeedBase = "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary"
	gdacsFeedURL = "https://www.gdacs.org/xml/rss.xml"

	cacheTTL       = 5 * time.Minute
	requestTimeout = 30 * time.Second

	maxUSGSEvents  = 50
	maxGDACSEvents = 30
)

type cacheEntry struct {
	events  []types.DisasterEvent
	fetched time.Time
}

// Service fetches and caches external disaster feeds.
type Service struct {
	client *http.Client

	// Feed URLs are fields so tests can point them at a local server.
	usgsBase string
	gdacsURL string

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewService builds a feed service with production endpoints.
func NewService() *Service {
	return &Service{
		client:   &http.Client{Timeout: requestTimeout},
		usgsBase: usgsFeedBase,
		gdacsURL: gdacsFeedURL,
		cache:    make(map[string]cacheEntry),
	}
}

// FetchAll combines every source, newest first. Source failures are logged
// and skipped so one feed outage does not blank the map.
func (s *Service) FetchAll(ctx context.Context) []types.DisasterEvent {
	var all []types.DisasterEvent

	usgs, err := s.FetchUSGS(ctx, "day")
	if err != nil {
		log.Printf("external: USGS fetch failed: %v", err)
		metrics.FeedFetchTotal.WithLabelValues("usgs", "error").Inc()
	} else {
		metrics.FeedFetchTotal.WithLabelValues("usgs", "ok").Inc()
	}
	all = append(all, usgs...)

	gdacs, err := s.FetchGDACS(ctx)
	if err != nil {
		log.Printf("external: GDACS fetch failed: %v", err)
		metrics.FeedFetchTotal.WithLabelValues("gdacs", "error").Inc()
	} else {
		metrics.FeedFetchTotal.WithLabelValues("gdacs", "ok").Inc()
	}
	all = append(all, gdacs...)

	sort.Slice(all, func(i, j int) bool { return all[i].Timestamp > all[j].Timestamp })
	return all
}

func (s *Service) cached(key string) ([]types.DisasterEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[key]
	if !ok || time.Since(entry.fetched) >= cacheTTL {
		return nil, false
	}
	return entry.events, true
}

func (s *Service) store(key string, events []types.DisasterEvent) {
	s.mu.Lock()
	s.cache[key] = cacheEntry{events: events, fetched: time.Now()}
	s.mu.Unlock()
}
