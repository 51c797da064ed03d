package detection

import (
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"go-disasterai/types"
)

// historicalStatsWindow bounds how many concluded events feed the type
// distribution.
const historicalStatsWindow = 365

// Stats summarizes the monitored event population.
type Stats struct {
	TotalActiveEvents     int            `json:"total_active_events"`
	TotalHistoricalEvents int            `json:"total_historical_events"`
	DisasterTypeCounts    map[string]int `json:"disaster_type_distribution"`
	CurrentAlertLevels    map[string]int `json:"current_alert_levels"`
	RecentActivity        int            `json:"recent_activity"`
	LastUpdated           string         `json:"last_updated"`
}

// Service tracks disaster events from detection through conclusion.
type Service struct {
	mu         sync.RWMutex
	active     map[string]types.DisasterEvent
	historical []types.DisasterEvent
	areaSubs   map[string][]string // area -> subscriber IDs
}

// NewService builds an empty event registry.
func NewService() *Service {
	return &Service{
		active:   make(map[string]types.DisasterEvent),
		areaSubs: make(map[string][]string),
	}
}

// Ingest runs detection on an analysis result and registers every validated
// event as active.
func (s *Service) Ingest(res types.AnalysisResult) []types.DisasterEvent {
	events := DetectFromAnalysis(res)

	s.mu.Lock()
	for _, evt := range events {
		s.active[evt.EventID] = evt
		log.Printf("detection: %s event at %s (level %s)", evt.DisasterType, evt.Location, evt.AlertLevel)
	}
	s.mu.Unlock()

	return events
}

// Register adds an externally sourced event (USGS, GDACS) to the active set.
// Re-registering an existing ID overwrites it, which lets feeds refresh
// alert levels in place.
func (s *Service) Register(evt types.DisasterEvent) {
	s.mu.Lock()
	s.active[evt.EventID] = evt
	s.mu.Unlock()
}

// ActiveEvents returns active events, newest first, optionally filtered.
// Empty filter values match everything.
func (s *Service) ActiveEvents(dtype types.DisasterType, level types.AlertLevel) []types.DisasterEvent {
	s.mu.RLock()
	events := make([]types.DisasterEvent, 0, len(s.active))
	for _, evt := range s.active {
		if dtype != "" && evt.DisasterType != dtype {
			continue
		}
		if level != "" && evt.AlertLevel != level {
			continue
		}
		events = append(events, evt)
	}
	s.mu.RUnlock()

	sortByTimestamp(events)
	return events
}

// HistoricalEvents returns concluded events from the last daysBack days.
func (s *Service) HistoricalEvents(daysBack int) []types.DisasterEvent {
	if daysBack <= 0 {
		daysBack = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -daysBack).Format(time.RFC3339)

	s.mu.RLock()
	events := make([]types.DisasterEvent, 0, len(s.historical))
	for _, evt := range s.historical {
		if evt.Timestamp >= cutoff {
			events = append(events, evt)
		}
	}
	s.mu.RUnlock()

	sortByTimestamp(events)
	return events
}

// Timeline returns every event, active or historical, whose location
// mentions the given place.
func (s *Service) Timeline(location string) []types.DisasterEvent {
	target := strings.ToLower(location)

	s.mu.RLock()
	var events []types.DisasterEvent
	for _, evt := range s.active {
		if strings.Contains(strings.ToLower(evt.Location), target) {
			events = append(events, evt)
		}
	}
	for _, evt := range s.historical {
		if strings.Contains(strings.ToLower(evt.Location), target) {
			events = append(events, evt)
		}
	}
	s.mu.RUnlock()

	sortByTimestamp(events)
	return events
}

// UpdateStatus moves an event through its lifecycle. Concluded and
// false-alarm events leave the active set and join the history.
func (s *Service) UpdateStatus(eventID string, status types.EventStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	evt, ok := s.active[eventID]
	if !ok {
		return false
	}
	evt.Status = status

	if status == types.StatusConcluded || status == types.StatusFalseAlarm {
		delete(s.active, eventID)
		s.historical = append(s.historical, evt)
	} else {
		s.active[eventID] = evt
	}
	return true
}

// Subscribe registers a subscriber for alerts in an area. Returns false if
// already subscribed.
func (s *Service) Subscribe(area, subscriberID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.areaSubs[area] {
		if id == subscriberID {
			return false
		}
	}
	s.areaSubs[area] = append(s.areaSubs[area], subscriberID)
	return true
}

// Unsubscribe removes a subscriber from an area. Returns false if there was
// no such subscription.
func (s *Service) Unsubscribe(area, subscriberID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs := s.areaSubs[area]
	for i, id := range subs {
		if id == subscriberID {
			s.areaSubs[area] = append(subs[:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Summary computes the statistics block served on the monitoring endpoint.
func (s *Service) Summary() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	typeCounts := make(map[string]int)
	for _, evt := range s.active {
		typeCounts[string(evt.DisasterType)]++
	}
	hist := s.historical
	if len(hist) > historicalStatsWindow {
		hist = hist[len(hist)-historicalStatsWindow:]
	}
	for _, evt := range hist {
		typeCounts[string(evt.DisasterType)]++
	}

	alertCounts := make(map[string]int)
	recentCutoff := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	recent := 0
	for _, evt := range s.active {
		alertCounts[string(evt.AlertLevel)]++
		if evt.Timestamp >= recentCutoff {
			recent++
		}
	}

	return Stats{
		TotalActiveEvents:     len(s.active),
		TotalHistoricalEvents: len(s.historical),
		DisasterTypeCounts:    typeCounts,
		CurrentAlertLevels:    alertCounts,
		RecentActivity:        recent,
		LastUpdated:           time.Now().UTC().Format(time.RFC3339),
	}
}

func sortByTimestamp(events []types.DisasterEvent) {
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp > events[j].Timestamp
	})
}
