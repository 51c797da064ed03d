package realtime

import (
	"context"
	"log"
	"time"

	"go-disasterai/types"
)

// maxAlertMessageLen bounds alert text pushed over the stream; the full body
// stays available on the REST API.
const maxAlertMessageLen = 200

// DefaultStatsInterval is how often system stats go out.
const DefaultStatsInterval = 30 * time.Second

// Notifier translates domain events into stream messages.
type Notifier struct {
	hub *Hub
}

// NewNotifier wraps a hub.
func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

// NotifyNewDisaster pushes a freshly detected event to disaster subscribers.
func (n *Notifier) NotifyNewDisaster(evt types.DisasterEvent) {
	n.hub.BroadcastToCategory(CategoryDisasters, types.StreamMessage{
		Type:   types.StreamDisasterEvent,
		Action: types.ActionNew,
		Data: map[string]interface{}{
			"event_id":      evt.EventID,
			"disaster_type": evt.DisasterType,
			"location":      evt.Location,
			"coordinates":   evt.Coordinates,
			"timestamp":     evt.Timestamp,
			"alert_level":   evt.AlertLevel,
			"magnitude":     evt.Magnitude,
			"description":   evt.Description,
		},
	})
}

// NotifyDisasterUpdate pushes a lifecycle change for a known event.
func (n *Notifier) NotifyDisasterUpdate(evt types.DisasterEvent) {
	n.hub.BroadcastToCategory(CategoryDisasters, types.StreamMessage{
		Type:   types.StreamDisasterEvent,
		Action: types.ActionUpdate,
		Data: map[string]interface{}{
			"event_id":      evt.EventID,
			"disaster_type": evt.DisasterType,
			"location":      evt.Location,
			"coordinates":   evt.Coordinates,
			"timestamp":     evt.Timestamp,
			"alert_level":   evt.AlertLevel,
			"status":        evt.Status,
			"magnitude":     evt.Magnitude,
			"description":   evt.Description,
		},
	})
}

// NotifyNewAlert pushes an alert to alert subscribers, truncating long
// bodies.
func (n *Notifier) NotifyNewAlert(alert types.AlertMessage) {
	message := alert.Message
	if len(message) > maxAlertMessageLen {
		message = message[:maxAlertMessageLen] + "..."
	}

	n.hub.BroadcastToCategory(CategoryAlerts, types.StreamMessage{
		Type:   types.StreamAlert,
		Action: types.ActionNew,
		Data: map[string]interface{}{
			"alert_id":      alert.AlertID,
			"event_id":      alert.EventID,
			"disaster_type": alert.DisasterType,
			"location":      alert.Location,
			"alert_level":   alert.AlertLevel,
			"priority":      alert.Priority,
			"message":       message,
			"timestamp":     alert.Timestamp,
		},
	})
}

// NotifyAnalysisStarted tells system subscribers a document analysis has
// been admitted, before any model call runs.
func (n *Notifier) NotifyAnalysisStarted(taskID string) {
	n.hub.BroadcastToCategory(CategorySystem, types.StreamMessage{
		Type:   types.StreamAnalysisStatus,
		Action: types.ActionStarted,
		Data: map[string]interface{}{
			"task_id": taskID,
			"status":  "processing",
		},
	})
}

// NotifySystemStats pushes a stats snapshot to system subscribers.
func (n *Notifier) NotifySystemStats(stats interface{}) {
	n.hub.BroadcastToCategory(CategorySystem, types.StreamMessage{
		Type:   types.StreamSystemStats,
		Action: types.ActionUpdate,
		Data:   stats,
	})
}

// RunPeriodicStats broadcasts stats on the interval until ctx is cancelled.
func (n *Notifier) RunPeriodicStats(ctx context.Context, interval time.Duration, statsFn func() interface{}) {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("realtime: periodic stats stopped")
			return
		case <-ticker.C:
			n.NotifySystemStats(statsFn())
		}
	}
}
