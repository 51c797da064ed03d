// Package alerts generates and tracks notifications for disaster events.
// Delivery is channel-based: every alert reaches the webhook channel, and
// higher alert levels fan out to email, SMS, and mobile push.
package alerts

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"go-disasterai/types"
)

// maxHistory bounds how many sent alerts are retained.
const maxHistory = 1000

// Sender delivers an alert over one channel. Implementations decide what a
// webhook or SMS actually is; the service only routes.
type Sender interface {
	Send(alert types.AlertMessage, channel types.AlertChannel) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(alert types.AlertMessage, channel types.AlertChannel) error

func (f SenderFunc) Send(alert types.AlertMessage, channel types.AlertChannel) error {
	return f(alert, channel)
}

// Service builds, sends, and acknowledges alerts.
type Service struct {
	sender Sender

	mu        sync.RWMutex
	active    map[string]types.AlertMessage
	sent      []types.AlertMessage
	callbacks []func(types.AlertMessage)
}

// NewService builds an alert service. sender may be nil, in which case
// delivery is log-only.
func NewService(sender Sender) *Service {
	return &Service{
		sender: sender,
		active: make(map[string]types.AlertMessage),
	}
}

// PriorityFor maps an alert level to delivery priority.
func PriorityFor(level types.AlertLevel) types.AlertPriority {
	switch level {
	case types.AlertBlack, types.AlertRed:
		return types.PriorityCritical
	case types.AlertOrange:
		return types.PriorityHigh
	case types.AlertYellow:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}

// ChannelsFor selects delivery channels by alert level. The webhook channel
// always participates so downstream systems see every alert.
func ChannelsFor(level types.AlertLevel) []types.AlertChannel {
	channels := []types.AlertChannel{types.ChannelWebhook}
	switch level {
	case types.AlertRed, types.AlertBlack:
		channels = append(channels, types.ChannelEmail, types.ChannelSMS, types.ChannelMobilePush)
	case types.AlertOrange:
		channels = append(channels, types.ChannelEmail, types.ChannelMobilePush)
	case types.AlertYellow:
		channels = append(channels, types.ChannelEmail)
	}
	return channels
}

// ComposeMessage renders the human-readable notification body.
func ComposeMessage(evt types.DisasterEvent) string {
	var b strings.Builder
	b.WriteString("DISASTER ALERT\n")
	fmt.Fprintf(&b, "Type: %s\n", titleCase(string(evt.DisasterType)))
	fmt.Fprintf(&b, "Location: %s\n", evt.Location)
	fmt.Fprintf(&b, "Time: %s\n", evt.Timestamp)
	fmt.Fprintf(&b, "Severity: %s\n", strings.ToUpper(string(evt.AlertLevel)))
	if evt.Magnitude != 0 {
		fmt.Fprintf(&b, "Magnitude: %g\n", evt.Magnitude)
	}
	if evt.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", evt.Description)
	}
	b.WriteString("\nStay safe and follow local emergency instructions.")
	return b.String()
}

// CreateFromEvent builds an alert for a disaster event and registers it as
// active.
func (s *Service) CreateFromEvent(evt types.DisasterEvent, recipients []string) types.AlertMessage {
	alert := types.AlertMessage{
		AlertID:      "alert_" + evt.EventID,
		EventID:      evt.EventID,
		DisasterType: evt.DisasterType,
		Location:     evt.Location,
		Coordinates:  evt.Coordinates,
		AlertLevel:   evt.AlertLevel,
		Priority:     PriorityFor(evt.AlertLevel),
		Message:      ComposeMessage(evt),
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Channels:     ChannelsFor(evt.AlertLevel),
		Recipients:   dedupe(recipients),
	}

	s.mu.Lock()
	s.active[alert.AlertID] = alert
	s.mu.Unlock()

	log.Printf("alerts: created %s for %s at %s (priority %s)",
		alert.AlertID, alert.DisasterType, alert.Location, alert.Priority.Name())
	return alert
}

// Send pushes an alert through each of its channels, then archives it.
// Returns false if any channel failed; the alert is archived either way.
func (s *Service) Send(alert types.AlertMessage) bool {
	ok := true
	for _, channel := range alert.Channels {
		if s.sender == nil {
			log.Printf("alerts: no sender configured, skipping %s delivery of %s", channel, alert.AlertID)
			continue
		}
		if err := s.sender.Send(alert, channel); err != nil {
			log.Printf("alerts: %s delivery of %s failed: %v", channel, alert.AlertID, err)
			ok = false
		}
	}

	s.mu.Lock()
	s.sent = append(s.sent, alert)
	if len(s.sent) > maxHistory {
		s.sent = s.sent[len(s.sent)-maxHistory:]
	}
	callbacks := make([]func(types.AlertMessage), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(alert)
	}
	return ok
}

// ProcessEvent is the create-then-send path used when a new disaster event
// lands.
func (s *Service) ProcessEvent(evt types.DisasterEvent, recipients []string) types.AlertMessage {
	alert := s.CreateFromEvent(evt, recipients)
	s.Send(alert)
	return alert
}

// OnAlert registers a callback invoked after every send.
func (s *Service) OnAlert(fn func(types.AlertMessage)) {
	s.mu.Lock()
	s.callbacks = append(s.callbacks, fn)
	s.mu.Unlock()
}

// Acknowledge marks an alert as seen, in the active set or in the history.
func (s *Service) Acknowledge(alertID string) bool {
	now := time.Now().UTC().Format(time.RFC3339)

	s.mu.Lock()
	defer s.mu.Unlock()

	if alert, ok := s.active[alertID]; ok {
		alert.Acknowledged = true
		alert.AcknowledgedAt = now
		s.active[alertID] = alert
		return true
	}
	for i := range s.sent {
		if s.sent[i].AlertID == alertID {
			s.sent[i].Acknowledged = true
			s.sent[i].AcknowledgedAt = now
			return true
		}
	}
	return false
}

// Get returns one alert by ID.
func (s *Service) Get(alertID string) (types.AlertMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if alert, ok := s.active[alertID]; ok {
		return alert, true
	}
	for _, alert := range s.sent {
		if alert.AlertID == alertID {
			return alert, true
		}
	}
	return types.AlertMessage{}, false
}

// Active returns up to limit active alerts.
func (s *Service) Active(limit int) []types.AlertMessage {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.AlertMessage, 0, len(s.active))
	for _, alert := range s.active {
		out = append(out, alert)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Sent returns the most recent sent alerts, newest last.
func (s *Service) Sent(limit int) []types.AlertMessage {
	if limit <= 0 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	sent := s.sent
	if len(sent) > limit {
		sent = sent[len(sent)-limit:]
	}
	out := make([]types.AlertMessage, len(sent))
	copy(out, sent)
	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
