package types

// AlertPriority orders alerts for delivery and display.
type AlertPriority int

const (
	PriorityLow AlertPriority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// Name returns the lowercase priority label used on the wire.
func (p AlertPriority) Name() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// AlertChannel is a delivery mechanism for an alert.
type AlertChannel string

const (
	ChannelWebhook    AlertChannel = "webhook"
	ChannelEmail      AlertChannel = "email"
	ChannelSMS        AlertChannel = "sms"
	ChannelMobilePush AlertChannel = "mobile_push"
)

// AllAlertChannels lists every supported delivery channel.
var AllAlertChannels = []AlertChannel{ChannelWebhook, ChannelEmail, ChannelSMS, ChannelMobilePush}

// AlertMessage is an outbound notification generated from a disaster event.
type AlertMessage struct {
	AlertID        string         `json:"alert_id" firestore:"alertId"`
	EventID        string         `json:"event_id" firestore:"eventId"`
	DisasterType   DisasterType   `json:"disaster_type" firestore:"disasterType"`
	Location       string         `json:"location" firestore:"location"`
	Coordinates    [2]float64     `json:"coordinates" firestore:"coordinates"`
	AlertLevel     AlertLevel     `json:"alert_level" firestore:"alertLevel"`
	Priority       AlertPriority  `json:"priority" firestore:"priority"`
	Message        string         `json:"message" firestore:"message"`
	Timestamp      string         `json:"timestamp" firestore:"timestamp"`
	Channels       []AlertChannel `json:"channels" firestore:"channels"`
	Recipients     []string       `json:"recipients,omitempty" firestore:"recipients,omitempty"`
	Acknowledged   bool           `json:"acknowledged" firestore:"acknowledged"`
	AcknowledgedAt string         `json:"acknowledged_at,omitempty" firestore:"acknowledgedAt,omitempty"`
}
