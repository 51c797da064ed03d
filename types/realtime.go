package types

// Streaming message types delivered over the websocket feed.
const (
	StreamDisasterEvent  = "disaster_event"
	StreamAlert          = "alert"
	StreamSystemStats    = "system_stats"
	StreamAnalysisStatus = "analysis_status"
	StreamConnection     = "connection"
	StreamSubscription   = "subscription"
	StreamPong           = "pong"
)

// Streaming actions.
const (
	ActionNew     = "new"
	ActionUpdate  = "update"
	ActionStarted = "started"
)

// StreamMessage is the envelope for every message pushed to websocket clients.
// Timestamp and Category are stamped by the hub at broadcast time.
type StreamMessage struct {
	Type      string      `json:"type"`
	Action    string      `json:"action,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Status    string      `json:"status,omitempty"`
	Category  string      `json:"category,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// ClientMessage is what the hub accepts from a connected client.
type ClientMessage struct {
	Type     string `json:"type"` // subscribe|unsubscribe|ping
	Category string `json:"category,omitempty"`
}

// GeocodingResult resolves a location name to coordinates.
type GeocodingResult struct {
	LocationName     string  `json:"location_name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Confidence       float64 `json:"confidence"`
	FormattedAddress string  `json:"formatted_address,omitempty"`
	Country          string  `json:"country,omitempty"`
	Region           string  `json:"region,omitempty"`
}

// BatchGeocodingResult holds per-location outcomes of a batch request.
type BatchGeocodingResult struct {
	Results []GeocodingResult `json:"results"`
	Failed  []string          `json:"failed"`
}
