package types

// DisasterType categorizes a monitored hazard.
type DisasterType string

const (
	Earthquake  DisasterType = "earthquake"
	Flood       DisasterType = "flood"
	Wildfire    DisasterType = "wildfire"
	Hurricane   DisasterType = "hurricane"
	Cyclone     DisasterType = "cyclone"
	Typhoon     DisasterType = "typhoon"
	Tsunami     DisasterType = "tsunami"
	Volcanic    DisasterType = "volcanic"
	Drought     DisasterType = "drought"
	Landslide   DisasterType = "landslide"
	Blizzard    DisasterType = "blizzard"
	Storm       DisasterType = "storm"
	Tornado     DisasterType = "tornado"
	HeatWave    DisasterType = "heat_wave"
	AirQuality  DisasterType = "air_quality"
	OtherHazard DisasterType = "other"
)

// AllDisasterTypes lists every supported hazard, in display order.
var AllDisasterTypes = []DisasterType{
	Earthquake, Flood, Wildfire, Hurricane, Cyclone, Typhoon, Tsunami,
	Volcanic, Drought, Landslide, Blizzard, Storm, Tornado, HeatWave,
	AirQuality, OtherHazard,
}

// AlertLevel follows the GDACS-style color scale, most severe first.
type AlertLevel string

const (
	AlertBlack  AlertLevel = "black"
	AlertRed    AlertLevel = "red"
	AlertOrange AlertLevel = "orange"
	AlertYellow AlertLevel = "yellow"
	AlertGreen  AlertLevel = "green"
)

// EventStatus tracks the lifecycle of a disaster event.
type EventStatus string

const (
	StatusActive     EventStatus = "active"
	StatusVerified   EventStatus = "verified"
	StatusConcluded  EventStatus = "concluded"
	StatusFalseAlarm EventStatus = "false_alarm"
)

// DisasterEvent is one detected or externally reported hazard occurrence.
// Coordinates are [lng, lat] to match the GeoJSON convention used everywhere
// else in the wire format.
type DisasterEvent struct {
	EventID      string       `json:"event_id" firestore:"eventId"`
	DisasterType DisasterType `json:"disaster_type" firestore:"disasterType"`
	Location     string       `json:"location" firestore:"location"`
	Coordinates  [2]float64   `json:"coordinates" firestore:"coordinates"`
	Timestamp    string       `json:"timestamp" firestore:"timestamp"`
	AlertLevel   AlertLevel   `json:"alert_level" firestore:"alertLevel"`
	Status       EventStatus  `json:"status" firestore:"status"`
	Magnitude    float64      `json:"magnitude,omitempty" firestore:"magnitude,omitempty"`
	Description  string       `json:"description,omitempty" firestore:"description,omitempty"`
	Source       string       `json:"source,omitempty" firestore:"source,omitempty"`
	AffectedArea string       `json:"affected_area,omitempty" firestore:"affectedArea,omitempty"`
}
