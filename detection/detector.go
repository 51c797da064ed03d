// Package detection turns analysis results into classified disaster events
// and tracks them across their lifecycle.
package detection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"go-disasterai/geo"
	"go-disasterai/types"
)

// Risk score thresholds mapping to alert levels.
const (
	redRiskThreshold    = 80
	orangeRiskThreshold = 60
	yellowRiskThreshold = 40
)

// Richter scale bounds used to reject nonsense magnitudes.
const (
	minMagnitude = 1.0
	maxMagnitude = 10.0
)

// disasterKeywords drives entity classification. An entity may seed one
// event per matching type.
var disasterKeywords = map[types.DisasterType][]string{
	types.Earthquake: {"earthquake", "seismic", "quake", "magnitude", "richter"},
	types.Flood:      {"flood", "flooding", "inundation", "overflow", "water level"},
	types.Wildfire:   {"wildfire", "fire", "burn", "smoke", "flame", "forest fire"},
	types.Hurricane:  {"hurricane", "cyclone", "typhoon", "storm", "wind"},
	types.Tsunami:    {"tsunami", "wave", "ocean", "coastal", "tidal"},
	types.Volcanic:   {"volcano", "eruption", "ash", "lava", "magma"},
	types.Drought:    {"drought", "dry", "arid", "water shortage", "desertification"},
	types.Landslide:  {"landslide", "mudslide", "rockfall", "slope failure"},
	types.Blizzard:   {"blizzard", "snow", "ice", "winter storm"},
	types.HeatWave:   {"heat wave", "temperature", "hot", "scorching"},
	types.AirQuality: {"pollution", "smog", "air quality", "toxic gas"},
}

// inferenceOrder fixes the priority when a description matches several
// types.
var inferenceOrder = []struct {
	dtype types.DisasterType
	words []string
}{
	{types.Earthquake, []string{"earthquake", "seismic", "quake"}},
	{types.Flood, []string{"flood", "inundation", "water"}},
	{types.Wildfire, []string{"fire", "wildfire", "burn"}},
	{types.Hurricane, []string{"hurricane", "cyclone", "typhoon", "storm"}},
	{types.Tsunami, []string{"tsunami", "wave", "ocean"}},
	{types.Volcanic, []string{"volcano", "eruption", "ash"}},
	{types.Drought, []string{"drought", "dry", "water shortage"}},
	{types.Landslide, []string{"landslide", "mudslide", "rockfall"}},
	{types.Blizzard, []string{"blizzard", "snow", "ice"}},
	{types.HeatWave, []string{"heat wave", "temperature"}},
	{types.AirQuality, []string{"pollution", "smog", "air quality"}},
}

var magnitudePattern = regexp.MustCompile(`(?:magnitude|mag\.?)\s*(\d+(?:\.\d+)?)`)

// DetectFromAnalysis extracts disaster events from one analysis result. Both
// the entity list and the geospatial features are mined; events failing
// validation are dropped.
func DetectFromAnalysis(res types.AnalysisResult) []types.DisasterEvent {
	events := append(entityEvents(res), featureEvents(res)...)

	valid := events[:0]
	for _, evt := range events {
		if validEvent(evt) {
			valid = append(valid, evt)
		}
	}
	return valid
}

// entityEvents seeds events from disaster-related named entities that can be
// pinned to a mapped feature.
func entityEvents(res types.AnalysisResult) []types.DisasterEvent {
	var events []types.DisasterEvent
	for _, entity := range res.Entities {
		lower := strings.ToLower(entity.Text)
		for dtype, keywords := range disasterKeywords {
			if !containsAny(lower, keywords) {
				continue
			}
			lng, lat, ok := coordinatesFor(res, entity.Text)
			if !ok {
				continue
			}
			events = append(events, types.DisasterEvent{
				EventID:      "evt_" + shortID(),
				DisasterType: dtype,
				Location:     entity.Text,
				Coordinates:  [2]float64{lng, lat},
				Timestamp:    res.Timestamp,
				AlertLevel:   AlertLevelForRisk(res.RiskScore),
				Status:       types.StatusActive,
				Description:  fmt.Sprintf("Potential %s detected in %s", dtype, entity.Text),
				Magnitude:    extractMagnitude(res.Summary),
				Source:       "analysis",
			})
		}
	}
	return events
}

// featureEvents seeds events from mapped zones whose descriptions read like
// damage reports.
func featureEvents(res types.AnalysisResult) []types.DisasterEvent {
	var events []types.DisasterEvent
	for _, feat := range res.GeospatialData.Features {
		desc := strings.ToLower(feat.Properties.Description)
		if !strings.Contains(desc, "damage") &&
			!strings.Contains(desc, "emergency") &&
			!strings.Contains(desc, "warning") {
			continue
		}

		lng, lat, ok := geo.Centroid(feat.Geometry)
		if !ok {
			continue
		}

		events = append(events, types.DisasterEvent{
			EventID:      "geo_evt_" + shortID(),
			DisasterType: InferDisasterType(feat.Properties.Description),
			Location:     feat.Properties.Name,
			Coordinates:  [2]float64{lng, lat},
			Timestamp:    res.Timestamp,
			AlertLevel:   severityAlertLevel(feat.Properties.Severity),
			Status:       types.StatusActive,
			Description:  feat.Properties.Description,
			AffectedArea: feat.Properties.Confidence,
			Source:       "analysis",
		})
	}
	return events
}

// InferDisasterType classifies a free-text description.
func InferDisasterType(description string) types.DisasterType {
	lower := strings.ToLower(description)
	for _, entry := range inferenceOrder {
		if containsAny(lower, entry.words) {
			return entry.dtype
		}
	}
	return types.OtherHazard
}

// AlertLevelForRisk maps an overall risk score to an alert level.
func AlertLevelForRisk(riskScore int) types.AlertLevel {
	switch {
	case riskScore >= redRiskThreshold:
		return types.AlertRed
	case riskScore >= orangeRiskThreshold:
		return types.AlertOrange
	case riskScore >= yellowRiskThreshold:
		return types.AlertYellow
	default:
		return types.AlertGreen
	}
}

// severityAlertLevel carries a zone severity over to the alert scale.
func severityAlertLevel(sev types.Severity) types.AlertLevel {
	switch sev {
	case types.SeverityHigh:
		return types.AlertRed
	case types.SeverityMedium:
		return types.AlertOrange
	default:
		return types.AlertYellow
	}
}

// extractMagnitude pulls a Richter magnitude out of the briefing text, if
// one is stated. Returns 0 when absent.
func extractMagnitude(summary string) float64 {
	match := magnitudePattern.FindStringSubmatch(strings.ToLower(summary))
	if len(match) < 2 {
		return 0
	}
	var mag float64
	if _, err := fmt.Sscanf(match[1], "%f", &mag); err != nil {
		return 0
	}
	return mag
}

// coordinatesFor finds the centroid of the feature matching a location name.
func coordinatesFor(res types.AnalysisResult, location string) (lng, lat float64, ok bool) {
	target := strings.ToLower(location)
	for _, feat := range res.GeospatialData.Features {
		name := strings.ToLower(feat.Properties.Name)
		if strings.Contains(name, target) || strings.Contains(target, name) {
			return geo.Centroid(feat.Geometry)
		}
	}
	return 0, 0, false
}

// validEvent rejects events with junk locations, out-of-range coordinates,
// or impossible magnitudes.
func validEvent(evt types.DisasterEvent) bool {
	if len(strings.TrimSpace(evt.Location)) < 2 {
		return false
	}
	lng, lat := evt.Coordinates[0], evt.Coordinates[1]
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return false
	}
	if evt.DisasterType == types.Earthquake && evt.Magnitude != 0 {
		if evt.Magnitude < minMagnitude || evt.Magnitude > maxMagnitude {
			return false
		}
	}
	return true
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
