package ingest

import (
	"time"

	"go-disasterai/geo"
	"go-disasterai/types"
)

// RawResult mirrors the JSON shape the model is prompted to return. Every
// field is optional; normalization fills the gaps.
type RawResult struct {
	Summary        string                  `json:"summary"`
	RiskScore      *float64                `json:"riskScore"`
	Entities       []RawEntity             `json:"entities"`
	Indicators     []string                `json:"indicators"`
	GeospatialData types.FeatureCollection `json:"geospatialData"`
}

// RawEntity is an entity as emitted by the model, label still a free string.
type RawEntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

const (
	defaultSummary   = "Analysis complete. Review the extracted data."
	defaultRiskScore = 50
)

var labelMap = map[string]types.EntityLabel{
	"ORG":   types.LabelOrganization,
	"LOC":   types.LabelLocation,
	"TECH":  types.LabelTech,
	"DMG":   types.LabelDamage,
	"URG":   types.LabelUrgency,
	"PER":   types.LabelPerson,
	"DATE":  types.LabelDate,
	"EVENT": types.LabelEvent,
}

var severityMap = map[string]types.Severity{
	"High":   types.SeverityHigh,
	"Medium": types.SeverityMedium,
	"Low":    types.SeverityLow,
}

// Normalize turns a raw model response into a validated AnalysisResult.
// Malformed fields are defaulted field by field rather than failing the
// whole payload; features whose geometry cannot be repaired are dropped, and
// a collection left with no features is replaced wholesale by the fixed
// fallback regions.
func Normalize(raw RawResult, taskID, documentID string, processingMs int64, model string) types.AnalysisResult {
	summary := raw.Summary
	if summary == "" {
		summary = defaultSummary
	}

	score := defaultRiskScore
	if raw.RiskScore != nil {
		score = int(*raw.RiskScore)
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	entities := make([]types.Entity, 0, len(raw.Entities))
	for _, ent := range raw.Entities {
		label, ok := labelMap[ent.Label]
		if !ok {
			label = types.LabelLocation
		}
		text := ent.Text
		if text == "" {
			text = "Unknown"
		}
		entities = append(entities, types.Entity{Text: text, Label: label})
	}

	indicators := raw.Indicators
	if indicators == nil {
		indicators = []string{}
	}

	features := make([]types.Feature, 0, len(raw.GeospatialData.Features))
	for _, feat := range raw.GeospatialData.Features {
		norm, ok := normalizeFeature(feat)
		if !ok {
			continue
		}
		features = append(features, norm)
	}

	geoData := types.NewFeatureCollection(features...)
	if len(features) == 0 {
		geoData = FallbackGeospatial()
	}

	return types.AnalysisResult{
		TaskID:           taskID,
		DocumentID:       documentID,
		Summary:          summary,
		RiskScore:        score,
		Entities:         entities,
		Indicators:       indicators,
		GeospatialData:   geoData,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeMs: processingMs,
		ModelUsed:        model,
	}
}

// normalizeFeature defaults the properties and repairs the ring. A feature
// whose geometry cannot be made valid is rejected.
func normalizeFeature(feat types.Feature) (types.Feature, bool) {
	geom, ok := geo.NormalizePolygon(feat.Geometry)
	if !ok {
		return types.Feature{}, false
	}

	props := feat.Properties
	if props.Name == "" {
		props.Name = "Unknown Location"
	}
	if props.Confidence == "" {
		props.Confidence = "0%"
	}
	if _, known := severityMap[string(props.Severity)]; !known {
		props.Severity = types.SeverityLow
	}

	return types.Feature{
		Type:       "Feature",
		Geometry:   geom,
		Properties: props,
	}, true
}
