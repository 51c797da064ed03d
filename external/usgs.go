package external

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-disasterai/types"
)

// usgsFeed is the subset of the USGS GeoJSON summary feed we consume.
type usgsFeed struct {
	Features []usgsFeature `json:"features"`
}

type usgsFeature struct {
	ID         string         `json:"id"`
	Properties usgsProperties `json:"properties"`
	Geometry   usgsGeometry   `json:"geometry"`
}

type usgsProperties struct {
	Mag    float64 `json:"mag"`
	Place  string  `json:"place"`
	Time   int64   `json:"time"` // epoch milliseconds
	Title  string  `json:"title"`
	Status string  `json:"status"`
}

type usgsGeometry struct {
	Coordinates []float64 `json:"coordinates"` // lng, lat, depth km
}

var validTimeframes = map[string]bool{"hour": true, "day": true, "week": true, "month": true}

// FetchUSGS pulls recent earthquakes for the given timeframe (hour, day,
// week, or month). Results are capped at the 50 most recent and cached.
func (s *Service) FetchUSGS(ctx context.Context, timeframe string) ([]types.DisasterEvent, error) {
	if !validTimeframes[timeframe] {
		timeframe = "day"
	}
	cacheKey := "usgs_" + timeframe
	if events, ok := s.cached(cacheKey); ok {
		return events, nil
	}

	url := fmt.Sprintf("%s/all_%s.geojson", s.usgsBase, timeframe)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch USGS feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("USGS feed returned %s", resp.Status)
	}

	var feed usgsFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode USGS feed: %w", err)
	}

	features := feed.Features
	if len(features) > maxUSGSEvents {
		features = features[:maxUSGSEvents]
	}

	events := make([]types.DisasterEvent, 0, len(features))
	for _, feat := range features {
		if len(feat.Geometry.Coordinates) < 2 {
			continue
		}
		depth := 0.0
		if len(feat.Geometry.Coordinates) > 2 {
			depth = feat.Geometry.Coordinates[2]
		}

		place := feat.Properties.Place
		if place == "" {
			place = "Unknown location"
		}
		status := types.StatusActive
		if feat.Properties.Status == "reviewed" {
			status = types.StatusVerified
		}

		events = append(events, types.DisasterEvent{
			EventID:      "usgs_" + feat.ID,
			DisasterType: types.Earthquake,
			Location:     place,
			Coordinates:  [2]float64{feat.Geometry.Coordinates[0], feat.Geometry.Coordinates[1]},
			Timestamp:    time.UnixMilli(feat.Properties.Time).UTC().Format(time.RFC3339),
			AlertLevel:   MagnitudeAlertLevel(feat.Properties.Mag),
			Status:       status,
			Magnitude:    feat.Properties.Mag,
			Description: fmt.Sprintf("Magnitude %g earthquake. Depth: %.1f km. %s",
				feat.Properties.Mag, depth, feat.Properties.Title),
			Source: "USGS",
		})
	}

	s.store(cacheKey, events)
	return events, nil
}

// MagnitudeAlertLevel maps Richter magnitude to the GDACS color scale.
func MagnitudeAlertLevel(magnitude float64) types.AlertLevel {
	switch {
	case magnitude >= 7.0:
		return types.AlertBlack
	case magnitude >= 6.0:
		return types.AlertRed
	case magnitude >= 5.0:
		return types.AlertOrange
	case magnitude >= 4.0:
		return types.AlertYellow
	default:
		return types.AlertGreen
	}
}
