package external

import (
	"context"
	"encoding/xml"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-disasterai/types"
)

// gdacsRSS models the GDACS feed. The georss and gdacs elements are
// namespaced; encoding/xml matches them by namespace URL.
type gdacsRSS struct {
	XMLName xml.Name    `xml:"rss"`
	Items   []gdacsItem `xml:"channel>item"`
}

type gdacsItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Point       string `xml:"http://www.georss.org/georss point"`
	AlertLevel  string `xml:"http://www.gdacs.org alertlevel"`
}

const maxGDACSDescription = 500

// FetchGDACS pulls the multi-hazard GDACS RSS stream, capped at the 30 most
// recent items.
func (s *Service) FetchGDACS(ctx context.Context) ([]types.DisasterEvent, error) {
	const cacheKey = "gdacs_all"
	if events, ok := s.cached(cacheKey); ok {
		return events, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.gdacsURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch GDACS feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GDACS feed returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var feed gdacsRSS
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode GDACS feed: %w", err)
	}

	items := feed.Items
	if len(items) > maxGDACSEvents {
		items = items[:maxGDACSEvents]
	}

	events := make([]types.DisasterEvent, 0, len(items))
	for _, item := range items {
		title := item.Title
		if title == "" {
			title = "Unknown Event"
		}

		description := item.Description
		if description == "" {
			description = title
		}
		if len(description) > maxGDACSDescription {
			description = description[:maxGDACSDescription]
		}

		events = append(events, types.DisasterEvent{
			EventID:      fmt.Sprintf("gdacs_%d", titleHash(title)),
			DisasterType: ParseDisasterType(title),
			Location:     title,
			Coordinates:  parseGeoRSSPoint(item.Point),
			Timestamp:    parsePubDate(item.PubDate),
			AlertLevel:   gdacsAlertLevel(item.AlertLevel),
			Status:       types.StatusActive,
			Description:  description,
			Source:       "GDACS",
		})
	}

	s.store(cacheKey, events)
	return events, nil
}

// ParseDisasterType classifies a GDACS event title.
func ParseDisasterType(title string) types.DisasterType {
	lower := strings.ToLower(title)
	switch {
	case strings.Contains(lower, "earthquake"), strings.Contains(lower, "quake"):
		return types.Earthquake
	case strings.Contains(lower, "flood"):
		return types.Flood
	case strings.Contains(lower, "cyclone"):
		return types.Cyclone
	case strings.Contains(lower, "hurricane"):
		return types.Hurricane
	case strings.Contains(lower, "typhoon"):
		return types.Typhoon
	case strings.Contains(lower, "tsunami"):
		return types.Tsunami
	case strings.Contains(lower, "volcano"), strings.Contains(lower, "volcanic"):
		return types.Volcanic
	case strings.Contains(lower, "storm"):
		return types.Storm
	case strings.Contains(lower, "drought"):
		return types.Drought
	case strings.Contains(lower, "fire"):
		return types.Wildfire
	case strings.Contains(lower, "tornado"):
		return types.Tornado
	default:
		return types.OtherHazard
	}
}

// parseGeoRSSPoint decodes "lat lng" into our [lng, lat] convention. Bad
// input yields the zero point.
func parseGeoRSSPoint(point string) [2]float64 {
	parts := strings.Fields(strings.TrimSpace(point))
	if len(parts) < 2 {
		return [2]float64{}
	}
	lat, err1 := strconv.ParseFloat(parts[0], 64)
	lng, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return [2]float64{}
	}
	return [2]float64{lng, lat}
}

func parsePubDate(pubDate string) string {
	for _, layout := range []string{time.RFC1123Z, time.RFC1123} {
		if ts, err := time.Parse(layout, pubDate); err == nil {
			return ts.UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func gdacsAlertLevel(level string) types.AlertLevel {
	switch level {
	case "Red":
		return types.AlertRed
	case "Orange":
		return types.AlertOrange
	case "Green":
		return types.AlertGreen
	default:
		return types.AlertYellow
	}
}

func titleHash(title string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(title))
	return h.Sum32() % 1000000
}
