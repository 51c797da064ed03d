// Package geocode resolves location names to coordinates via the Google
// Maps API and builds map zones around them.
package geocode

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"googlemaps.github.io/maps"

	"go-disasterai/geo"
	"go-disasterai/types"
)

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
	clientErr  error
)

// Resolved names are cached for the life of the process; place coordinates
// do not move, and the Maps API bills per request.
var (
	cacheMu     sync.RWMutex
	resultCache = make(map[string]types.GeocodingResult)
)

func cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func lookupCached(name string) (types.GeocodingResult, bool) {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	res, ok := resultCache[cacheKey(name)]
	return res, ok
}

func storeCached(name string, res types.GeocodingResult) {
	cacheMu.Lock()
	resultCache[cacheKey(name)] = res
	cacheMu.Unlock()
}

// DefaultZoneRadiusKM is the radius used when synthesizing a zone polygon
// around a geocoded point.
const DefaultZoneRadiusKM = 1.0

// MaxBatchLocations caps one batch geocoding request.
const MaxBatchLocations = 20

// InitMapsClient initializes and returns a singleton Google Maps client
// keyed by MAPS_CREDENTIALS.
func InitMapsClient() (*maps.Client, error) {
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			clientErr = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, clientErr = maps.NewClient(maps.WithAPIKey(apiKey))
	})
	return mapsClient, clientErr
}

// GeocodeLocation resolves one location name, consulting the in-process
// cache first. The first (best) match wins.
func GeocodeLocation(ctx context.Context, name string) (types.GeocodingResult, error) {
	if res, ok := lookupCached(name); ok {
		return res, nil
	}

	client, err := InitMapsClient()
	if err != nil {
		return types.GeocodingResult{}, err
	}

	results, err := client.Geocode(ctx, &maps.GeocodingRequest{Address: name})
	if err != nil {
		return types.GeocodingResult{}, fmt.Errorf("geocode %q: %w", name, err)
	}
	if len(results) == 0 {
		return types.GeocodingResult{}, fmt.Errorf("no geocoding result for %q", name)
	}

	best := results[0]
	res := types.GeocodingResult{
		LocationName:     name,
		Latitude:         best.Geometry.Location.Lat,
		Longitude:        best.Geometry.Location.Lng,
		Confidence:       confidenceFor(best.Geometry.LocationType),
		FormattedAddress: best.FormattedAddress,
	}
	for _, comp := range best.AddressComponents {
		for _, t := range comp.Types {
			switch t {
			case "country":
				res.Country = comp.LongName
			case "administrative_area_level_1":
				res.Region = comp.LongName
			}
		}
	}
	storeCached(name, res)
	return res, nil
}

// GeocodeBatch resolves up to MaxBatchLocations names, collecting failures
// instead of aborting.
func GeocodeBatch(ctx context.Context, names []string) types.BatchGeocodingResult {
	if len(names) > MaxBatchLocations {
		names = names[:MaxBatchLocations]
	}

	out := types.BatchGeocodingResult{
		Results: make([]types.GeocodingResult, 0, len(names)),
		Failed:  []string{},
	}
	for _, name := range names {
		res, err := GeocodeLocation(ctx, name)
		if err != nil {
			out.Failed = append(out.Failed, name)
			continue
		}
		out.Results = append(out.Results, res)
	}
	return out
}

// confidenceFor grades match precision by how Google located the address.
func confidenceFor(locationType string) float64 {
	switch locationType {
	case "ROOFTOP":
		return 0.95
	case "RANGE_INTERPOLATED":
		return 0.85
	case "GEOMETRIC_CENTER":
		return 0.75
	case "APPROXIMATE":
		return 0.6
	default:
		return 0.5
	}
}

// ZoneFeature wraps a geocoded point in a rendered map zone: an organic
// polygon around the point carrying the location's name and severity.
func ZoneFeature(res types.GeocodingResult, severity types.Severity, description string) types.Feature {
	ring := geo.GeneratePolygon(res.Latitude, res.Longitude, DefaultZoneRadiusKM, 10)
	return types.Feature{
		Type: "Feature",
		Geometry: types.Geometry{
			Type:        "Polygon",
			Coordinates: [][][]float64{ring},
		},
		Properties: types.Properties{
			Name:        res.LocationName,
			Confidence:  fmt.Sprintf("%.0f%%", res.Confidence*100),
			Severity:    severity,
			Description: description,
		},
	}
}
