package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-disasterai/types"
)

const usgsFixture = `{
  "features": [
    {
      "id": "us7000abcd",
      "properties": {"mag": 6.4, "place": "120 km SSE of Sand Point, Alaska", "time": 1756200000000, "title": "M 6.4 - Alaska", "status": "reviewed"},
      "geometry": {"coordinates": [-160.5, 54.6, 32.1]}
    },
    {
      "id": "us7000efgh",
      "properties": {"mag": 2.1, "place": "5 km NE of Ridgecrest, CA", "time": 1756203600000, "title": "M 2.1 - CA", "status": "automatic"},
      "geometry": {"coordinates": [-117.6, 35.7, 8.0]}
    },
    {
      "id": "usbroken",
      "properties": {"mag": 5.0, "place": "nowhere", "time": 1756203600000, "title": "broken", "status": "automatic"},
      "geometry": {"coordinates": []}
    }
  ]
}`

const gdacsFixture = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:georss="http://www.georss.org/georss" xmlns:gdacs="http://www.gdacs.org">
  <channel>
    <item>
      <title>Green earthquake alert (Magnitude 5.1M) in Indonesia</title>
      <description>An earthquake occurred near the coast.</description>
      <pubDate>Wed, 27 Aug 2026 08:15:00 +0000</pubDate>
      <georss:point>-2.15 120.43</georss:point>
      <gdacs:alertlevel>Green</gdacs:alertlevel>
    </item>
    <item>
      <title>Red tropical cyclone alert for the Philippines</title>
      <description>Severe cyclone approaching landfall.</description>
      <pubDate>Wed, 27 Aug 2026 06:00:00 +0000</pubDate>
      <georss:point>14.2 121.1</georss:point>
      <gdacs:alertlevel>Red</gdacs:alertlevel>
    </item>
    <item>
      <title>Flood in Bangladesh</title>
      <description></description>
      <pubDate>not a date</pubDate>
    </item>
  </channel>
</rss>`

func fixtureService(t *testing.T, usgsBody, gdacsBody string, hits *int32) *Service {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			atomic.AddInt32(hits, 1)
		}
		if r.URL.Path == "/all_day.geojson" {
			w.Write([]byte(usgsBody))
			return
		}
		w.Write([]byte(gdacsBody))
	}))
	t.Cleanup(srv.Close)

	svc := NewService()
	svc.usgsBase = srv.URL
	svc.gdacsURL = srv.URL + "/rss.xml"
	return svc
}

func TestFetchUSGS(t *testing.T) {
	svc := fixtureService(t, usgsFixture, gdacsFixture, nil)

	events, err := svc.FetchUSGS(context.Background(), "day")
	require.NoError(t, err)
	require.Len(t, events, 2) // feature without coordinates dropped

	first := events[0]
	require.Equal(t, "usgs_us7000abcd", first.EventID)
	require.Equal(t, types.Earthquake, first.DisasterType)
	require.Equal(t, "120 km SSE of Sand Point, Alaska", first.Location)
	require.Equal(t, [2]float64{-160.5, 54.6}, first.Coordinates)
	require.Equal(t, types.AlertRed, first.AlertLevel)
	require.Equal(t, types.StatusVerified, first.Status)
	require.Equal(t, 6.4, first.Magnitude)
	require.Contains(t, first.Description, "Depth: 32.1 km")
	require.Equal(t, "USGS", first.Source)

	second := events[1]
	require.Equal(t, types.AlertGreen, second.AlertLevel)
	require.Equal(t, types.StatusActive, second.Status)
}

func TestFetchUSGSCaches(t *testing.T) {
	var hits int32
	svc := fixtureService(t, usgsFixture, gdacsFixture, &hits)

	_, err := svc.FetchUSGS(context.Background(), "day")
	require.NoError(t, err)
	_, err = svc.FetchUSGS(context.Background(), "day")
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchUSGSInvalidTimeframeDefaultsToDay(t *testing.T) {
	svc := fixtureService(t, usgsFixture, gdacsFixture, nil)
	events, err := svc.FetchUSGS(context.Background(), "fortnight")
	require.NoError(t, err)
	require.NotEmpty(t, events)
}

func TestMagnitudeAlertLevel(t *testing.T) {
	require.Equal(t, types.AlertBlack, MagnitudeAlertLevel(7.2))
	require.Equal(t, types.AlertRed, MagnitudeAlertLevel(6.0))
	require.Equal(t, types.AlertOrange, MagnitudeAlertLevel(5.5))
	require.Equal(t, types.AlertYellow, MagnitudeAlertLevel(4.0))
	require.Equal(t, types.AlertGreen, MagnitudeAlertLevel(3.9))
}

func TestFetchGDACS(t *testing.T) {
	svc := fixtureService(t, usgsFixture, gdacsFixture, nil)

	events, err := svc.FetchGDACS(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 3)

	quake := events[0]
	require.Equal(t, types.Earthquake, quake.DisasterType)
	require.Equal(t, types.AlertGreen, quake.AlertLevel)
	require.Equal(t, [2]float64{120.43, -2.15}, quake.Coordinates)
	require.Equal(t, "2026-08-27T08:15:00Z", quake.Timestamp)
	require.Equal(t, "GDACS", quake.Source)

	cyclone := events[1]
	require.Equal(t, types.Cyclone, cyclone.DisasterType)
	require.Equal(t, types.AlertRed, cyclone.AlertLevel)

	// Missing point, alert level, and pub date all degrade gracefully.
	flood := events[2]
	require.Equal(t, types.Flood, flood.DisasterType)
	require.Equal(t, [2]float64{}, flood.Coordinates)
	require.Equal(t, types.AlertYellow, flood.AlertLevel)
	require.NotEmpty(t, flood.Timestamp)
	require.Equal(t, flood.Location, flood.Description)
}

func TestParseDisasterType(t *testing.T) {
	cases := map[string]types.DisasterType{
		"Green earthquake alert":        types.Earthquake,
		"Flood warning for the delta":   types.Flood,
		"Tropical Cyclone ANA":          types.Cyclone,
		"Hurricane approaching Florida": types.Hurricane,
		"Typhoon over the Pacific":      types.Typhoon,
		"Tsunami watch issued":          types.Tsunami,
		"Volcanic eruption in Iceland":  types.Volcanic,
		"Severe storm front":            types.Storm,
		"Drought conditions persist":    types.Drought,
		"Forest fire in Gironde":        types.Wildfire,
		"Completely unrelated headline": types.OtherHazard,
	}
	for title, want := range cases {
		require.Equal(t, want, ParseDisasterType(title), title)
	}
}

func TestFetchAllCombinesAndSorts(t *testing.T) {
	svc := fixtureService(t, usgsFixture, gdacsFixture, nil)

	events := svc.FetchAll(context.Background())
	require.Len(t, events, 5)
	for i := 1; i < len(events); i++ {
		require.GreaterOrEqual(t, events[i-1].Timestamp, events[i].Timestamp)
	}
}

func TestFetchAllSurvivesSourceOutage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/all_day.geojson" {
			w.Write([]byte(usgsFixture))
			return
		}
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	svc := NewService()
	svc.usgsBase = srv.URL
	svc.gdacsURL = srv.URL + "/rss.xml"
	svc.client.Timeout = 5 * time.Second

	events := svc.FetchAll(context.Background())
	require.Len(t, events, 2) // USGS only
}
