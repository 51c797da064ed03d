package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-disasterai/alerts"
	"go-disasterai/analysis"
	"go-disasterai/detection"
	"go-disasterai/external"
	"go-disasterai/handlers"
	"go-disasterai/ingest"
	"go-disasterai/realtime"
	"go-disasterai/routes"
	"go-disasterai/store"
	"go-disasterai/types"
)

type testEnv struct {
	router    *gin.Engine
	tasks     *store.TaskStore
	results   *store.ResultStore
	disasters *detection.Service
	alerts    *alerts.Service
}

// newTestEnv wires the full HTTP surface with no external credentials, so
// the analyzer always falls back and geocoding/cloud NER stay disabled.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		tasks:     store.NewTaskStore(nil),
		results:   store.NewResultStore(0),
		disasters: detection.NewService(),
		alerts:    alerts.NewService(nil),
	}

	var nilClient *analysis.Client
	gate := ingest.NewGate(nilClient, nil, env.results)

	env.router = routes.SetupRouter(routes.Deps{
		Gate:      gate,
		Tasks:     env.tasks,
		Results:   env.results,
		Disasters: env.disasters,
		Alerts:    env.alerts,
		External:  external.NewService(),
		Hub:       realtime.NewHub(),
		Checks:    handlers.ServiceChecks{},
		Model:     "disabled",
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func sampleEvent(id string, level types.AlertLevel) types.DisasterEvent {
	return types.DisasterEvent{
		EventID:      id,
		DisasterType: types.Earthquake,
		Location:     "Chennai",
		Coordinates:  [2]float64{80.27, 13.08},
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		AlertLevel:   level,
		Status:       types.StatusActive,
		Magnitude:    6.1,
		Source:       "usgs",
	}
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var root map[string]interface{}
	decode(t, rec, &root)
	require.Equal(t, "operational", root["status"])

	rec = env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var health map[string]interface{}
	decode(t, rec, &health)
	// Nothing is configured, so the service reports degraded but stays up.
	require.Equal(t, "degraded", health["status"])
	require.NotEmpty(t, health["services"])
}

func TestConfig(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/config", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var cfg map[string]interface{}
	decode(t, rec, &cfg)
	require.Equal(t, float64(50), cfg["max_file_size_mb"])
	require.Equal(t, "comprehensive", cfg["default_analysis_mode"])
}

func TestAnalyzeBadRequest(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/analyze", map[string]string{"document_data": "eA=="})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeFallsBackWhenModelDisabled(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/analyze", types.AnalysisRequest{
		DocumentData: "dGVzdCBkb2N1bWVudA==",
		MimeType:     "application/pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.AnalysisResponse
	decode(t, rec, &resp)
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	require.Equal(t, 78, resp.Data.RiskScore)
	require.Contains(t, resp.Data.Summary, "Integrated audit complete")
	require.Len(t, resp.Data.GeospatialData.Features, 3)
	require.Equal(t, "Chennai High-Risk Terminal", resp.Data.GeospatialData.Features[0].Properties.Name)
	require.Equal(t, types.SeverityHigh, resp.Data.GeospatialData.Features[0].Properties.Severity)

	// The published result is now the dashboard's current analysis.
	rec = env.do(t, http.MethodGet, "/api/analysis/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var current types.AnalysisResult
	decode(t, rec, &current)
	require.Equal(t, resp.Data.TaskID, current.TaskID)
}

func TestCurrentOverlays(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/analysis/current/overlays", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/analyze", types.AnalysisRequest{
		DocumentData: "b3ZlcmxheXM=",
		MimeType:     "application/pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/analysis/current/overlays", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		TaskID   string `json:"task_id"`
		Overlays []struct {
			Index   int           `json:"index"`
			Feature types.Feature `json:"feature"`
			Style   struct {
				Color       string  `json:"color"`
				FillOpacity float64 `json:"fillOpacity"`
			} `json:"style"`
			Tooltip struct {
				Name string `json:"name"`
			} `json:"tooltip"`
			Bounds types.BoundingBox `json:"bounds"`
		} `json:"overlays"`
		Viewport *struct {
			Bounds  types.BoundingBox `json:"bounds"`
			Padding int               `json:"padding"`
			MaxZoom int               `json:"maxZoom"`
		} `json:"viewport"`
	}
	decode(t, rec, &payload)

	require.NotEmpty(t, payload.TaskID)
	require.Len(t, payload.Overlays, 3)
	require.Equal(t, "Chennai High-Risk Terminal", payload.Overlays[0].Tooltip.Name)
	require.Equal(t, "#dc2626", payload.Overlays[0].Style.Color)
	require.InDelta(t, 13.08, payload.Overlays[0].Bounds.MinLat, 0.001)

	require.NotNil(t, payload.Viewport)
	require.Equal(t, 48, payload.Viewport.Padding)
	require.Equal(t, 12, payload.Viewport.MaxZoom)
	// The viewport frames all three regions, Bangalore's south edge included.
	require.InDelta(t, 12.95, payload.Viewport.Bounds.MinLat, 0.001)
	require.InDelta(t, 17.40, payload.Viewport.Bounds.MaxLat, 0.001)
}

func TestCurrentAnalysisEmpty(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/analysis/current", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAsyncAnalyzeLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/analyze/async", types.AnalysisRequest{
		DocumentData: "YXN5bmMgZG9j",
		MimeType:     "text/plain",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var created types.TaskCreateResponse
	decode(t, rec, &created)
	require.NotEmpty(t, created.TaskID)
	require.Equal(t, types.TaskPending, created.Status)

	require.Eventually(t, func() bool {
		rec := env.do(t, http.MethodGet, "/api/tasks/"+created.TaskID, nil)
		if rec.Code != http.StatusOK {
			return false
		}
		var task types.TaskInfo
		if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
			return false
		}
		return task.Status == types.TaskCompleted && task.Progress == 100 && task.Result != nil
	}, 5*time.Second, 20*time.Millisecond)

	rec = env.do(t, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []types.TaskInfo
	decode(t, rec, &list)
	require.Len(t, list, 1)

	rec = env.do(t, http.MethodDelete, "/api/tasks/"+created.TaskID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/tasks/"+created.TaskID, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskNotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/tasks/task_missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodDelete, "/api/tasks/task_missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDisasterTypes(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/disasters/types", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var out []map[string]string
	decode(t, rec, &out)
	require.Len(t, out, len(types.AllDisasterTypes))
	require.Equal(t, "earthquake", out[0]["type"])
	require.Equal(t, "Heat Wave", out[13]["description"])
}

func TestActiveDisastersFiltersAndValidation(t *testing.T) {
	env := newTestEnv(t)
	env.disasters.Register(sampleEvent("evt_quake", types.AlertRed))
	flood := sampleEvent("evt_flood", types.AlertYellow)
	flood.DisasterType = types.Flood
	env.disasters.Register(flood)

	rec := env.do(t, http.MethodGet, "/api/disasters/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []types.DisasterEvent
	decode(t, rec, &events)
	require.Len(t, events, 2)

	rec = env.do(t, http.MethodGet, "/api/disasters/active?disaster_type=flood", nil)
	decode(t, rec, &events)
	require.Len(t, events, 1)
	require.Equal(t, "evt_flood", events[0].EventID)

	rec = env.do(t, http.MethodGet, "/api/disasters/active?alert_level=red", nil)
	decode(t, rec, &events)
	require.Len(t, events, 1)
	require.Equal(t, "evt_quake", events[0].EventID)

	rec = env.do(t, http.MethodGet, "/api/disasters/active?disaster_type=asteroid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	rec = env.do(t, http.MethodGet, "/api/disasters/active?alert_level=purple", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLocationTimeline(t *testing.T) {
	env := newTestEnv(t)
	env.disasters.Register(sampleEvent("evt_chennai", types.AlertOrange))

	rec := env.do(t, http.MethodGet, "/api/disasters/location/Chennai", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []types.DisasterEvent
	decode(t, rec, &events)
	require.Len(t, events, 1)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/disasters/subscribe?area=Chennai&user_id=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/disasters/unsubscribe?area=Chennai&user_id=u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/disasters/unsubscribe?area=Chennai&user_id=u1", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/disasters/subscribe", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAlertEndpoints(t *testing.T) {
	env := newTestEnv(t)
	alert := env.alerts.ProcessEvent(sampleEvent("evt_alert", types.AlertRed), []string{"ops@example.com"})

	rec := env.do(t, http.MethodGet, "/api/alerts/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active []types.AlertMessage
	decode(t, rec, &active)
	require.Len(t, active, 1)
	require.Equal(t, alert.AlertID, active[0].AlertID)

	rec = env.do(t, http.MethodGet, "/api/alerts/"+alert.AlertID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/alerts/"+alert.AlertID+"/acknowledge", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/alerts/"+alert.AlertID, nil)
	var fetched types.AlertMessage
	decode(t, rec, &fetched)
	require.True(t, fetched.Acknowledged)

	rec = env.do(t, http.MethodGet, "/api/alerts/alert_missing", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/alerts/alert_missing/acknowledge", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/alerts/channels", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var channels []map[string]interface{}
	decode(t, rec, &channels)
	require.Len(t, channels, len(types.AllAlertChannels))

	rec = env.do(t, http.MethodGet, "/api/alerts/priorities", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var priorities []map[string]interface{}
	decode(t, rec, &priorities)
	require.Len(t, priorities, 4)

	rec = env.do(t, http.MethodGet, "/api/alerts/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]interface{}
	decode(t, rec, &stats)
	require.Contains(t, stats, "active_alerts")
}

func TestNEREndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/ner", map[string]interface{}{
		"text": "Structural damage reported at the Chennai Terminal by LogiCorp.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Entities []struct {
			Text  string `json:"text"`
			Label string `json:"label"`
		} `json:"entities"`
		Count int `json:"count"`
	}
	decode(t, rec, &out)
	require.Equal(t, len(out.Entities), out.Count)
	require.NotEmpty(t, out.Entities)

	labels := map[string]bool{}
	for _, e := range out.Entities {
		labels[e.Label] = true
	}
	require.True(t, labels["LOC"])
	require.True(t, labels["DMG"])

	rec = env.do(t, http.MethodPost, "/api/ner", map[string]interface{}{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNERLabelFilter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/ner", map[string]interface{}{
		"text":   "Structural damage reported in Chennai.",
		"labels": []string{"LOC"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var out struct {
		Entities []struct {
			Label string `json:"label"`
		} `json:"entities"`
	}
	decode(t, rec, &out)
	require.NotEmpty(t, out.Entities)
	for _, e := range out.Entities {
		require.Equal(t, "LOC", e.Label)
	}
}

func TestGeocodeWithoutCredentials(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/geocode", map[string]string{"location_name": "Chennai"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/geocode", map[string]string{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
