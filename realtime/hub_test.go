package realtime

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"go-disasterai/types"
)

func wsTestSetup(t *testing.T) (*Hub, *websocket.Conn) {
	return wsTestSetupQuery(t, "")
}

func wsTestSetupQuery(t *testing.T, query string) (*Hub, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub()
	r := gin.New()
	r.GET("/api/ws", hub.ServeWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws"
	if query != "" {
		url += "?" + query
	}
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return hub, conn
}

func readMessage(t *testing.T, conn *websocket.Conn) types.StreamMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg types.StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func subscribe(t *testing.T, conn *websocket.Conn, category string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(types.ClientMessage{Type: "subscribe", Category: category}))
	confirm := readMessage(t, conn)
	require.Equal(t, types.StreamSubscription, confirm.Type)
	require.Equal(t, "subscribed", confirm.Status)
	require.Equal(t, category, confirm.Category)
}

func TestConnectReceivesWelcome(t *testing.T) {
	hub, conn := wsTestSetup(t)

	welcome := readMessage(t, conn)
	require.Equal(t, types.StreamConnection, welcome.Type)
	require.Equal(t, "connected", welcome.Status)
	require.NotEmpty(t, welcome.Timestamp)

	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() != 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 1, hub.ClientCount())
}

func TestConnectQueryParamsPreSubscribe(t *testing.T) {
	hub, conn := wsTestSetupQuery(t, "client_id=dash-1&categories=alerts,system")

	welcome := readMessage(t, conn)
	require.Equal(t, types.StreamConnection, welcome.Type)
	data := welcome.Data.(map[string]interface{})
	require.Equal(t, "dash-1", data["client_id"])
	require.ElementsMatch(t, []interface{}{"alerts", "system"}, data["categories"])

	// No subscribe message was sent; the connect-time categories suffice.
	NewNotifier(hub).NotifyNewAlert(types.AlertMessage{AlertID: "alert_q", Message: "boom"})

	msg := readMessage(t, conn)
	require.Equal(t, types.StreamAlert, msg.Type)
	require.Equal(t, "alert_q", msg.Data.(map[string]interface{})["alert_id"])
}

func TestConnectDefaultsToDisastersFeed(t *testing.T) {
	hub, conn := wsTestSetup(t)

	welcome := readMessage(t, conn)
	data := welcome.Data.(map[string]interface{})
	require.Equal(t, []interface{}{CategoryDisasters}, data["categories"])

	NewNotifier(hub).NotifyNewDisaster(types.DisasterEvent{
		EventID:      "evt_default",
		DisasterType: types.Flood,
		Location:     "Chennai Coast",
		AlertLevel:   types.AlertOrange,
	})

	msg := readMessage(t, conn)
	require.Equal(t, types.StreamDisasterEvent, msg.Type)
	require.Equal(t, "evt_default", msg.Data.(map[string]interface{})["event_id"])
}

func TestCategoryBroadcastReachesOnlySubscribers(t *testing.T) {
	hub, conn := wsTestSetup(t)
	readMessage(t, conn) // welcome

	subscribe(t, conn, CategoryDisasters)

	notifier := NewNotifier(hub)
	notifier.NotifyNewAlert(types.AlertMessage{AlertID: "alert_x", Message: "ignored"})
	notifier.NotifyNewDisaster(types.DisasterEvent{
		EventID:      "evt_1",
		DisasterType: types.Flood,
		Location:     "Chennai Coast",
		AlertLevel:   types.AlertOrange,
	})

	// The alert must not arrive; the first message after subscribing is the
	// disaster event.
	msg := readMessage(t, conn)
	require.Equal(t, types.StreamDisasterEvent, msg.Type)
	require.Equal(t, types.ActionNew, msg.Action)
	require.Equal(t, CategoryDisasters, msg.Category)
	require.NotEmpty(t, msg.Timestamp)

	data, ok := msg.Data.(map[string]interface{})
	require.True(t, ok)
	require.Equal(t, "evt_1", data["event_id"])
	require.Equal(t, "Chennai Coast", data["location"])
}

func TestAlertMessagesAreTruncated(t *testing.T) {
	hub, conn := wsTestSetup(t)
	readMessage(t, conn) // welcome
	subscribe(t, conn, CategoryAlerts)

	long := strings.Repeat("x", 450)
	NewNotifier(hub).NotifyNewAlert(types.AlertMessage{AlertID: "alert_1", Message: long})

	msg := readMessage(t, conn)
	require.Equal(t, types.StreamAlert, msg.Type)
	data := msg.Data.(map[string]interface{})
	text := data["message"].(string)
	require.Len(t, text, maxAlertMessageLen+3)
	require.True(t, strings.HasSuffix(text, "..."))
}

func TestAnalysisStartReachesSystemSubscribers(t *testing.T) {
	hub, conn := wsTestSetupQuery(t, "categories=system")
	readMessage(t, conn) // welcome

	NewNotifier(hub).NotifyAnalysisStarted("task_42")

	msg := readMessage(t, conn)
	require.Equal(t, types.StreamAnalysisStatus, msg.Type)
	require.Equal(t, types.ActionStarted, msg.Action)
	data := msg.Data.(map[string]interface{})
	require.Equal(t, "task_42", data["task_id"])
	require.Equal(t, "processing", data["status"])
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub, conn := wsTestSetup(t)
	readMessage(t, conn) // welcome
	subscribe(t, conn, CategorySystem)

	require.NoError(t, conn.WriteJSON(types.ClientMessage{Type: "unsubscribe", Category: CategorySystem}))
	confirm := readMessage(t, conn)
	require.Equal(t, "unsubscribed", confirm.Status)

	NewNotifier(hub).NotifySystemStats(map[string]int{"total_active_events": 3})

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var msg types.StreamMessage
	require.Error(t, conn.ReadJSON(&msg))
}

func TestPing(t *testing.T) {
	_, conn := wsTestSetup(t)
	readMessage(t, conn) // welcome

	require.NoError(t, conn.WriteJSON(types.ClientMessage{Type: "ping"}))
	msg := readMessage(t, conn)
	require.Equal(t, types.StreamPong, msg.Type)
}

func TestDisconnectRemovesClient(t *testing.T) {
	hub, conn := wsTestSetup(t)
	readMessage(t, conn) // welcome

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	require.Equal(t, 0, hub.ClientCount())
}
