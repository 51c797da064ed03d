package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-disasterai/detection"
	"go-disasterai/external"
	"go-disasterai/types"
)

// DisasterTypes lists every hazard category the detector can emit.
func DisasterTypes(c *gin.Context) {
	out := make([]gin.H, 0, len(types.AllDisasterTypes))
	for _, dt := range types.AllDisasterTypes {
		out = append(out, gin.H{
			"type":        string(dt),
			"description": titleWords(string(dt)),
		})
	}
	c.JSON(http.StatusOK, out)
}

// LiveDisasters fetches current events from the external feeds, optionally
// filtered by source.
func LiveDisasters(c *gin.Context, ext *external.Service) {
	source := strings.ToLower(c.Query("source"))
	limit := queryInt(c, "limit", 50, 1, 200)

	events := ext.FetchAll(c.Request.Context())
	if source != "" {
		filtered := events[:0]
		for _, evt := range events {
			if strings.ToLower(evt.Source) == source {
				filtered = append(filtered, evt)
			}
		}
		events = filtered
	}
	if len(events) > limit {
		events = events[:limit]
	}
	c.JSON(http.StatusOK, events)
}

// ActiveDisasters returns tracked active events with optional type and alert
// level filters.
func ActiveDisasters(c *gin.Context, svc *detection.Service) {
	var dtype types.DisasterType
	if raw := c.Query("disaster_type"); raw != "" {
		dt, ok := parseDisasterType(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid disaster type: " + raw})
			return
		}
		dtype = dt
	}

	var level types.AlertLevel
	if raw := c.Query("alert_level"); raw != "" {
		al, ok := parseAlertLevel(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert level: " + raw})
			return
		}
		level = al
	}

	limit := queryInt(c, "limit", 50, 1, 1000)
	events := svc.ActiveEvents(dtype, level)
	if len(events) > limit {
		events = events[:limit]
	}
	c.JSON(http.StatusOK, events)
}

// HistoricalDisasters returns concluded events within the lookback window.
func HistoricalDisasters(c *gin.Context, svc *detection.Service) {
	daysBack := queryInt(c, "days_back", 30, 1, 365)
	limit := queryInt(c, "limit", 50, 1, 1000)

	events := svc.HistoricalEvents(daysBack)
	if len(events) > limit {
		events = events[:limit]
	}
	c.JSON(http.StatusOK, events)
}

// LocationTimeline returns every event, active or concluded, matching a
// location.
func LocationTimeline(c *gin.Context, svc *detection.Service) {
	c.JSON(http.StatusOK, svc.Timeline(c.Param("location")))
}

// DisasterStats merges internal registry statistics with a snapshot of the
// live feeds. Feed failure degrades to internal stats only.
func DisasterStats(c *gin.Context, svc *detection.Service, ext *external.Service) {
	stats := svc.Summary()

	live := ext.FetchAll(c.Request.Context())
	for _, evt := range live {
		stats.DisasterTypeCounts[string(evt.DisasterType)]++
		stats.CurrentAlertLevels[string(evt.AlertLevel)]++
	}
	stats.TotalActiveEvents += len(live)
	stats.RecentActivity += len(live)

	c.JSON(http.StatusOK, stats)
}

// SubscribeAlerts registers a subscriber for area alerts. Subscribing twice
// is not an error.
func SubscribeAlerts(c *gin.Context, svc *detection.Service) {
	area := c.Query("area")
	userID := c.Query("user_id")
	if area == "" || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area and user_id are required"})
		return
	}

	if svc.Subscribe(area, userID) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Subscribed to alerts for " + area})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Already subscribed to alerts for " + area})
}

// UnsubscribeAlerts removes an area subscription.
func UnsubscribeAlerts(c *gin.Context, svc *detection.Service) {
	area := c.Query("area")
	userID := c.Query("user_id")
	if area == "" || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "area and user_id are required"})
		return
	}

	if svc.Unsubscribe(area, userID) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Unsubscribed from alerts for " + area})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not subscribed to alerts for " + area})
}

func parseDisasterType(raw string) (types.DisasterType, bool) {
	want := types.DisasterType(strings.ToLower(raw))
	for _, dt := range types.AllDisasterTypes {
		if dt == want {
			return dt, true
		}
	}
	return "", false
}

func parseAlertLevel(raw string) (types.AlertLevel, bool) {
	switch types.AlertLevel(strings.ToLower(raw)) {
	case types.AlertBlack:
		return types.AlertBlack, true
	case types.AlertRed:
		return types.AlertRed, true
	case types.AlertOrange:
		return types.AlertOrange, true
	case types.AlertYellow:
		return types.AlertYellow, true
	case types.AlertGreen:
		return types.AlertGreen, true
	}
	return "", false
}

// titleWords renders a snake_case identifier as display text.
func titleWords(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
