package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-disasterai/alerts"
	"go-disasterai/types"
)

// ActiveAlerts returns unacknowledged alerts, newest first.
func ActiveAlerts(c *gin.Context, svc *alerts.Service) {
	limit := queryInt(c, "limit", 50, 1, 1000)
	c.JSON(http.StatusOK, svc.Active(limit))
}

// SentAlerts returns the delivery archive, newest first.
func SentAlerts(c *gin.Context, svc *alerts.Service) {
	limit := queryInt(c, "limit", 50, 1, 1000)
	c.JSON(http.StatusOK, svc.Sent(limit))
}

// GetAlert returns a single alert by ID, searching active alerts first and
// the archive second.
func GetAlert(c *gin.Context, svc *alerts.Service) {
	alertID := c.Param("id")
	alert, ok := svc.Get(alertID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found: " + alertID})
		return
	}
	c.JSON(http.StatusOK, alert)
}

// AcknowledgeAlert marks an alert as received by an operator.
func AcknowledgeAlert(c *gin.Context, svc *alerts.Service) {
	alertID := c.Param("id")
	if !svc.Acknowledge(alertID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "alert not found: " + alertID})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Alert acknowledged"})
}

// AlertChannels lists the supported delivery channels.
func AlertChannels(c *gin.Context) {
	out := make([]gin.H, 0, len(types.AllAlertChannels))
	for _, ch := range types.AllAlertChannels {
		out = append(out, gin.H{
			"channel":     string(ch),
			"description": titleWords(string(ch)),
		})
	}
	c.JSON(http.StatusOK, out)
}

// AlertPriorities lists the priority scale.
func AlertPriorities(c *gin.Context) {
	priorities := []types.AlertPriority{
		types.PriorityLow, types.PriorityMedium, types.PriorityHigh, types.PriorityCritical,
	}
	out := make([]gin.H, 0, len(priorities))
	for _, p := range priorities {
		out = append(out, gin.H{
			"priority":    int(p),
			"description": titleWords(p.Name()),
		})
	}
	c.JSON(http.StatusOK, out)
}

// AlertStats summarizes alert volume and recent delivery activity.
func AlertStats(c *gin.Context, svc *alerts.Service) {
	active := svc.Active(1000)
	sent := svc.Sent(1000)

	cutoff := time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	recent := 0
	for _, a := range sent {
		if a.Timestamp >= cutoff {
			recent++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"active_alerts":     len(active),
		"total_sent_alerts": len(sent),
		"sent_last_24h":     recent,
		"last_updated":      time.Now().UTC().Format(time.RFC3339),
	})
}
