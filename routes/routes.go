package routes

import (
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"go-disasterai/alerts"
	"go-disasterai/detection"
	"go-disasterai/external"
	"go-disasterai/handlers"
	"go-disasterai/ingest"
	"go-disasterai/metrics"
	"go-disasterai/realtime"
	"go-disasterai/store"
)

// Deps carries every service the HTTP surface touches. main builds one and
// hands it over.
type Deps struct {
	Gate      *ingest.Gate
	Tasks     *store.TaskStore
	Results   *store.ResultStore
	Disasters *detection.Service
	Alerts    *alerts.Service
	External  *external.Service
	Hub       *realtime.Hub
	Checks    handlers.ServiceChecks
	Model     string
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()
	r.Use(observe())

	r.GET("/", handlers.Root)
	r.GET("/health", func(c *gin.Context) {
		handlers.Health(c, deps.Checks)
	})
	r.GET("/config", func(c *gin.Context) {
		handlers.Config(c, deps.Model)
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.POST("/analyze", func(c *gin.Context) {
			handlers.AnalyzeDocument(c, deps.Gate)
		})
		api.POST("/analyze/upload", func(c *gin.Context) {
			handlers.AnalyzeUpload(c, deps.Gate)
		})
		api.POST("/analyze/async", func(c *gin.Context) {
			handlers.AnalyzeAsync(c, deps.Gate, deps.Tasks)
		})
		api.GET("/analysis/current", func(c *gin.Context) {
			handlers.CurrentAnalysis(c, deps.Results)
		})
		api.GET("/analysis/current/overlays", func(c *gin.Context) {
			handlers.CurrentOverlays(c, deps.Results)
		})
		api.GET("/analysis/history", func(c *gin.Context) {
			handlers.AnalysisHistory(c, deps.Results)
		})

		api.GET("/tasks", func(c *gin.Context) {
			handlers.ListTasks(c, deps.Tasks)
		})
		api.GET("/tasks/:id", func(c *gin.Context) {
			handlers.GetTask(c, deps.Tasks)
		})
		api.DELETE("/tasks/:id", func(c *gin.Context) {
			handlers.DeleteTask(c, deps.Tasks)
		})

		api.POST("/geocode", handlers.Geocode)
		api.POST("/geocode/batch", handlers.GeocodeBatch)
		api.POST("/ner", handlers.ExtractEntities)
		api.POST("/ner/locations", handlers.ExtractLocations)

		api.GET("/disasters/types", handlers.DisasterTypes)
		api.GET("/disasters/live", func(c *gin.Context) {
			handlers.LiveDisasters(c, deps.External)
		})
		api.GET("/disasters/active", func(c *gin.Context) {
			handlers.ActiveDisasters(c, deps.Disasters)
		})
		api.GET("/disasters/historical", func(c *gin.Context) {
			handlers.HistoricalDisasters(c, deps.Disasters)
		})
		api.GET("/disasters/location/:location", func(c *gin.Context) {
			handlers.LocationTimeline(c, deps.Disasters)
		})
		api.GET("/disasters/stats", func(c *gin.Context) {
			handlers.DisasterStats(c, deps.Disasters, deps.External)
		})
		api.POST("/disasters/subscribe", func(c *gin.Context) {
			handlers.SubscribeAlerts(c, deps.Disasters)
		})
		api.POST("/disasters/unsubscribe", func(c *gin.Context) {
			handlers.UnsubscribeAlerts(c, deps.Disasters)
		})

		api.GET("/alerts/active", func(c *gin.Context) {
			handlers.ActiveAlerts(c, deps.Alerts)
		})
		api.GET("/alerts/sent", func(c *gin.Context) {
			handlers.SentAlerts(c, deps.Alerts)
		})
		api.GET("/alerts/channels", handlers.AlertChannels)
		api.GET("/alerts/priorities", handlers.AlertPriorities)
		api.GET("/alerts/stats", func(c *gin.Context) {
			handlers.AlertStats(c, deps.Alerts)
		})
		api.GET("/alerts/:id", func(c *gin.Context) {
			handlers.GetAlert(c, deps.Alerts)
		})
		api.POST("/alerts/:id/acknowledge", func(c *gin.Context) {
			handlers.AcknowledgeAlert(c, deps.Alerts)
		})

		api.GET("/ws", deps.Hub.ServeWS)
	}

	return r
}

// observe feeds the request counters. The route template is the label so
// path params don't explode the cardinality.
func observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		elapsed := time.Since(started)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, fmt.Sprint(c.Writer.Status())).Inc()
		metrics.RequestDurationMs.WithLabelValues(route).Observe(float64(elapsed.Milliseconds()))

		if c.Writer.Status() >= 500 {
			log.Printf("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed)
		}
	}
}
