package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	appName    = "DisasterAI Backend"
	appVersion = "2.0.0"
)

var startTime = time.Now()

// ServiceChecks reports which optional backends came up at boot. Handlers
// only read it, main fills it in.
type ServiceChecks struct {
	Analysis  bool
	Firestore bool
	Redis     bool
	Geocoding bool
	NERModel  bool
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    appName,
		"version": appVersion,
		"status":  "operational",
	})
}

// Health reports per-service availability. Any unavailable service flips the
// overall status to degraded; clients treat degraded as usable.
func Health(c *gin.Context, checks ServiceChecks) {
	services := gin.H{
		"analysis_api": checks.Analysis,
		"database":     checks.Firestore,
		"cache":        checks.Redis,
		"geocoding":    checks.Geocoding,
		"ner_model":    checks.NERModel,
		"task_queue":   true,
	}

	status := "healthy"
	for _, up := range services {
		if up != true {
			status = "degraded"
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"version":        appVersion,
		"uptime_seconds": time.Since(startTime).Seconds(),
		"services":       services,
	})
}

// Config exposes the analysis knobs the frontend needs before the first
// request.
func Config(c *gin.Context, model string) {
	cacheEnabled := os.Getenv("REDIS_ADDR") != ""
	c.JSON(http.StatusOK, gin.H{
		"default_analysis_mode": "comprehensive",
		"max_file_size_mb":      maxUploadMB,
		"model":                 model,
		"enable_caching":        cacheEnabled,
		"cache_ttl_seconds":     3600,
	})
}
