package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"go-disasterai/alerts"
	"go-disasterai/analysis"
	"go-disasterai/cronjobs"
	"go-disasterai/detection"
	"go-disasterai/external"
	"go-disasterai/geocode"
	"go-disasterai/handlers"
	"go-disasterai/ingest"
	"go-disasterai/metrics"
	"go-disasterai/ner"
	"go-disasterai/realtime"
	"go-disasterai/routes"
	"go-disasterai/store"
	"go-disasterai/types"
)

// analysisPipeline feeds every admitted result through disaster detection
// and pushes whatever it finds to alerting and the websocket stream.
type analysisPipeline struct {
	disasters *detection.Service
	alerts    *alerts.Service
	notifier  *realtime.Notifier
}

func (p *analysisPipeline) Started(taskID string) {
	p.notifier.NotifyAnalysisStarted(taskID)
}

func (p *analysisPipeline) Publish(res types.AnalysisResult) {
	events := p.disasters.Ingest(res)
	for _, evt := range events {
		metrics.EventsDetectedTotal.WithLabelValues("analysis").Inc()
		p.notifier.NotifyNewDisaster(evt)

		switch evt.AlertLevel {
		case types.AlertBlack, types.AlertRed, types.AlertOrange:
			p.alerts.ProcessEvent(evt, nil)
			metrics.AlertsSentTotal.WithLabelValues(string(evt.AlertLevel)).Inc()
		}
	}
}

// openRedis connects to REDIS_ADDR. A missing address or failed ping is not
// fatal: the analysis cache runs memory-only.
func openRedis(ctx context.Context) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, analysis cache runs in memory")
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("Redis unavailable at %s, analysis cache runs in memory: %v", addr, err)
		return nil
	}
	log.Println("Redis connected:", addr)
	return rdb
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	ctx := context.Background()

	// Firestore is optional: without credentials the task store runs
	// memory-only.
	fsClient, err := store.InitFirestore(ctx)
	if err != nil {
		log.Printf("Firestore unavailable, tasks persist in memory only: %v", err)
	}
	defer store.CloseFirestore()

	rdb := openRedis(ctx)

	model := analysis.NewClientFromEnv()

	if _, err := geocode.InitMapsClient(); err != nil {
		log.Printf("Maps client unavailable, geocoding disabled: %v", err)
	}
	if _, err := ner.InitLanguageClient(ctx); err != nil {
		log.Printf("Natural Language client unavailable, using pattern extraction: %v", err)
	}
	defer ner.CloseLanguageClient()

	// Core services.
	tasks := store.NewTaskStore(fsClient)
	results := store.NewResultStore(0)
	disasters := detection.NewService()
	// Webhook delivery when ALERT_WEBHOOK_URLS is set; other channels are
	// log-only placeholders either way.
	var alertSender alerts.Sender
	if hook := alerts.NewWebhookSenderFromEnv(); hook != nil {
		alertSender = hook
	} else {
		log.Println("ALERT_WEBHOOK_URLS not set, alert delivery is log-only")
	}
	alertSvc := alerts.NewService(alertSender)
	ext := external.NewService()
	hub := realtime.NewHub()
	notifier := realtime.NewNotifier(hub)

	pipeline := &analysisPipeline{disasters: disasters, alerts: alertSvc, notifier: notifier}
	cache := ingest.NewCache(rdb, ingest.DefaultCacheTTL)
	gate := ingest.NewGate(model, cache, results, pipeline)

	// Every alert that goes out, regardless of which pipeline raised it,
	// also lands on the websocket alert stream.
	alertSvc.OnAlert(notifier.NotifyNewAlert)

	cronStop := cronjobs.InitCronJobs(&cronjobs.Jobs{
		External:  ext,
		Disasters: disasters,
		Alerts:    alertSvc,
		Notifier:  notifier,
		Tasks:     tasks,
	})
	defer cronStop.Stop()

	// System stats tick for websocket subscribers.
	statsCtx, cancelStats := context.WithCancel(ctx)
	defer cancelStats()
	go notifier.RunPeriodicStats(statsCtx, realtime.DefaultStatsInterval, func() interface{} {
		stats := disasters.Summary()
		return map[string]interface{}{
			"total_active_events":        stats.TotalActiveEvents,
			"total_historical_events":    stats.TotalHistoricalEvents,
			"disaster_type_distribution": stats.DisasterTypeCounts,
			"current_alert_levels":       stats.CurrentAlertLevels,
			"recent_activity":            stats.RecentActivity,
			"connected_clients":          hub.ClientCount(),
			"last_updated":               stats.LastUpdated,
		}
	})

	r := routes.SetupRouter(routes.Deps{
		Gate:      gate,
		Tasks:     tasks,
		Results:   results,
		Disasters: disasters,
		Alerts:    alertSvc,
		External:  ext,
		Hub:       hub,
		Checks: handlers.ServiceChecks{
			Analysis:  model != nil,
			Firestore: fsClient != nil,
			Redis:     rdb != nil,
			Geocoding: geocodeAvailable(),
			NERModel:  nerAvailable(ctx),
		},
		Model: model.Model(),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("DisasterAI backend listening on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func geocodeAvailable() bool {
	client, err := geocode.InitMapsClient()
	return err == nil && client != nil
}

func nerAvailable(ctx context.Context) bool {
	client, err := ner.InitLanguageClient(ctx)
	return err == nil && client != nil
}
