package cronjobs

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"go-disasterai/alerts"
	"go-disasterai/detection"
	"go-disasterai/external"
	"go-disasterai/metrics"
	"go-disasterai/realtime"
	"go-disasterai/store"
	"go-disasterai/types"
)

// taskMaxAge is how long finished task records survive before cleanup.
const taskMaxAge = 24 * time.Hour

// Jobs bundles the services the scheduled work runs against.
type Jobs struct {
	External  *external.Service
	Disasters *detection.Service
	Alerts    *alerts.Service
	Notifier  *realtime.Notifier
	Tasks     *store.TaskStore

	mu   sync.Mutex
	seen map[string]bool
}

// alertWorthy gates which feed events generate outbound alerts. Green and
// yellow events are tracked but stay quiet.
func alertWorthy(level types.AlertLevel) bool {
	return level == types.AlertBlack || level == types.AlertRed || level == types.AlertOrange
}

// pollFeeds pulls the external feeds, registers every event, and pushes the
// new ones through the alert and websocket pipelines.
func (j *Jobs) pollFeeds() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	events := j.External.FetchAll(ctx)
	log.Printf("CronJob: feed poll returned %d events", len(events))

	for _, evt := range events {
		j.Disasters.Register(evt)

		j.mu.Lock()
		isNew := !j.seen[evt.EventID]
		j.seen[evt.EventID] = true
		j.mu.Unlock()

		if !isNew {
			j.Notifier.NotifyDisasterUpdate(evt)
			continue
		}

		metrics.EventsDetectedTotal.WithLabelValues(evt.Source).Inc()
		j.Notifier.NotifyNewDisaster(evt)

		// The alert service's callbacks handle the websocket broadcast.
		if alertWorthy(evt.AlertLevel) {
			j.Alerts.ProcessEvent(evt, nil)
			metrics.AlertsSentTotal.WithLabelValues(string(evt.AlertLevel)).Inc()
		}
	}
}

func (j *Jobs) cleanupTasks() {
	removed := j.Tasks.CleanupOlderThan(taskMaxAge)
	if removed > 0 {
		log.Printf("CronJob: cleaned up %d stale tasks", removed)
	}
}

// InitCronJobs schedules the recurring work and starts the scheduler. The
// returned cron can be stopped on shutdown.
func InitCronJobs(jobs *Jobs) *cron.Cron {
	log.Println("Starting Cron Jobs -------------------------------------------------------")
	jobs.seen = make(map[string]bool)
	c := cron.New()

	// Feed poll: every 10 minutes at the 0 minute mark
	_, err := c.AddFunc("*/10 * * * *", func() {
		log.Println("CronJob: External Feed Poll Running")
		jobs.pollFeeds()
	})
	if err != nil {
		log.Println("Error scheduling Feed Poll:", err)
	}

	// Task cleanup: hourly at the 30 minute mark
	_, err = c.AddFunc("30 * * * *", func() {
		log.Println("CronJob: Task Cleanup Running")
		jobs.cleanupTasks()
	})
	if err != nil {
		log.Println("Error scheduling Task Cleanup:", err)
	}

	c.Start()

	// Prime the registry so the dashboard isn't empty until the first tick.
	go jobs.pollFeeds()

	return c
}
