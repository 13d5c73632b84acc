package background

import (
	"context"
	"log"
	"sync"
	"time"

	"trznica/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the recurring background jobs.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	stockChecker *jobs.StockAlertChecker
	jobJobs      map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(stockChecker *jobs.StockAlertChecker) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		stockChecker: stockChecker,
		jobJobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Low stock scan - every 30 minutes
	alertsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.stockChecker.ScheduledCheck, context.Background()),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low stock job: %v", err)
	} else {
		js.jobJobs["low-stock-alerts"] = alertsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobJobs[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	jobs := make([]string, 0, len(js.jobJobs))
	for name := range js.jobJobs {
		jobs = append(jobs, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobJobs),
		"jobs":       jobs,
	}
}
