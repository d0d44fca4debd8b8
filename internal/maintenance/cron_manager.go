// Package maintenance runs scheduled housekeeping jobs.
package maintenance

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"
)

// JobFunc is the body of a scheduled job
type JobFunc func()

// Job pairs a job body with its cron schedule
type Job struct {
	Func     JobFunc
	Schedule string
}

// JobRegistry maps job names to jobs
type JobRegistry map[string]Job

// CronManager schedules registered jobs on a cron dispatcher
type CronManager struct {
	dispatcher  *cron.Cron
	jobs        map[string]cron.EntryID
	mu          sync.Mutex
	jobRegistry JobRegistry
	logger      *slog.Logger
}

// NewCronManager creates a manager for the jobs in registry.
// Panicking jobs are recovered and logged.
func NewCronManager(registry JobRegistry, logger *slog.Logger) *CronManager {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))
	dispatcher := cron.New(
		cron.WithChain(cron.Recover(cronLogger)),
	)

	return &CronManager{
		dispatcher:  dispatcher,
		jobs:        make(map[string]cron.EntryID),
		jobRegistry: registry,
		logger:      logger,
	}
}

// LoadJobs (re)schedules every job in the registry.
// Jobs with an empty schedule are skipped; an invalid schedule is an error.
func (cm *CronManager) LoadJobs() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for name, entryID := range cm.jobs {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}

	names := make([]string, 0, len(cm.jobRegistry))
	for name := range cm.jobRegistry {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		job := cm.jobRegistry[name]
		if job.Schedule == "" {
			cm.logger.Info("job disabled", "name", name)
			continue
		}
		if err := cm.addJob(name, job); err != nil {
			return err
		}
		cm.logger.Info("job scheduled", "name", name, "schedule", job.Schedule)
	}

	return nil
}

// addJob adds one job to the dispatcher; callers hold mu
func (cm *CronManager) addJob(name string, job Job) error {
	id, err := cm.dispatcher.AddFunc(job.Schedule, job.Func)
	if err != nil {
		return fmt.Errorf("failed to add job %q: %w", name, err)
	}
	cm.jobs[name] = id
	return nil
}

// RemoveJob unschedules a job by name
func (cm *CronManager) RemoveJob(name string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if entryID, exists := cm.jobs[name]; exists {
		cm.dispatcher.Remove(entryID)
		delete(cm.jobs, name)
	}
}

// Scheduled returns the names of scheduled jobs, sorted
func (cm *CronManager) Scheduled() []string {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	names := make([]string, 0, len(cm.jobs))
	for name := range cm.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start starts the dispatcher in its own goroutine
func (cm *CronManager) Start() {
	cm.dispatcher.Start()
}

// Stop stops the dispatcher and waits for running jobs to finish
func (cm *CronManager) Stop() {
	ctx := cm.dispatcher.Stop()
	<-ctx.Done()
}
