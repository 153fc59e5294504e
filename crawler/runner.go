package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Job statuses
const (
	JobRunning   = "running"
	JobCompleted = "completed"
)

// Source is one crawl source the runner drives. Sources sharing a name (e.g.
// the PTT boards) accumulate into one count.
type Source struct {
	Name string
	Run  func(ctx context.Context) ([]string, error)
}

// Job is the poll-able handle for one orchestrated crawl run.
type Job struct {
	ID         string         `json:"job_id"`
	Status     string         `json:"status"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Counts     map[string]int `json:"counts"`
	Errors     []string       `json:"errors,omitempty"`
}

// Runner orchestrates the crawl sources sequentially in a background
// goroutine, one goroutine per triggered job. A source failure is recorded on
// the job and never aborts the remaining sources.
type Runner struct {
	sources []Source

	mu   sync.Mutex
	jobs map[string]*Job
}

// NewRunner creates a runner over the given sources, executed in order.
func NewRunner(sources []Source) *Runner {
	return &Runner{sources: sources, jobs: make(map[string]*Job)}
}

// Start launches a crawl run in the background and returns its job ID
// immediately. Callers poll JobStatus for completion and per-source counts.
func (r *Runner) Start(ctx context.Context) string {
	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobRunning,
		StartedAt: time.Now(),
		Counts:    make(map[string]int),
	}

	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()

	go r.runAll(ctx, job.ID)
	return job.ID
}

// JobStatus returns a snapshot of the job with the given ID.
func (r *Runner) JobStatus(id string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return snapshot(job), true
}

func (r *Runner) runAll(ctx context.Context, jobID string) {
	logrus.Infof("🕷️  Crawl run %s started", jobID)

	for _, src := range r.sources {
		titles, err := src.Run(ctx)
		if err != nil {
			logrus.Warnf("❌ [%s] %v", src.Name, err)
		}

		r.mu.Lock()
		job := r.jobs[jobID]
		job.Counts[src.Name] += len(titles)
		if err != nil {
			job.Errors = append(job.Errors, src.Name+": "+err.Error())
		}
		r.mu.Unlock()
	}

	now := time.Now()
	r.mu.Lock()
	job := r.jobs[jobID]
	job.Status = JobCompleted
	job.FinishedAt = &now
	counts := snapshot(job).Counts
	r.mu.Unlock()

	logrus.Infof("✅ Crawl run %s completed: %v", jobID, counts)
}

// snapshot copies a job so callers never share the runner's mutable state.
func snapshot(job *Job) Job {
	out := *job
	out.Counts = make(map[string]int, len(job.Counts))
	for k, v := range job.Counts {
		out.Counts[k] = v
	}
	out.Errors = append([]string(nil), job.Errors...)
	return out
}
