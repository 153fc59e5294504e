package crawler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func waitForCompletion(t *testing.T, r *Runner, id string) Job {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := r.JobStatus(id)
		if !ok {
			t.Fatalf("job %s not found", id)
		}
		if job.Status == JobCompleted {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not complete", id)
	return Job{}
}

func TestRunnerIsolatesSourceFailures(t *testing.T) {
	sources := []Source{
		{Name: "cdc", Run: func(context.Context) ([]string, error) {
			return []string{"a", "b"}, nil
		}},
		{Name: "dcard", Run: func(context.Context) ([]string, error) {
			return nil, errors.New("blocked by cloudflare")
		}},
		{Name: "news", Run: func(context.Context) ([]string, error) {
			return []string{"c"}, nil
		}},
	}

	r := NewRunner(sources)
	id := r.Start(context.Background())
	if id == "" {
		t.Fatal("expected a job id")
	}

	job := waitForCompletion(t, r, id)
	if job.Counts["cdc"] != 2 || job.Counts["dcard"] != 0 || job.Counts["news"] != 1 {
		t.Errorf("unexpected counts: %v", job.Counts)
	}
	if len(job.Errors) != 1 {
		t.Errorf("expected one recorded error, got %v", job.Errors)
	}
	if job.FinishedAt == nil {
		t.Errorf("expected finished_at to be set")
	}
}

func TestRunnerAccumulatesSharedSourceName(t *testing.T) {
	boards := []string{"BabyMother", "Health"}
	var sources []Source
	for range boards {
		sources = append(sources, Source{Name: "ptt", Run: func(context.Context) ([]string, error) {
			return []string{"x", "y"}, nil
		}})
	}

	r := NewRunner(sources)
	job := waitForCompletion(t, r, r.Start(context.Background()))
	if job.Counts["ptt"] != 4 {
		t.Errorf("expected ptt count 4, got %d", job.Counts["ptt"])
	}
}

func TestRunnerUnknownJob(t *testing.T) {
	r := NewRunner(nil)
	if _, ok := r.JobStatus("nope"); ok {
		t.Errorf("expected unknown job to report not found")
	}
}

func TestRunnerPartialResultsStillCounted(t *testing.T) {
	sources := []Source{
		{Name: "ptt", Run: func(context.Context) ([]string, error) {
			// A board that ingested two pages then hit a network error.
			return []string{"a", "b"}, errors.New("page 3: timeout")
		}},
	}

	r := NewRunner(sources)
	job := waitForCompletion(t, r, r.Start(context.Background()))
	if job.Counts["ptt"] != 2 {
		t.Errorf("titles ingested before the failure must count, got %d", job.Counts["ptt"])
	}
	if len(job.Errors) != 1 {
		t.Errorf("expected the failure to be recorded")
	}
}
