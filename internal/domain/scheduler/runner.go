package scheduler

import (
	"context"
	"sync"
	"time"

	"fieldops/pkg/logger"
)

// Job is one periodic scan.
type Job struct {
	ID       string
	Interval time.Duration
	Run      func(ctx context.Context) (int, error)

	mu sync.Mutex
}

// Runner drives the jobs on their intervals. A job that is still
// running when its ticker fires again is skipped, never overlapped.
type Runner struct {
	jobs []*Job

	// OnComplete, when set, is called after every successful run with
	// the job ID and the number of notifications sent.
	OnComplete func(jobID string, sent int)
}

// NewRunner wires the standard scan set: weekly expiry scans and a
// daily meter-due scan.
func NewRunner(jobs *Jobs) *Runner {
	return &Runner{jobs: []*Job{
		{ID: "contract-expiry", Interval: 7 * 24 * time.Hour, Run: jobs.RunContractExpiryScan},
		{ID: "rental-expiry", Interval: 7 * 24 * time.Hour, Run: jobs.RunRentalExpiryScan},
		{ID: "meter-due", Interval: 24 * time.Hour, Run: jobs.RunMeterDueScan},
	}}
}

// Start launches every job in its own goroutine. Each job runs once
// immediately, then on its interval, until ctx is canceled. Start
// blocks until all jobs have stopped.
func (r *Runner) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range r.jobs {
		wg.Add(1)
		go func(job *Job) {
			defer wg.Done()
			r.execute(ctx, job)

			ticker := time.NewTicker(job.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					r.execute(ctx, job)
				}
			}
		}(job)
	}
	wg.Wait()
}

func (r *Runner) execute(ctx context.Context, job *Job) {
	if !job.mu.TryLock() {
		logger.Warn(ctx, "scan still running, skipping tick", "job", job.ID)
		return
	}
	defer job.mu.Unlock()

	started := time.Now()
	sent, err := job.Run(ctx)
	if err != nil {
		logger.Error(ctx, "scan failed", "job", job.ID, "error", err)
		return
	}
	if r.OnComplete != nil {
		r.OnComplete(job.ID, sent)
	}
	logger.Info(ctx, "scan completed",
		"job", job.ID, "sent", sent, "duration", time.Since(started).String())
}
