package fileops

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/dusk-indust/catmerge/internal/logging"
)

// DefaultWorkers bounds concurrent copies when no limit is configured.
const DefaultWorkers = 8

// Job describes a single file copy.
type Job struct {
	Src string
	Dst string
}

// Result holds the outcome of a single Job.
type Result struct {
	Job
	// Err is non-nil if the copy failed.
	Err error
}

// Pool copies batches of files in parallel. Each copy touches its own
// source/destination pair, so no state is shared between workers.
type Pool struct {
	workers  int
	onResult func(Result)
	log      *slog.Logger
}

// NewPool creates a Pool running at most workers copies at once.
// onResult is called from the worker goroutines; it may be nil.
func NewPool(workers int, onResult func(Result)) *Pool {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Pool{
		workers:  workers,
		onResult: onResult,
		log:      logging.New("fileops"),
	}
}

// Run copies every job and returns one Result per job, in job order.
// A failed copy is recorded in its Result and never stops the others.
// Jobs not yet started when ctx is canceled fail with ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(p.workers)

	for i, job := range jobs {
		g.Go(func() error {
			res := Result{Job: job}
			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				res.Err = CopyFile(job.Src, job.Dst)
			}
			if res.Err != nil {
				p.log.Warn("copy failed", "src", job.Src, "dst", job.Dst, "error", res.Err)
			}
			results[i] = res
			if p.onResult != nil {
				p.onResult(res)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
