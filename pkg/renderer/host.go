package renderer

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// HostConfig contains configuration for running a job locally
type HostConfig struct {
	NumWorkers  int           // Number of parallel workers (0 = use CPU count)
	MaxAttempts int           // Attempts per task before the render fails (0 = 3)
	IdleWait    time.Duration // Poll interval while waiting on in-flight tasks (0 = 10ms)
}

// DefaultHostConfig returns sensible default values
func DefaultHostConfig() HostConfig {
	return HostConfig{
		NumWorkers:  0, // Auto-detect CPU count
		MaxAttempts: 3,
		IdleWait:    10 * time.Millisecond,
	}
}

// TaskCallback is called after a task has been merged into the job
type TaskCallback func(task Task, stats TaskStats)

// TaskProgressCallback is called from worker goroutines as a task's rows complete
type TaskProgressCallback func(task Task, done, total int)

// Host schedules a job's tasks over a pool of local workers. A task whose
// worker fails or is cancelled is abandoned back to the job and re-issued.
type Host struct {
	job        *Job
	config     HostConfig
	onMerged   TaskCallback
	onProgress TaskProgressCallback
}

// NewHost creates a host for job
func NewHost(job *Job, config HostConfig) *Host {
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.IdleWait <= 0 {
		config.IdleWait = 10 * time.Millisecond
	}
	return &Host{job: job, config: config}
}

// OnTaskMerged installs a callback run from worker goroutines after each merge
func (h *Host) OnTaskMerged(fn TaskCallback) {
	h.onMerged = fn
}

// OnTaskProgress installs a callback told how many pixels of each running task are done
func (h *Host) OnTaskProgress(fn TaskProgressCallback) {
	h.onProgress = fn
}

// NumWorkers returns the number of workers the host runs
func (h *Host) NumWorkers() int {
	return h.config.NumWorkers
}

// Run executes the job to completion and returns its final image
func (h *Host) Run(ctx context.Context) (*Raster, error) {
	h.job.logger.Info("starting workers", "workers", h.config.NumWorkers)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < h.config.NumWorkers; i++ {
		i := i
		worker := h.job.Worker()
		g.Go(func() error {
			return h.work(gctx, i, worker)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return h.job.Finish()
}

// work is the main worker loop
func (h *Host) work(ctx context.Context, id int, worker *Worker) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, ok := h.job.NextTask()
		if !ok {
			if h.job.IsComplete() {
				return nil
			}
			// tasks still in flight elsewhere may come back abandoned
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(h.config.IdleWait):
			}
			continue
		}

		worker.OnProgress(h.progressFor(task))
		raster, stats, err := perform(ctx, worker, task)
		if err != nil {
			h.job.Abandon(task, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if task.Attempt+1 >= h.config.MaxAttempts {
				return errors.Wrapf(err, "task %d failed after %d attempts", task.ID, task.Attempt+1)
			}
			h.job.logger.Debug("worker retrying", "worker", id, "task", task.ID)
			continue
		}

		if err := h.job.SubmitTaskResult(task, raster, stats); err != nil {
			return err
		}
		if h.onMerged != nil {
			h.onMerged(task, stats)
		}
	}
}

// progressFor forwards a task's row progress to the host callback. The worker
// checks ctx itself, so the task is never aborted from here.
func (h *Host) progressFor(task Task) ProgressFunc {
	return func(done, total int) bool {
		if h.onProgress != nil {
			h.onProgress(task, done, total)
		}
		return true
	}
}

// perform runs a task, turning a panicking collaborator into an error
func perform(ctx context.Context, worker *Worker, task Task) (raster *Raster, stats TaskStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			raster = nil
			err = errors.Errorf("task %d panicked: %v", task.ID, fmt.Sprint(r))
		}
	}()
	return worker.PerformTask(ctx, task)
}
