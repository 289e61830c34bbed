package renderer

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/integrator"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

var (
	// ErrInvalidJob is returned by NewJob for malformed configurations
	ErrInvalidJob = errors.New("invalid job")

	// ErrTaskRejected is returned when a submitted result cannot be merged
	ErrTaskRejected = errors.New("task result rejected")

	// ErrIncomplete is returned by Finish before every task was submitted
	ErrIncomplete = errors.New("job incomplete")
)

// MergeMode selects how task rasters are combined
type MergeMode int

const (
	// MergeBlend blends each arriving raster into a running average, so the
	// job raster is a valid preview after every task
	MergeBlend MergeMode = iota
	// MergeSum adds pass-weighted rasters and normalizes once at the end
	MergeSum
)

func (m MergeMode) String() string {
	switch m {
	case MergeBlend:
		return "blend"
	case MergeSum:
		return "sum"
	}
	return "unknown"
}

// ParseMergeMode resolves "blend" or "sum"
func ParseMergeMode(s string) (MergeMode, error) {
	switch strings.ToLower(s) {
	case "", "blend":
		return MergeBlend, nil
	case "sum":
		return MergeSum, nil
	}
	return 0, errors.Wrapf(ErrInvalidJob, "unknown merge mode %q", s)
}

// Scene interface to avoid circular imports
type Scene interface {
	GetLens() path.Lens
	GetLight() path.Light
	GetCaster() core.RayCaster
	GetBackground() core.Background
}

// JobConfig contains configuration for a bidirectional render
type JobConfig struct {
	Width                int             // Image width in pixels
	Height               int             // Image height in pixels
	EyePathsPerPixel     int             // Total eye paths per pixel over all tasks
	LightPathsPerEyePath int             // Light paths connected to each eye path
	Tasks                int             // Number of independent tasks the eye paths are split into
	Merge                MergeMode       // How task rasters are combined
	Seed                 uint64          // Base seed; each task derives its own stream
	ColorModel           core.ColorModel // Spectral sampling (nil = RGB)
}

// DefaultJobConfig returns sensible default values
func DefaultJobConfig() JobConfig {
	return JobConfig{
		Width:                400,
		Height:               300,
		EyePathsPerPixel:     16,
		LightPathsPerEyePath: 1,
		Tasks:                16,
		Merge:                MergeBlend,
		Seed:                 42,
		ColorModel:           core.RGBModel{},
	}
}

// Validate reports the first problem with the configuration
func (c JobConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.Wrapf(ErrInvalidJob, "image size %dx%d must be positive", c.Width, c.Height)
	case c.EyePathsPerPixel <= 0:
		return errors.Wrapf(ErrInvalidJob, "eye paths per pixel %d must be positive", c.EyePathsPerPixel)
	case c.LightPathsPerEyePath <= 0:
		return errors.Wrapf(ErrInvalidJob, "light paths per eye path %d must be positive", c.LightPathsPerEyePath)
	case c.Tasks <= 0:
		return errors.Wrapf(ErrInvalidJob, "task count %d must be positive", c.Tasks)
	case c.Tasks > c.EyePathsPerPixel:
		return errors.Wrapf(ErrInvalidJob, "%d tasks leave some without passes for %d eye paths per pixel", c.Tasks, c.EyePathsPerPixel)
	case c.Merge != MergeBlend && c.Merge != MergeSum:
		return errors.Wrapf(ErrInvalidJob, "unknown merge mode %d", c.Merge)
	}
	return nil
}

// Task is one unit of work: a number of eye paths per pixel over the whole image
type Task struct {
	ID      int // Stable index in [0, Tasks); also seeds the task's random stream
	Passes  int // Eye paths per pixel to trace
	Attempt int // Number of earlier attempts that were abandoned
}

// Job partitions the per-pixel eye paths into tasks, hands them out to
// workers and merges the rasters they return. All methods are safe for
// concurrent use.
type Job struct {
	id       uuid.UUID
	config   JobConfig
	scene    Scene
	strategy integrator.Strategy
	logger   *slog.Logger
	metrics  *Metrics

	mu              sync.Mutex
	next            int    // Next task never handed out
	requeue         []Task // Abandoned tasks waiting to be re-issued
	submitted       []bool
	tasksSubmitted  int
	passesSubmitted int
	raster          *Raster
	stats           TaskStats
}

// JobOption customizes a Job
type JobOption func(*Job)

// WithLogger sets the structured logger (default slog.Default())
func WithLogger(l *slog.Logger) JobOption {
	return func(j *Job) { j.logger = l }
}

// WithMetrics exports progress to m
func WithMetrics(m *Metrics) JobOption {
	return func(j *Job) { j.metrics = m }
}

// WithID overrides the generated job ID
func WithID(id uuid.UUID) JobOption {
	return func(j *Job) { j.id = id }
}

// NewJob validates the configuration eagerly so that nothing can fail mid-render
func NewJob(config JobConfig, scene Scene, strategy integrator.Strategy, opts ...JobOption) (*Job, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if scene == nil || scene.GetLens() == nil || scene.GetLight() == nil || scene.GetCaster() == nil {
		return nil, errors.Wrap(ErrInvalidJob, "scene needs a lens, a light and a ray caster")
	}
	if strategy == nil {
		return nil, errors.Wrap(ErrInvalidJob, "no strategy")
	}
	if config.ColorModel == nil {
		config.ColorModel = core.RGBModel{}
	}

	j := &Job{
		id:        uuid.New(),
		config:    config,
		scene:     scene,
		strategy:  strategy,
		logger:    slog.Default(),
		submitted: make([]bool, config.Tasks),
		raster:    NewRaster(config.Width, config.Height),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.logger = j.logger.With("job", j.id.String())
	j.logger.Info("job created",
		"width", config.Width, "height", config.Height,
		"eye_paths_per_pixel", config.EyePathsPerPixel,
		"light_paths_per_eye_path", config.LightPathsPerEyePath,
		"tasks", config.Tasks, "merge", config.Merge.String())
	return j, nil
}

// ID identifies the job in logs and reports
func (j *Job) ID() uuid.UUID { return j.id }

// Config returns the validated configuration
func (j *Job) Config() JobConfig { return j.config }

// passesFor splits the passes as evenly as possible, the remainder going to the first tasks
func (j *Job) passesFor(id int) int {
	passes := j.config.EyePathsPerPixel / j.config.Tasks
	if id < j.config.EyePathsPerPixel%j.config.Tasks {
		passes++
	}
	return passes
}

// NextTask hands out the next task, re-issuing abandoned ones first.
// It returns false once every task has been handed out.
func (j *Job) NextTask() (Task, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for len(j.requeue) > 0 {
		task := j.requeue[0]
		j.requeue = j.requeue[1:]
		if j.submitted[task.ID] {
			continue
		}
		j.metrics.issued()
		j.logger.Debug("task re-issued", "task", task.ID, "attempt", task.Attempt)
		return task, true
	}

	if j.next >= j.config.Tasks {
		return Task{}, false
	}
	task := Task{ID: j.next, Passes: j.passesFor(j.next)}
	j.next++
	j.metrics.issued()
	j.logger.Debug("task issued", "task", task.ID, "passes", task.Passes)
	return task, true
}

// Abandon returns a task that will not be submitted, so that NextTask can
// hand it out again
func (j *Job) Abandon(task Task, cause error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if task.ID < 0 || task.ID >= j.config.Tasks || j.submitted[task.ID] {
		return
	}
	task.Attempt++
	j.requeue = append(j.requeue, task)
	j.metrics.abandoned()
	j.logger.Warn("task abandoned", "task", task.ID, "attempt", task.Attempt, "cause", cause)
}

// SubmitTaskResult merges a completed task raster into the job raster. The
// merge holds the job lock for its whole duration. Each task is merged at
// most once.
func (j *Job) SubmitTaskResult(task Task, raster *Raster, stats TaskStats) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if task.ID < 0 || task.ID >= j.config.Tasks {
		return errors.Wrapf(ErrTaskRejected, "task %d out of range", task.ID)
	}
	if task.Passes != j.passesFor(task.ID) {
		return errors.Wrapf(ErrTaskRejected, "task %d reports %d passes, expected %d", task.ID, task.Passes, j.passesFor(task.ID))
	}
	if j.submitted[task.ID] {
		return errors.Wrapf(ErrTaskRejected, "task %d already submitted", task.ID)
	}
	if !j.raster.SameSize(raster) {
		return errors.Wrapf(ErrTaskRejected, "task %d raster does not match %dx%d", task.ID, j.config.Width, j.config.Height)
	}

	j.passesSubmitted += task.Passes
	switch j.config.Merge {
	case MergeBlend:
		j.raster.Blend(raster, float64(task.Passes)/float64(j.passesSubmitted))
	case MergeSum:
		j.raster.AddScaled(raster, float64(task.Passes))
	}
	j.submitted[task.ID] = true
	j.tasksSubmitted++
	stats.Passes = task.Passes
	j.stats.Add(stats)
	j.metrics.submitted(stats)

	j.logger.Info("task merged",
		"task", task.ID, "passes", task.Passes,
		"submitted", j.tasksSubmitted, "tasks", j.config.Tasks,
		"elapsed", stats.Elapsed, "anomalies", stats.Anomalies)
	return nil
}

// IsComplete reports whether every task has been submitted
func (j *Job) IsComplete() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tasksSubmitted == j.config.Tasks
}

// Progress returns the number of submitted tasks and the total
func (j *Job) Progress() (submitted, total int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.tasksSubmitted, j.config.Tasks
}

// Stats returns the sum of all submitted task statistics
func (j *Job) Stats() TaskStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stats
}

// Snapshot returns the current estimate of the image. It is valid after any
// number of submissions in either merge mode.
func (j *Job) Snapshot() *Raster {
	j.mu.Lock()
	defer j.mu.Unlock()

	img := j.raster.Clone()
	if j.config.Merge == MergeSum && j.passesSubmitted > 0 {
		img.Scale(1 / float64(j.passesSubmitted))
	}
	return img
}

// Finish returns the final image once every task has been submitted
func (j *Job) Finish() (*Raster, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.tasksSubmitted != j.config.Tasks {
		return nil, errors.Wrapf(ErrIncomplete, "%d of %d tasks submitted", j.tasksSubmitted, j.config.Tasks)
	}
	img := j.raster.Clone()
	if j.config.Merge == MergeSum {
		img.Scale(1 / float64(j.config.EyePathsPerPixel))
	}
	j.logger.Info("job finished",
		"eye_paths", j.stats.EyePaths, "light_paths", j.stats.LightPaths,
		"contributions", j.stats.Contributions, "anomalies", j.stats.Anomalies)
	return img, nil
}

// Worker creates a worker bound to this job. Workers are not safe for
// concurrent use; create one per goroutine.
func (j *Job) Worker() *Worker {
	return &Worker{
		job:        j,
		eyeArena:   path.NewArena(path.MaxDepth + 2),
		lightArena: path.NewArena(path.MaxDepth + 1),
	}
}
