package renderer

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/path"
)

// ErrTaskAborted is returned when a progress callback asks a worker to stop
var ErrTaskAborted = errors.New("task aborted")

// ProgressFunc is told how many pixels of a task are done. Returning false
// aborts the task.
type ProgressFunc func(done, total int) bool

// Worker traces tasks for one job. It owns its node arenas and raster, so
// nothing it touches while tracing is shared.
type Worker struct {
	job        *Job
	eyeArena   *path.Arena
	lightArena *path.Arena
	faults     path.Faults
	progress   ProgressFunc
}

// OnProgress installs a callback checked once per image row. Host installs
// one per task; other schedulers can use it to stop a task early.
func (w *Worker) OnProgress(fn ProgressFunc) {
	w.progress = fn
}

// sampleState is the per-task context threaded through every sample
type sampleState struct {
	info      *path.Info
	sampler   core.Sampler
	raster    *Raster
	stats     *TaskStats
	splatBase float64 // light image weight: 1 / samples per pixel
}

// PerformTask traces task.Passes eye paths per pixel over the whole image and
// returns the task's raster, normalized to a per-sample average. Nothing is
// returned when ctx is cancelled or the progress callback aborts; the task is
// then safe to re-issue.
func (w *Worker) PerformTask(ctx context.Context, task Task) (*Raster, TaskStats, error) {
	cfg := w.job.config
	scene := w.job.scene
	start := time.Now()

	w.faults.Reset()
	raster := NewRaster(cfg.Width, cfg.Height)
	stats := TaskStats{Passes: task.Passes}
	samplesPerPixel := task.Passes * cfg.LightPathsPerEyePath
	if samplesPerPixel <= 0 {
		return nil, stats, errors.Wrapf(ErrTaskRejected, "task %d has no samples", task.ID)
	}

	st := &sampleState{
		info: &path.Info{
			Caster:     scene.GetCaster(),
			Light:      scene.GetLight(),
			Background: scene.GetBackground(),
			Faults:     &w.faults,
		},
		sampler:   core.NewRandomSampler(cfg.Seed, uint64(task.ID)),
		raster:    raster,
		stats:     &stats,
		splatBase: 1 / float64(samplesPerPixel),
	}

	total := cfg.Width * cfg.Height
	for y := 0; y < cfg.Height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, errors.Wrapf(err, "task %d stopped at row %d", task.ID, y)
		}
		if w.progress != nil && !w.progress(y*cfg.Width, total) {
			return nil, stats, errors.Wrapf(ErrTaskAborted, "task %d stopped at row %d", task.ID, y)
		}

		for x := 0; x < cfg.Width; x++ {
			var score core.Color
			for i := 0; i < task.Passes; i++ {
				score = score.Plus(w.sample(x, y, st))
			}
			raster.Add(x, y, score.Scale(st.splatBase))
			stats.Pixels++
		}
	}
	if w.progress != nil {
		w.progress(total, total)
	}

	stats.Anomalies = w.faults.Count
	stats.Elapsed = time.Since(start)
	return raster, stats, nil
}

// sample traces one eye path through pixel (x, y) and connects it to
// LightPathsPerEyePath fresh light paths. It returns the unnormalized score
// for (x, y); light tracing contributions are splatted straight into the raster.
func (w *Worker) sample(x, y int, st *sampleState) core.Color {
	cfg := w.job.config
	strategy := w.job.strategy

	st.info.Color = cfg.ColorModel.Sample(st.sampler.Get1D())
	mask := st.info.Color.Mask

	jitter := st.sampler.Get2D()
	p := core.NewVec2(
		(float64(x)+jitter.X)/float64(cfg.Width),
		(float64(y)+jitter.Y)/float64(cfg.Height),
	)

	w.eyeArena.Reset()
	eyeTail := strategy.TraceEyePath(w.job.scene.GetLens(), p, st.info, st.sampler, w.eyeArena)
	if eyeTail == nil {
		return core.Black
	}
	st.stats.EyePaths++
	st.stats.Vertices += path.Length(eyeTail)

	// eye vertices that found an emitter on their own, once per light path
	var score core.Color
	for e := eyeTail; e != nil && e.Kind() != path.EyeTerminal; e = e.Parent() {
		score = score.Plus(w.connect(nil, e, st))
	}
	score = score.Scale(float64(cfg.LightPathsPerEyePath))

	for j := 0; j < cfg.LightPathsPerEyePath; j++ {
		w.lightArena.Reset()
		lightTail := strategy.TraceLightPath(w.job.scene.GetLight(), st.info, st.sampler, w.lightArena)
		if lightTail == nil {
			continue
		}
		st.stats.LightPaths++
		st.stats.Vertices += path.Length(lightTail)

		for l := lightTail; l != nil; l = l.Parent() {
			for e := eyeTail; e != nil; e = e.Parent() {
				if e.Kind() == path.EyeTerminal {
					w.splat(l, e, mask, st)
					continue
				}
				score = score.Plus(w.connect(l, e, st))
			}
		}
	}

	return score.Times(mask)
}

// connect scores one connection between a light vertex (nil for "the eye
// path hit an emitter") and an eye scattering vertex
func (w *Worker) connect(light, eye *path.Node, st *sampleState) core.Color {
	weight := w.job.strategy.Weight(light, eye)
	if !w.usableWeight(weight, st) {
		return core.Black
	}
	st.stats.Connections++

	var c core.Color
	var ok bool
	if light == nil {
		c, ok = path.Emitted(eye)
	} else {
		c, ok = path.Join(light, eye)
	}
	if !ok {
		return core.Black
	}
	st.stats.Contributions++
	return c.Scale(weight)
}

// splat adds a light vertex seen through the aperture to the pixel it projects to
func (w *Worker) splat(light, eye *path.Node, mask core.Color, st *sampleState) {
	weight := w.job.strategy.Weight(light, eye)
	if !w.usableWeight(weight, st) {
		return
	}
	st.stats.Connections++

	p, ok := eye.Project(light.Position())
	if !ok {
		return
	}
	c, ok := path.Join(light, eye)
	if !ok {
		return
	}

	cfg := w.job.config
	px := core.Clamp(int(math.Floor(p.X*float64(cfg.Width))), 0, cfg.Width-1)
	py := core.Clamp(int(math.Floor(p.Y*float64(cfg.Height))), 0, cfg.Height-1)
	st.raster.Add(px, py, c.Times(mask).Scale(weight*st.splatBase))
	st.stats.Contributions++
	st.stats.Splats++
}

// usableWeight skips zero weights and records invalid ones as anomalies
func (w *Worker) usableWeight(weight float64, st *sampleState) bool {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight < 0 {
		st.info.Faults.Record(errors.Wrapf(path.ErrNumericalAnomaly, "strategy weight %v", weight))
		return false
	}
	return weight > 0
}
