package renderer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-bidi-raytracer/pkg/core"
)

func TestJobConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*JobConfig)
		valid  bool
	}{
		{"defaults", func(*JobConfig) {}, true},
		{"one task", func(c *JobConfig) { c.Tasks = 1 }, true},
		{"zero width", func(c *JobConfig) { c.Width = 0 }, false},
		{"negative height", func(c *JobConfig) { c.Height = -3 }, false},
		{"no eye paths", func(c *JobConfig) { c.EyePathsPerPixel = 0 }, false},
		{"no light paths", func(c *JobConfig) { c.LightPathsPerEyePath = 0 }, false},
		{"no tasks", func(c *JobConfig) { c.Tasks = 0 }, false},
		{"more tasks than passes", func(c *JobConfig) { c.Tasks = c.EyePathsPerPixel + 1 }, false},
		{"unknown merge", func(c *JobConfig) { c.Merge = MergeMode(7) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultJobConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidJob)
			}
		})
	}
}

func TestParseMergeMode(t *testing.T) {
	for in, want := range map[string]MergeMode{"": MergeBlend, "blend": MergeBlend, "SUM": MergeSum} {
		got, err := ParseMergeMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.Equal(t, want.String(), got.String())
	}
	_, err := ParseMergeMode("median")
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestNewJob_Invalid(t *testing.T) {
	sc := pointPlane(t)
	st := directOnly(t)

	_, err := NewJob(JobConfig{}, sc, st)
	assert.ErrorIs(t, err, ErrInvalidJob)
	_, err = NewJob(smallConfig(), nil, st)
	assert.ErrorIs(t, err, ErrInvalidJob)
	_, err = NewJob(smallConfig(), sc, nil)
	assert.ErrorIs(t, err, ErrInvalidJob)

	id := uuid.New()
	job := newTestJob(t, smallConfig(), sc, st, WithID(id))
	assert.Equal(t, id, job.ID())
}

func TestJob_TaskSplit(t *testing.T) {
	cfg := smallConfig()
	cfg.EyePathsPerPixel = 10
	cfg.Tasks = 4
	job := newTestJob(t, cfg, pointPlane(t), directOnly(t))

	var got []Task
	for {
		task, ok := job.NextTask()
		if !ok {
			break
		}
		got = append(got, task)
	}

	want := []Task{{ID: 0, Passes: 3}, {ID: 1, Passes: 3}, {ID: 2, Passes: 2}, {ID: 3, Passes: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("task split mismatch (-want +got):\n%s", diff)
	}
}

func TestJob_MergeModesAgree(t *testing.T) {
	cfg := smallConfig()
	cfg.Width, cfg.Height = 4, 3
	cfg.EyePathsPerPixel = 7
	cfg.Tasks = 3 // passes 3, 2, 2

	// task i returns a constant raster of value i+1
	expected := (3*1 + 2*2 + 2*3) / 7.0
	approx := cmpopts.EquateApprox(0, 1e-12)

	orders := map[string][]int{"in order": {0, 1, 2}, "reversed": {2, 1, 0}, "shuffled": {1, 2, 0}}
	for _, merge := range []MergeMode{MergeBlend, MergeSum} {
		for name, order := range orders {
			t.Run(merge.String()+" "+name, func(t *testing.T) {
				cfg.Merge = merge
				job := newTestJob(t, cfg, pointPlane(t), directOnly(t))

				tasks := make([]Task, cfg.Tasks)
				for range tasks {
					task, ok := job.NextTask()
					require.True(t, ok)
					tasks[task.ID] = task
				}
				for _, id := range order {
					raster := constant(cfg.Width, cfg.Height, core.Gray(float64(id+1)))
					require.NoError(t, job.SubmitTaskResult(tasks[id], raster, TaskStats{}))
				}
				require.True(t, job.IsComplete())

				img, err := job.Finish()
				require.NoError(t, err)
				want := constant(cfg.Width, cfg.Height, core.Gray(expected))
				if diff := cmp.Diff(want.Pixels, img.Pixels, approx); diff != "" {
					t.Errorf("final image mismatch (-want +got):\n%s", diff)
				}
				if diff := cmp.Diff(want.Pixels, job.Snapshot().Pixels, approx); diff != "" {
					t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestJob_SnapshotIsRunningAverage(t *testing.T) {
	for _, merge := range []MergeMode{MergeBlend, MergeSum} {
		t.Run(merge.String(), func(t *testing.T) {
			cfg := smallConfig()
			cfg.Width, cfg.Height = 2, 2
			cfg.EyePathsPerPixel = 3
			cfg.Tasks = 2 // passes 2, 1
			cfg.Merge = merge
			job := newTestJob(t, cfg, pointPlane(t), directOnly(t))

			first, _ := job.NextTask()
			second, _ := job.NextTask()
			require.NoError(t, job.SubmitTaskResult(second, constant(2, 2, core.Gray(6)), TaskStats{}))
			assert.InDelta(t, 6, job.Snapshot().At(1, 1).R, 1e-12)

			_, err := job.Finish()
			assert.ErrorIs(t, err, ErrIncomplete)
			done, total := job.Progress()
			assert.Equal(t, 1, done)
			assert.Equal(t, 2, total)

			require.NoError(t, job.SubmitTaskResult(first, constant(2, 2, core.Gray(3)), TaskStats{}))
			assert.InDelta(t, 4, job.Snapshot().At(0, 0).G, 1e-12)
		})
	}
}

func TestJob_SubmitRejected(t *testing.T) {
	cfg := smallConfig()
	job := newTestJob(t, cfg, pointPlane(t), directOnly(t))
	task, ok := job.NextTask()
	require.True(t, ok)
	good := NewRaster(cfg.Width, cfg.Height)

	tests := []struct {
		name   string
		task   Task
		raster *Raster
	}{
		{"unknown task", Task{ID: 9, Passes: task.Passes}, good},
		{"negative task", Task{ID: -1, Passes: task.Passes}, good},
		{"wrong passes", Task{ID: task.ID, Passes: task.Passes + 1}, good},
		{"wrong size", task, NewRaster(cfg.Width+1, cfg.Height)},
		{"no raster", task, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, job.SubmitTaskResult(tt.task, tt.raster, TaskStats{}), ErrTaskRejected)
		})
	}

	require.NoError(t, job.SubmitTaskResult(task, good, TaskStats{}))
	assert.ErrorIs(t, job.SubmitTaskResult(task, good, TaskStats{}), ErrTaskRejected, "duplicate")
	done, _ := job.Progress()
	assert.Equal(t, 1, done)
}

func TestJob_AbandonRequeues(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	cfg := smallConfig()
	cfg.Tasks = 3
	job := newTestJob(t, cfg, pointPlane(t), directOnly(t), WithMetrics(metrics))

	first, _ := job.NextTask()
	job.Abandon(first, assert.AnError)

	again, ok := job.NextTask()
	require.True(t, ok)
	assert.Equal(t, Task{ID: first.ID, Passes: first.Passes, Attempt: 1}, again)

	// a task abandoned after it was submitted is not handed out again
	require.NoError(t, job.SubmitTaskResult(again, NewRaster(cfg.Width, cfg.Height), TaskStats{Connections: 5, Splats: 2}))
	job.Abandon(first, assert.AnError)

	next, ok := job.NextTask()
	require.True(t, ok)
	assert.Equal(t, 1, next.ID)

	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.TasksIssued))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TasksAbandoned))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.TasksSubmitted))
	assert.Equal(t, float64(first.Passes), testutil.ToFloat64(metrics.PassesMerged))
	assert.Equal(t, 5.0, testutil.ToFloat64(metrics.Connections.WithLabelValues("weighted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.Connections.WithLabelValues("splatted")))
}
