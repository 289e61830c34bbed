package renderer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskStats_Add(t *testing.T) {
	var total TaskStats
	total.Add(TaskStats{Pixels: 4, Passes: 2, EyePaths: 8, LightPaths: 8, Vertices: 40, Connections: 10, Contributions: 5, Elapsed: time.Second})
	total.Add(TaskStats{Pixels: 4, Passes: 1, EyePaths: 4, LightPaths: 4, Vertices: 8, Connections: 6, Contributions: 3, Splats: 2, Anomalies: 1, Elapsed: time.Second})

	assert.Equal(t, TaskStats{
		Pixels: 8, Passes: 3, EyePaths: 12, LightPaths: 12, Vertices: 48,
		Connections: 16, Contributions: 8, Splats: 2, Anomalies: 1, Elapsed: 2 * time.Second,
	}, total)
	assert.InDelta(t, 2, total.AverageVertices(), 1e-12)
	assert.InDelta(t, 0.5, total.ContributionRate(), 1e-12)

	var empty TaskStats
	assert.Zero(t, empty.AverageVertices())
	assert.Zero(t, empty.ContributionRate())
}
