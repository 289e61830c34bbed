package renderer

import "time"

// TaskStats contains statistics about one task, or the sum over many
type TaskStats struct {
	Pixels        int           // Pixels rendered
	Passes        int           // Eye paths traced per pixel
	EyePaths      int           // Eye sub-paths traced
	LightPaths    int           // Light sub-paths traced
	Vertices      int           // Vertices on all traced sub-paths, terminals included
	Connections   int           // Connections with a non-zero strategy weight
	Contributions int           // Connections that carried energy to the raster
	Splats        int           // Light tracing contributions that landed on the image
	Anomalies     int           // Numerical anomalies rejected
	Elapsed       time.Duration // Wall time spent tracing
}

// Add accumulates o into s
func (s *TaskStats) Add(o TaskStats) {
	s.Pixels += o.Pixels
	s.Passes += o.Passes
	s.EyePaths += o.EyePaths
	s.LightPaths += o.LightPaths
	s.Vertices += o.Vertices
	s.Connections += o.Connections
	s.Contributions += o.Contributions
	s.Splats += o.Splats
	s.Anomalies += o.Anomalies
	s.Elapsed += o.Elapsed
}

// AverageVertices returns the mean sub-path length
func (s TaskStats) AverageVertices() float64 {
	paths := s.EyePaths + s.LightPaths
	if paths == 0 {
		return 0
	}
	return float64(s.Vertices) / float64(paths)
}

// ContributionRate returns the fraction of weighted connections that carried energy
func (s TaskStats) ContributionRate() float64 {
	if s.Connections == 0 {
		return 0
	}
	return float64(s.Contributions) / float64(s.Connections)
}
