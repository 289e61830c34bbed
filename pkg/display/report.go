package display

import (
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/pkg/errors"

	"github.com/df07/go-bidi-raytracer/pkg/renderer"
)

// Report summarizes one finished render
type Report struct {
	JobID                string      `json:"jobId"`
	Scene                string      `json:"scene"`
	Strategy             string      `json:"strategy"`
	Width                int         `json:"width"`
	Height               int         `json:"height"`
	EyePathsPerPixel     int         `json:"eyePathsPerPixel"`
	LightPathsPerEyePath int         `json:"lightPathsPerEyePath"`
	Tasks                int         `json:"tasks"`
	Merge                string      `json:"merge"`
	Seed                 uint64      `json:"seed"`
	Image                string      `json:"image,omitempty"` // Bucket key of the saved image
	Finished             time.Time   `json:"finished"`
	WallSeconds          float64     `json:"wallSeconds"`
	AverageLuminance     float64     `json:"averageLuminance"`
	Stats                ReportStats `json:"stats"`
}

// ReportStats mirrors renderer.TaskStats with durations in seconds
type ReportStats struct {
	Pixels           int     `json:"pixels"`
	EyePaths         int     `json:"eyePaths"`
	LightPaths       int     `json:"lightPaths"`
	Vertices         int     `json:"vertices"`
	Connections      int     `json:"connections"`
	Contributions    int     `json:"contributions"`
	Splats           int     `json:"splats"`
	Anomalies        int     `json:"anomalies"`
	TraceSeconds     float64 `json:"traceSeconds"` // Summed over tasks, so larger than wall time on many workers
	AverageVertices  float64 `json:"averageVertices"`
	ContributionRate float64 `json:"contributionRate"`
}

// NewReport collects the configuration and statistics of a finished job
func NewReport(job *renderer.Job, sceneName, strategy string, img *renderer.Raster, wall time.Duration) Report {
	cfg := job.Config()
	stats := job.Stats()
	r := Report{
		JobID:                job.ID().String(),
		Scene:                sceneName,
		Strategy:             strategy,
		Width:                cfg.Width,
		Height:               cfg.Height,
		EyePathsPerPixel:     cfg.EyePathsPerPixel,
		LightPathsPerEyePath: cfg.LightPathsPerEyePath,
		Tasks:                cfg.Tasks,
		Merge:                cfg.Merge.String(),
		Seed:                 cfg.Seed,
		Finished:             time.Now().UTC(),
		WallSeconds:          wall.Seconds(),
		Stats: ReportStats{
			Pixels:           stats.Pixels,
			EyePaths:         stats.EyePaths,
			LightPaths:       stats.LightPaths,
			Vertices:         stats.Vertices,
			Connections:      stats.Connections,
			Contributions:    stats.Contributions,
			Splats:           stats.Splats,
			Anomalies:        stats.Anomalies,
			TraceSeconds:     stats.Elapsed.Seconds(),
			AverageVertices:  stats.AverageVertices(),
			ContributionRate: stats.ContributionRate(),
		},
	}
	if img != nil {
		r.AverageLuminance = img.AverageLuminance()
	}
	return r
}

// Marshal encodes the report as indented JSON
func (r Report) Marshal() ([]byte, error) {
	b, err := json.Marshal(&r, json.Deterministic(true), jsontext.WithIndent("  "))
	return b, errors.Wrap(err, "encoding report")
}

// ParseReport decodes a report written by Marshal
func ParseReport(data []byte) (Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return Report{}, errors.Wrap(err, "decoding report")
	}
	return r, nil
}
