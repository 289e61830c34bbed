// Package config loads render job files.
package config

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/df07/go-bidi-raytracer/pkg/core"
	"github.com/df07/go-bidi-raytracer/pkg/display"
	"github.com/df07/go-bidi-raytracer/pkg/integrator"
	"github.com/df07/go-bidi-raytracer/pkg/renderer"
	"github.com/df07/go-bidi-raytracer/pkg/scene"
)

// ErrInvalidConfig is returned for job files that cannot describe a render
var ErrInvalidConfig = errors.New("invalid config")

// Config is a render job as written in a YAML job file
type Config struct {
	Scene  string `yaml:"scene"`
	Width  int    `yaml:"width,omitempty"`  // 0 = scene default
	Height int    `yaml:"height,omitempty"` // 0 = derived from width and the scene's aspect ratio

	Strategy Strategy `yaml:"strategy"`

	EyePathsPerPixel     int    `yaml:"eyePathsPerPixel"`
	LightPathsPerEyePath int    `yaml:"lightPathsPerEyePath"`
	Tasks                int    `yaml:"tasks"`
	Workers              int    `yaml:"workers"`     // 0 = CPU count
	Progressive          bool   `yaml:"progressive"` // Blend each task into a running preview
	Seed                 uint64 `yaml:"seed"`
	ColorModel           string `yaml:"colorModel"` // "rgb" or "hero"
	MaxAttempts          int    `yaml:"maxAttempts"`

	Output Output `yaml:"output"`
}

// Strategy selects how eye and light sub-paths are combined
type Strategy struct {
	Kind          integrator.Kind `yaml:"kind"`
	MaxLightDepth int             `yaml:"maxLightDepth"`
	MaxEyeDepth   int             `yaml:"maxEyeDepth"`
	Heuristic     string          `yaml:"heuristic"`
	LightVertices int             `yaml:"lightVertices,omitempty"`
	EyeVertices   int             `yaml:"eyeVertices,omitempty"`
}

// Output selects where the image and report are written
type Output struct {
	Bucket   string  `yaml:"bucket"`        // Bucket URL, or a local directory
	Key      string  `yaml:"key,omitempty"` // "" = <scene>/<job id>.<format>
	Format   string  `yaml:"format"`
	Exposure float64 `yaml:"exposure,omitempty"`
}

// Default returns a job that renders the Cornell box with full MIS
func Default() Config {
	return Config{
		Scene: "cornell",
		Strategy: Strategy{
			Kind:          integrator.KindMIS,
			MaxLightDepth: 5,
			MaxEyeDepth:   5,
			Heuristic:     "power",
		},
		EyePathsPerPixel:     50,
		LightPathsPerEyePath: 1,
		Tasks:                10,
		Workers:              0, // Auto-detect CPU count
		Progressive:          true,
		Seed:                 42,
		ColorModel:           "rgb",
		MaxAttempts:          3,
		Output: Output{
			Bucket: "output",
			Format: string(display.FormatPNG),
		},
	}
}

// Load reads a YAML job file over the defaults and validates the result.
// Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading %s", path)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return c, nil
}

// Parse decodes YAML over the defaults and validates the result
func Parse(data []byte) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Marshal encodes the config as YAML
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	return data, errors.Wrap(err, "encoding config")
}

// Validate reports the first problem with the config
func (c Config) Validate() error {
	switch {
	case !slices.Contains(scene.Names(), c.Scene):
		return errors.Wrapf(ErrInvalidConfig, "unknown scene %q (known: %v)", c.Scene, scene.Names())
	case c.Width < 0 || c.Height < 0:
		return errors.Wrapf(ErrInvalidConfig, "image size %dx%d must not be negative", c.Width, c.Height)
	case c.Height > 0 && c.Width == 0:
		return errors.Wrapf(ErrInvalidConfig, "height %d needs a width", c.Height)
	case c.EyePathsPerPixel <= 0:
		return errors.Wrapf(ErrInvalidConfig, "eyePathsPerPixel %d must be positive", c.EyePathsPerPixel)
	case c.LightPathsPerEyePath <= 0:
		return errors.Wrapf(ErrInvalidConfig, "lightPathsPerEyePath %d must be positive", c.LightPathsPerEyePath)
	case c.Tasks <= 0 || c.Tasks > c.EyePathsPerPixel:
		return errors.Wrapf(ErrInvalidConfig, "tasks %d must be between 1 and eyePathsPerPixel %d", c.Tasks, c.EyePathsPerPixel)
	case c.Workers < 0:
		return errors.Wrapf(ErrInvalidConfig, "workers %d must not be negative", c.Workers)
	case c.MaxAttempts < 0:
		return errors.Wrapf(ErrInvalidConfig, "maxAttempts %d must not be negative", c.MaxAttempts)
	case c.Output.Exposure < 0:
		return errors.Wrapf(ErrInvalidConfig, "exposure %v must not be negative", c.Output.Exposure)
	}
	if _, err := c.Model(); err != nil {
		return err
	}
	if _, err := display.ParseFormat(c.Output.Format); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	if _, err := integrator.New(c.StrategyOptions()); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	return nil
}

// Model resolves the color model name
func (c Config) Model() (core.ColorModel, error) {
	switch strings.ToLower(c.ColorModel) {
	case "", "rgb":
		return core.RGBModel{}, nil
	case "hero":
		return core.HeroChannelModel{}, nil
	}
	return nil, errors.Wrapf(ErrInvalidConfig, "unknown color model %q", c.ColorModel)
}

// StrategyOptions maps the strategy section to integrator options
func (c Config) StrategyOptions() integrator.Options {
	return integrator.Options{
		Kind:          c.Strategy.Kind,
		MaxLightDepth: c.Strategy.MaxLightDepth,
		MaxEyeDepth:   c.Strategy.MaxEyeDepth,
		Heuristic:     c.Strategy.Heuristic,
		LightVertices: c.Strategy.LightVertices,
		EyeVertices:   c.Strategy.EyeVertices,
	}
}

// JobConfig maps the config to a renderer job for sc, filling the image
// size from the scene where the config leaves it open
func (c Config) JobConfig(sc *scene.Scene) (renderer.JobConfig, error) {
	model, err := c.Model()
	if err != nil {
		return renderer.JobConfig{}, err
	}

	width, height := c.Width, c.Height
	if width == 0 {
		width, height = sc.Width, sc.Height
	}
	if height == 0 {
		height = max(1, int(float64(width)/sc.CameraConfig.AspectRatio+0.5))
	}

	merge := renderer.MergeSum
	if c.Progressive {
		merge = renderer.MergeBlend
	}
	return renderer.JobConfig{
		Width:                width,
		Height:               height,
		EyePathsPerPixel:     c.EyePathsPerPixel,
		LightPathsPerEyePath: c.LightPathsPerEyePath,
		Tasks:                c.Tasks,
		Merge:                merge,
		Seed:                 c.Seed,
		ColorModel:           model,
	}, nil
}

// LocalDir returns the bucket as a directory when it is not a URL
func (o Output) LocalDir() (string, bool) {
	if o.Bucket == "" {
		return ".", true
	}
	if strings.Contains(o.Bucket, "://") {
		return "", false
	}
	return o.Bucket, true
}

// HostConfig maps the config to local host settings
func (c Config) HostConfig() renderer.HostConfig {
	h := renderer.DefaultHostConfig()
	h.NumWorkers = c.Workers
	if c.MaxAttempts > 0 {
		h.MaxAttempts = c.MaxAttempts
	}
	return h
}

// DisplayOutput maps the output section, naming the image after the scene and
// job when no key is set
func (c Config) DisplayOutput(jobID string) (display.Output, error) {
	format, err := display.ParseFormat(c.Output.Format)
	if err != nil {
		return display.Output{}, errors.Wrapf(ErrInvalidConfig, "%v", err)
	}
	key := c.Output.Key
	if key == "" {
		key = c.Scene + "/" + jobID + format.Extension()
	}
	bucket := c.Output.Bucket
	if dir, ok := c.Output.LocalDir(); ok {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return display.Output{}, errors.Wrapf(err, "resolving %s", dir)
		}
		bucket = (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()
	}
	return display.Output{
		BucketURL: bucket,
		Key:       key,
		Format:    format,
		Exposure:  c.Output.Exposure,
	}, nil
}
