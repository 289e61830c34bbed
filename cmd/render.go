package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"

	"github.com/df07/go-bidi-raytracer/pkg/config"
	"github.com/df07/go-bidi-raytracer/pkg/display"
	"github.com/df07/go-bidi-raytracer/pkg/integrator"
	"github.com/df07/go-bidi-raytracer/pkg/renderer"
	"github.com/df07/go-bidi-raytracer/pkg/scene"
)

const renderLongDescription = `Render a scene and store the image and a JSON run report.

Settings come from the defaults, then the --config job file, then any flags
given explicitly. The output bucket is a local directory or a gocloud URL
such as file:///tmp/renders or gs://bucket/prefix.`

// renderFlags holds the render command's flag values. Each one only replaces
// the config value when it is set on the command line.
type renderFlags struct {
	configFile  string
	metricsFile string
	sum         bool
	cfg         config.Config
}

func newRenderCmd() *cobra.Command {
	return newRenderCmdWith(&renderFlags{cfg: config.Default()})
}

func newRenderCmdWith(f *renderFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene",
		Long:  renderLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			return render(cmd.Context(), cmd, cfg, logger, f.metricsFile)
		},
	}

	c := &f.cfg
	fl := cmd.Flags()
	fl.StringVarP(&f.configFile, "config", "c", "", "YAML job file")
	fl.StringVarP(&c.Scene, "scene", "s", c.Scene, "scene to render (see the scenes command)")
	fl.IntVar(&c.Width, "width", c.Width, "image width (0 = scene default)")
	fl.IntVar(&c.Height, "height", c.Height, "image height (0 = keep the scene's aspect ratio)")
	fl.StringVar((*string)(&c.Strategy.Kind), "strategy", string(c.Strategy.Kind), "strategy: path, light, uniform, single or mis")
	fl.IntVar(&c.Strategy.MaxEyeDepth, "max-eye-depth", c.Strategy.MaxEyeDepth, "deepest eye vertex")
	fl.IntVar(&c.Strategy.MaxLightDepth, "max-light-depth", c.Strategy.MaxLightDepth, "deepest light vertex")
	fl.StringVar(&c.Strategy.Heuristic, "heuristic", c.Strategy.Heuristic, "MIS heuristic: balance or power")
	fl.IntVar(&c.Strategy.LightVertices, "light-vertices", c.Strategy.LightVertices, "light vertices of the single technique")
	fl.IntVar(&c.Strategy.EyeVertices, "eye-vertices", c.Strategy.EyeVertices, "eye vertices of the single technique")
	fl.IntVarP(&c.EyePathsPerPixel, "eye-paths", "e", c.EyePathsPerPixel, "eye paths per pixel")
	fl.IntVar(&c.LightPathsPerEyePath, "light-paths", c.LightPathsPerEyePath, "light paths connected to each eye path")
	fl.IntVarP(&c.Tasks, "tasks", "t", c.Tasks, "tasks the eye paths are split into")
	fl.IntVarP(&c.Workers, "workers", "w", c.Workers, "parallel workers (0 = CPU count)")
	fl.Uint64Var(&c.Seed, "seed", c.Seed, "random seed")
	fl.BoolVar(&f.sum, "sum", false, "sum task images and normalize at the end instead of blending a running preview")
	fl.StringVar(&c.ColorModel, "color", c.ColorModel, "color model: rgb or hero")
	fl.IntVar(&c.MaxAttempts, "max-attempts", c.MaxAttempts, "attempts per task before giving up")
	fl.StringVarP(&c.Output.Bucket, "output", "o", c.Output.Bucket, "output directory or bucket URL")
	fl.StringVar(&c.Output.Key, "key", c.Output.Key, "image key (default <scene>/<job id>.<format>)")
	fl.StringVarP(&c.Output.Format, "format", "f", c.Output.Format, "image format: png or tiff")
	fl.Float64Var(&c.Output.Exposure, "exposure", c.Output.Exposure, "exposure multiplier (0 = 1)")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile when done")

	return cmd
}

// flagFields maps each config flag to the field it sets
func flagFields(dst, src *config.Config) map[string]func() {
	return map[string]func(){
		"scene":           func() { dst.Scene = src.Scene },
		"width":           func() { dst.Width = src.Width },
		"height":          func() { dst.Height = src.Height },
		"strategy":        func() { dst.Strategy.Kind = src.Strategy.Kind },
		"max-eye-depth":   func() { dst.Strategy.MaxEyeDepth = src.Strategy.MaxEyeDepth },
		"max-light-depth": func() { dst.Strategy.MaxLightDepth = src.Strategy.MaxLightDepth },
		"heuristic":       func() { dst.Strategy.Heuristic = src.Strategy.Heuristic },
		"light-vertices":  func() { dst.Strategy.LightVertices = src.Strategy.LightVertices },
		"eye-vertices":    func() { dst.Strategy.EyeVertices = src.Strategy.EyeVertices },
		"eye-paths":       func() { dst.EyePathsPerPixel = src.EyePathsPerPixel },
		"light-paths":     func() { dst.LightPathsPerEyePath = src.LightPathsPerEyePath },
		"tasks":           func() { dst.Tasks = src.Tasks },
		"workers":         func() { dst.Workers = src.Workers },
		"seed":            func() { dst.Seed = src.Seed },
		"color":           func() { dst.ColorModel = src.ColorModel },
		"max-attempts":    func() { dst.MaxAttempts = src.MaxAttempts },
		"output":          func() { dst.Output.Bucket = src.Output.Bucket },
		"key":             func() { dst.Output.Key = src.Output.Key },
		"format":          func() { dst.Output.Format = src.Output.Format },
		"exposure":        func() { dst.Output.Exposure = src.Output.Exposure },
	}
}

// resolve layers the job file and the explicitly set flags over the defaults
func (f *renderFlags) resolve(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if f.configFile != "" {
		var err error
		if cfg, err = config.Load(f.configFile); err != nil {
			return config.Config{}, err
		}
	}

	set := flagFields(&cfg, &f.cfg)
	flags.Visit(func(fl *pflag.Flag) {
		if apply, ok := set[fl.Name]; ok {
			apply()
		}
	})
	if flags.Changed("sum") {
		cfg.Progressive = !f.sum
	}
	return cfg, cfg.Validate()
}

// render runs the job described by cfg on local workers and stores the result
func render(ctx context.Context, cmd *cobra.Command, cfg config.Config, logger *slog.Logger, metricsFile string) error {
	out := cmd.OutOrStdout()

	sc, err := scene.ByName(cfg.Scene)
	if err != nil {
		return err
	}
	strategy, err := integrator.New(cfg.StrategyOptions())
	if err != nil {
		return err
	}
	jobConfig, err := cfg.JobConfig(sc)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	job, err := renderer.NewJob(jobConfig, sc, strategy,
		renderer.WithLogger(logger),
		renderer.WithMetrics(renderer.NewMetrics(reg)))
	if err != nil {
		return err
	}
	dest, err := cfg.DisplayOutput(job.ID().String())
	if err != nil {
		return err
	}
	if dir, ok := cfg.Output.LocalDir(); ok {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "creating output directory %s", dir)
		}
	}

	host := renderer.NewHost(job, cfg.HostConfig())
	host.OnTaskMerged(newProgressPrinter(out, job).taskMerged)

	fmt.Fprintln(out, title(fmt.Sprintf("%s: %s", sc.Name, sc.Description)))
	fmt.Fprintln(out, numbers.Sprintf("%dx%d, %d eye paths per pixel, %s strategy, %d tasks on %d workers",
		jobConfig.Width, jobConfig.Height, jobConfig.EyePathsPerPixel, cfg.Strategy.Kind, jobConfig.Tasks, host.NumWorkers()))

	start := time.Now()
	img, err := host.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "rendering")
	}
	wall := time.Since(start)

	report := display.NewReport(job, sc.Name, string(cfg.Strategy.Kind), img, wall)
	if err := display.Save(ctx, dest, img, &report); err != nil {
		return err
	}

	fmt.Fprintln(out)
	writeStats(out, job.Stats(), wall)
	fmt.Fprintf(out, "\nSaved %s and %s to %s\n", dest.Key, dest.ReportKey(), dest.BucketURL)

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
			return errors.Wrapf(err, "writing metrics to %s", metricsFile)
		}
	}
	return nil
}
