// Package cmd provides the root command and CLI setup for the bidirectional renderer.
package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/df07/go-bidi-raytracer/pkg/logging"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bidi",
		Short: "Bidirectional path tracer",
		Long: `bidi renders built-in scenes with bidirectional path tracing.

Eye paths traced from the camera are connected to light paths traced from
the emitters. The strategy decides how much each connection contributes:
  - path     forward path tracing with next event estimation
  - light    light tracing splatted through the lens
  - uniform  every technique weighted equally
  - single   one fixed (light vertices, eye vertices) technique
  - mis      multiple importance sampling over all techniques`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(newRenderCmd(), newScenesCmd())
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newLogger builds the structured logger for cmd, writing to its error stream
func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	name, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return nil, errors.Wrapf(err, "--log-level %q", name)
	}
	return logging.New(logging.WriterLogger{W: cmd.ErrOrStderr()}, level), nil
}
