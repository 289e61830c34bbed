package cmd

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/spf13/cobra"

	"github.com/df07/go-bidi-raytracer/pkg/scene"
)

func newScenesCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			scenes := scene.ListScenes()

			if asJSON {
				data, err := json.Marshal(scenes, jsontext.WithIndent("  "))
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(data))
				return err
			}

			fmt.Fprintln(out, title("Scenes"))
			writeScenes(out, scenes)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the scene list as JSON")

	return cmd
}
