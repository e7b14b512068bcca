package main

import (
	"fmt"

	"github.com/aretw0/intake/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// flowCmd represents the flow command
var flowCmd = &cobra.Command{
	Use:   "flow [id]",
	Short: "Export the application flow as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the step flow. With an application id,
the visited steps and the current one are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var overlay *graph.Overlay
		if len(args) == 1 {
			app, err := loadApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer app.Close()

			rec, err := app.Engine.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			overlay = graph.OverlayOf(rec)
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(overlay))
		return err
	},
}

func init() {
	rootCmd.AddCommand(flowCmd)
}
