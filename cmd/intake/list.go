package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aretw0/intake/pkg/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type listItem struct {
	ID          string `json:"id" yaml:"id"`
	CurrentStep string `json:"current_step" yaml:"current_step"`
	Progress    string `json:"progress" yaml:"progress"`
	Submitted   bool   `json:"submitted" yaml:"submitted"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications",
	Long:  `Prints the landing view: every application with its current step and status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		app, err := loadApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		summaries, err := app.Engine.List(cmd.Context())
		if err != nil {
			return err
		}
		return writeList(cmd.OutOrStdout(), output, summaries)
	},
}

func writeList(w io.Writer, format string, summaries []domain.Summary) error {
	items := make([]listItem, 0, len(summaries))
	for _, s := range summaries {
		item := listItem{ID: s.ID, CurrentStep: s.CurrentStep.String(), Submitted: s.Submitted}
		if p, err := domain.ProgressOf(s.CurrentStep); err == nil {
			item.Progress = p.String()
		}
		items = append(items, item)
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(items)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTEP\tPROGRESS\tSTATUS")
		for _, item := range items {
			status := "in progress"
			if item.Submitted {
				status = "submitted"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, item.CurrentStep, item.Progress, status)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q (table, json, yaml)", format)
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
}
