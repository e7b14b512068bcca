package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/intake/internal/presentation/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var reviewCmd = &cobra.Command{
	Use:   "review <id>",
	Short: "Show an application's answers",
	Long: `Renders the review summary of an application. Output is styled markdown on a
terminal and raw markdown otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		rec, err := app.Engine.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		render := tui.Renderer(tui.Plain)
		if isTerminal(out) {
			if render, err = tui.NewRenderer(""); err != nil {
				return err
			}
		}
		text, err := render(tui.ReviewMarkdown(rec))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, text)
		return err
	},
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
