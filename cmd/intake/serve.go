package main

import (
	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/presentation/tui"
	httpAdapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the wizard API",
	Long: `Serves the wizard API (/applications) that drives applicants through the steps.
Use --store remote --remote-url to keep records in a separate "intake store" process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		app, err := loadApp(sc, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		handler, err := httpAdapter.NewWizardHandler(app.Engine,
			httpAdapter.WithLogger(app.Logger),
			httpAdapter.WithMetricsHandler(app.MetricsHandler()),
		)
		if err != nil {
			return err
		}

		tui.PrintBanner(cmd.ErrOrStderr())
		cli.PrintSystemMessage(cmd.ErrOrStderr(), "Wizard API on %s (backend: %s)", app.Config.HTTP.WizardAddr, app.Config.Store.Backend)
		if err := cli.Serve(sc, app.Config.HTTP.WizardAddr, handler, app.Logger); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.ErrOrStderr(), "Wizard stopped (%v).", sc.Signal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
