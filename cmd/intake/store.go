package main

import (
	"fmt"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/config"
	"github.com/aretw0/intake/internal/presentation/tui"
	httpAdapter "github.com/aretw0/intake/pkg/adapters/http"
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Serve the record store API",
	Long: `Serves the record store REST API (/api/application) over the configured backend.
A wizard started with --store remote talks to this server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		app, err := loadApp(sc, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		if app.Config.Store.Backend == config.BackendRemote {
			return fmt.Errorf("the record store cannot itself use the remote backend")
		}

		handler, err := httpAdapter.NewStoreHandler(app.Store,
			httpAdapter.WithLogger(app.Logger),
			httpAdapter.WithMetricsHandler(app.MetricsHandler()),
		)
		if err != nil {
			return err
		}

		tui.PrintBanner(cmd.ErrOrStderr())
		cli.PrintSystemMessage(cmd.ErrOrStderr(), "Record store API on %s (backend: %s)", app.Config.HTTP.StoreAddr, app.Config.Store.Backend)
		if err := cli.Serve(sc, app.Config.HTTP.StoreAddr, handler, app.Logger); err != nil {
			return err
		}
		cli.PrintSystemMessage(cmd.ErrOrStderr(), "Record store stopped (%v).", sc.Signal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storeCmd)
}
