package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Intake runs the therapy application wizard",
	Long: `Intake guides applicants through a fixed sequence of questions (age, gender
identity, therapist competences, review) and keeps their progress in a record store.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	config.RegisterFlags(rootCmd.PersistentFlags())
}

// loadApp resolves the configuration for cmd and wires the application.
func loadApp(ctx context.Context, cmd *cobra.Command) (*cli.App, error) {
	file, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{File: file, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}
	return cli.NewApp(ctx, cfg, nil)
}
