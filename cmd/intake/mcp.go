package main

import (
	"fmt"

	"github.com/aretw0/intake/internal/cli"
	"github.com/aretw0/intake/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the wizard as an MCP Server so AI agents can fill in applications as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		app, err := loadApp(sc, cmd)
		if err != nil {
			return err
		}
		defer app.Close()

		srv := mcp.NewServer(app.Engine, app.Logger)

		switch transport {
		case "stdio":
			app.Logger.Info("Starting intake MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			app.Logger.Info("Starting intake MCP Server (SSE)", "port", port)
			if err := srv.ServeSSE(sc, port); err != nil {
				return err
			}
			app.Logger.Info("MCP Server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
