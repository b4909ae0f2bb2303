package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"stockdata-mcp/internal/mcptool"
	"stockdata-mcp/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve MCP over stdio (one persistent connection)",
		Example: `  stockdata-mcp serve
  stockdata-mcp  # same: stdio is the default transport`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.startJanitor(ctx)

			srv := mcptool.NewServer(app.Service, app.Logger)
			return server.RunStdio(ctx, srv, app.Logger)
		},
	}
}

func newServeHTTPCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve-http",
		Short: "Serve MCP over stateless HTTP",
		Long: `Serve the MCP endpoint at POST /mcp with no session state: every request
gets a fresh server instance. Also exposes GET /health.`,
		Example: `  stockdata-mcp serve-http
  stockdata-mcp serve-http --port 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if port, err := cmd.Flags().GetInt("port"); err == nil && port != 0 {
				app.Config.Server.HTTPPort = port
			}

			app.startJanitor(ctx)

			httpSrv := server.NewHTTP(func() *mcp.Server {
				return mcptool.NewServer(app.Service, app.Logger)
			}, app.Logger, app.Config.Server)
			return httpSrv.Run(ctx)
		},
	}
	cmd.Flags().Int("port", 0, "HTTP port (default from config)")
	return cmd
}

// startJanitor begins the optional cache sweep when configured.
func (app *App) startJanitor(ctx context.Context) {
	if interval := app.Config.Cache.SweepInterval; interval > 0 {
		app.Cache.StartJanitor(ctx, interval)
	}
}
