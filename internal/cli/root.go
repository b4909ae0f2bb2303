// Package cli provides the command-line interface for the server.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stockdata-mcp/internal/cache"
	"stockdata-mcp/internal/config"
	"stockdata-mcp/internal/logging"
	"stockdata-mcp/internal/queue"
	"stockdata-mcp/internal/service"
	"stockdata-mcp/internal/yahoo"
	"stockdata-mcp/pkg/utils"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Service *service.Service
	Cache   *cache.Cache
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	retry := utils.NoRetry()
	if cfg.Upstream.RetryAttempts > 1 {
		retry = utils.DefaultRetryConfig()
		retry.MaxAttempts = cfg.Upstream.RetryAttempts
	}

	upstream := yahoo.NewClient(
		yahoo.WithBaseURLs(cfg.Upstream.QuoteBaseURL, cfg.Upstream.SearchBaseURL, cfg.Upstream.ChartBaseURL),
		yahoo.WithUserAgent(cfg.Upstream.UserAgent),
		yahoo.WithRetryConfig(retry),
	)

	app.Cache = cache.New()
	app.Service = service.New(upstream, queue.NewSerializer(), app.Cache, logger, service.Config{
		QuoteTTL:  cfg.Cache.QuoteTTL,
		SearchTTL: cfg.Cache.SearchTTL,
	})

	rootCmd := &cobra.Command{
		Use:   "stockdata-mcp",
		Short: "MCP server exposing stock quotes, search, and price history",
		Long: `stockdata-mcp is a Model Context Protocol server for financial-market data.

It exposes real-time quotes, ticker search, and historical OHLCV series as
MCP tools, over either a stdio connection or a stateless HTTP endpoint.
Upstream calls are serialized and responses briefly cached to stay inside
the data provider's rate limits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/stockdata-mcp)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newServeHTTPCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	// Running without a subcommand starts the stdio transport; that is what
	// MCP client launchers expect.
	rootCmd.RunE = newServeCmd(app).RunE

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", config.ServerName, config.ServerVersion)
		},
	}
}
