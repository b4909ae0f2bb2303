package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// RunStdio serves a single MCP server over stdin/stdout for the lifetime of
// the process. Tools are registered once; the connection ends when the
// client closes the pipe or ctx is canceled.
func RunStdio(ctx context.Context, server *mcp.Server, logger zerolog.Logger) error {
	logger.Info().Msg("stdio transport connected")
	return server.Run(ctx, &mcp.StdioTransport{})
}
