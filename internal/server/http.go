// Package server hosts the two transport adapters: a stateless streamable
// HTTP endpoint and a one-shot stdio connection. Neither transport
// interprets tool errors; they carry whatever the tool layer produced.
package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"stockdata-mcp/internal/config"
)

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HTTP serves the MCP endpoint over stateless HTTP: a fresh server instance
// per request, no session state between calls.
type HTTP struct {
	newServer func() *mcp.Server
	logger    zerolog.Logger
	port      int
	shutdown  time.Duration
}

// NewHTTP creates the HTTP transport. newServer is invoked once per request.
func NewHTTP(newServer func() *mcp.Server, logger zerolog.Logger, cfg config.ServerConfig) *HTTP {
	return &HTTP{
		newServer: newServer,
		logger:    logger,
		port:      cfg.HTTPPort,
		shutdown:  cfg.ShutdownTimeout,
	}
}

// Handler builds the route table.
func (h *HTTP) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(
		func(*http.Request) *mcp.Server { return h.newServer() },
		&mcp.StreamableHTTPOptions{Stateless: true},
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		// Stateless operation accepts only POST; session-oriented verbs are
		// rejected with a protocol-level error.
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		streamable.ServeHTTP(w, r)
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeMethodNotAllowed(w)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(healthResponse{
			Status:  "ok",
			Name:    config.ServerName,
			Version: config.ServerVersion,
		})
	})

	return securityHeaders(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (h *HTTP) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(h.port)),
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info().Int("port", h.port).Msg("HTTP transport listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdown)
	defer cancel()
	h.logger.Info().Msg("shutting down HTTP transport")
	return srv.Shutdown(shutdownCtx)
}

// writeMethodNotAllowed emits the JSON-RPC error envelope for unsupported
// verbs on the MCP endpoint.
func writeMethodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"error": map[string]interface{}{
			"code":    -32000,
			"message": "Method not allowed.",
		},
		"id": nil,
	})
}

// securityHeaders applies baseline response headers on every route.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
