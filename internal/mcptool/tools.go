// Package mcptool binds the service operations to named, schema-validated
// MCP tools. It owns argument validation and result serialization; it never
// re-interprets error kinds coming out of the service.
package mcptool

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"stockdata-mcp/internal/config"
	apperrors "stockdata-mcp/internal/errors"
	"stockdata-mcp/internal/service"
)

var validate = validator.New()

// QuoteInput is the argument shape of get_stock_quote.
type QuoteInput struct {
	Ticker string   `json:"ticker" jsonschema:"Stock ticker symbol, 1-10 characters, e.g. AAPL" validate:"required,min=1,max=10"`
	Fields []string `json:"fields,omitempty" jsonschema:"Optional quote attributes to include; omit for all" validate:"omitempty,dive,min=1"`
}

// QuotesInput is the argument shape of get_stock_quotes.
type QuotesInput struct {
	Tickers []string `json:"tickers" jsonschema:"Ticker symbols to quote in one batch" validate:"required,min=1,dive,min=1,max=10"`
	Fields  []string `json:"fields,omitempty" jsonschema:"Optional quote attributes to include; omit for all" validate:"omitempty,dive,min=1"`
}

// QuotesOutput wraps the batch quote results.
type QuotesOutput struct {
	Quotes []*service.QuoteResponse `json:"quotes"`
}

// SearchInput is the argument shape of search_stocks.
type SearchInput struct {
	Query string `json:"query" jsonschema:"Company name or ticker fragment to search for" validate:"required,min=1"`
}

// HistoryInput is the argument shape of get_historical_data.
type HistoryInput struct {
	Ticker   string `json:"ticker" jsonschema:"Stock ticker symbol, 1-10 characters" validate:"required,min=1,max=10"`
	FromDate string `json:"fromDate" jsonschema:"Range start in YYYY-MM-DD format" validate:"required,datetime=2006-01-02"`
	ToDate   string `json:"toDate" jsonschema:"Range end in YYYY-MM-DD format, inclusive" validate:"required,datetime=2006-01-02"`
}

// handlers adapts the service to MCP tool handlers.
type handlers struct {
	svc    *service.Service
	logger zerolog.Logger
}

// NewServer builds an MCP server with the four data tools registered.
// The HTTP transport calls this once per request, so construction stays
// cheap: the heavyweight collaborators live inside the shared service.
func NewServer(svc *service.Service, logger zerolog.Logger) *mcp.Server {
	h := &handlers{svc: svc, logger: logger}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    config.ServerName,
		Version: config.ServerVersion,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stock_quote",
		Description: "Get the current market quote for a single ticker",
	}, h.getStockQuote)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_stock_quotes",
		Description: "Get current market quotes for several tickers in one call",
	}, h.getStockQuotes)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_stocks",
		Description: "Search for instruments by company name or ticker fragment",
	}, h.searchStocks)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_historical_data",
		Description: "Get daily OHLCV history for a ticker over a date range",
	}, h.getHistoricalData)

	return server
}

func (h *handlers) getStockQuote(ctx context.Context, req *mcp.CallToolRequest, in QuoteInput) (*mcp.CallToolResult, *service.QuoteResponse, error) {
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}
	quote, err := h.svc.GetQuote(ctx, in.Ticker, in.Fields)
	if err != nil {
		h.logger.Debug().Str("tool", "get_stock_quote").Err(err).Msg("tool call failed")
		return nil, nil, err
	}
	return nil, quote, nil
}

func (h *handlers) getStockQuotes(ctx context.Context, req *mcp.CallToolRequest, in QuotesInput) (*mcp.CallToolResult, *QuotesOutput, error) {
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}
	quotes, err := h.svc.GetQuotes(ctx, in.Tickers, in.Fields)
	if err != nil {
		h.logger.Debug().Str("tool", "get_stock_quotes").Err(err).Msg("tool call failed")
		return nil, nil, err
	}
	return nil, &QuotesOutput{Quotes: quotes}, nil
}

func (h *handlers) searchStocks(ctx context.Context, req *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, *service.SearchResponse, error) {
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}
	results, err := h.svc.Search(ctx, in.Query)
	if err != nil {
		h.logger.Debug().Str("tool", "search_stocks").Err(err).Msg("tool call failed")
		return nil, nil, err
	}
	return nil, results, nil
}

func (h *handlers) getHistoricalData(ctx context.Context, req *mcp.CallToolRequest, in HistoryInput) (*mcp.CallToolResult, *service.HistoricalResponse, error) {
	if err := validateInput(in); err != nil {
		return nil, nil, err
	}
	history, err := h.svc.GetHistoricalData(ctx, in.Ticker, in.FromDate, in.ToDate)
	if err != nil {
		h.logger.Debug().Str("tool", "get_historical_data").Err(err).Msg("tool call failed")
		return nil, nil, err
	}
	return nil, history, nil
}

// validateInput runs struct-tag validation and converts the first violation
// into the service's validation error shape.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	if fieldErrors, ok := err.(validator.ValidationErrors); ok && len(fieldErrors) > 0 {
		fe := fieldErrors[0]
		return apperrors.NewValidationError(fe.Field(), fe.Value(), "failed '"+fe.Tag()+"' constraint")
	}
	return apperrors.Wrap(err, "validating arguments")
}
