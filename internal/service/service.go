// Package service implements the quote, search, and historical-data
// operations: input validation and normalization, cache consultation,
// serialized upstream calls, and mapping raw upstream records into the
// stable output shapes. All error classification happens here; transports
// only serialize whatever error reaches them.
package service

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"stockdata-mcp/internal/cache"
	apperrors "stockdata-mcp/internal/errors"
	"stockdata-mcp/internal/queue"
	"stockdata-mcp/internal/yahoo"
)

// Upstream is the capability the service needs from the market-data
// provider. The yahoo.Client satisfies it; tests substitute stubs.
type Upstream interface {
	Quote(ctx context.Context, symbols []string, fields []string) ([]yahoo.QuoteRecord, error)
	Search(ctx context.Context, query string) ([]yahoo.SearchMatch, error)
	Chart(ctx context.Context, symbol string, from, to time.Time) (*yahoo.ChartSeries, error)
}

// Config holds service tuning. Zero values fall back to the cache package
// defaults.
type Config struct {
	QuoteTTL  time.Duration
	SearchTTL time.Duration
}

// Service orchestrates the three data operations. The serializer and cache
// are injected rather than package-level state so tests and embedders can
// run independent instances.
type Service struct {
	upstream   Upstream
	serializer *queue.Serializer
	store      *cache.Cache
	logger     zerolog.Logger
	quoteTTL   time.Duration
	searchTTL  time.Duration
}

// New creates a Service.
func New(upstream Upstream, serializer *queue.Serializer, store *cache.Cache, logger zerolog.Logger, cfg Config) *Service {
	if cfg.QuoteTTL <= 0 {
		cfg.QuoteTTL = cache.TTLQuote
	}
	if cfg.SearchTTL <= 0 {
		cfg.SearchTTL = cache.TTLSearch
	}
	return &Service{
		upstream:   upstream,
		serializer: serializer,
		store:      store,
		logger:     logger,
		quoteTTL:   cfg.QuoteTTL,
		searchTTL:  cfg.SearchTTL,
	}
}

// tickerPattern accepts exchange-style symbols: letters, digits, and the
// separators Yahoo uses for classes, indexes, and currency pairs.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-^=]{1,10}$`)

// normalizeTicker trims and uppercases a raw ticker.
func normalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// validateTicker checks an already-normalized ticker.
func validateTicker(ticker string) error {
	if ticker == "" {
		return apperrors.NewValidationError("ticker", ticker, "must not be empty")
	}
	if !tickerPattern.MatchString(ticker) {
		return apperrors.NewValidationError("ticker", ticker, "must be 1-10 symbol characters")
	}
	return nil
}

// normalizeFields dedupes and trims a requested field list, expanding the
// synthetic "name" shorthand into the two upstream name fields (the
// upstream source has no single "name" attribute). The returned slice is
// sorted so field order never changes the cache fingerprint.
func normalizeFields(fields []string) []string {
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	add := func(f string) {
		if _, dup := seen[f]; dup {
			return
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	for _, f := range fields {
		f = strings.TrimSpace(f)
		switch f {
		case "":
		case "name":
			add("shortName")
			add("longName")
		default:
			add(f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// fieldsKey renders a normalized field list for cache fingerprints.
func fieldsKey(fields []string) string {
	if len(fields) == 0 {
		return "all"
	}
	return strings.Join(fields, ",")
}

// classifyQuoteError maps an upstream failure onto the error taxonomy,
// naming the tickers involved. Already-classified errors keep their kind;
// anything else passes through unchanged.
func classifyQuoteError(err error, operation string, tickers ...string) error {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return apperrors.NewNotFoundError(tickers...)
	case apperrors.Is(err, apperrors.ErrRateLimited):
		return apperrors.NewRateLimitError(operation)
	default:
		return err
	}
}
