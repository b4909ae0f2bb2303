package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"stockdata-mcp/internal/cache"
	apperrors "stockdata-mcp/internal/errors"
	"stockdata-mcp/internal/queue"
	"stockdata-mcp/internal/yahoo"
)

// GetQuote returns the current quote for one ticker. Results are cached for
// the quote TTL under a fingerprint of ticker plus requested fields.
func (s *Service) GetQuote(ctx context.Context, ticker string, fields []string) (*QuoteResponse, error) {
	ticker = normalizeTicker(ticker)
	if err := validateTicker(ticker); err != nil {
		return nil, err
	}
	fields = normalizeFields(fields)

	key := cache.Key("quote", ticker, fieldsKey(fields))
	if v, ok := s.store.Get(key); ok {
		return v.(*QuoteResponse), nil
	}

	records, err := queue.Do(ctx, s.serializer, func(ctx context.Context) ([]yahoo.QuoteRecord, error) {
		return s.upstream.Quote(ctx, []string{ticker}, fields)
	})
	if err != nil {
		return nil, classifyQuoteError(err, "quote", ticker)
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError(ticker)
	}

	resp := mapQuoteRecord(ticker, records[0])
	s.store.Set(key, resp, s.quoteTTL)
	return resp, nil
}

// GetQuotes returns quotes for a list of tickers with one upstream call.
// Records come back in upstream-returned order. The cache fingerprint sorts
// the tickers, so request order never causes a redundant upstream call.
func (s *Service) GetQuotes(ctx context.Context, tickers []string, fields []string) ([]*QuoteResponse, error) {
	if len(tickers) == 0 {
		return nil, apperrors.NewValidationError("tickers", tickers, "must not be empty")
	}
	normalized := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = normalizeTicker(t)
		if err := validateTicker(t); err != nil {
			return nil, err
		}
		normalized = append(normalized, t)
	}
	fields = normalizeFields(fields)

	sorted := append([]string(nil), normalized...)
	sort.Strings(sorted)
	key := cache.Key("quotes", strings.Join(sorted, ","), fieldsKey(fields))
	if v, ok := s.store.Get(key); ok {
		return v.([]*QuoteResponse), nil
	}

	records, err := queue.Do(ctx, s.serializer, func(ctx context.Context) ([]yahoo.QuoteRecord, error) {
		return s.upstream.Quote(ctx, normalized, fields)
	})
	if err != nil {
		return nil, classifyQuoteError(err, "quotes", normalized...)
	}
	if len(records) == 0 {
		return nil, apperrors.NewNotFoundError(normalized...)
	}

	out := make([]*QuoteResponse, 0, len(records))
	for _, record := range records {
		// The requested ticker fallback only applies when a single symbol
		// was asked for; batch records identify themselves.
		fallback := record.Symbol
		if len(normalized) == 1 {
			fallback = normalized[0]
		}
		out = append(out, mapQuoteRecord(fallback, record))
	}
	s.store.Set(key, out, s.quoteTTL)
	return out, nil
}

// GetMultipleQuotes fetches quotes for several tickers best-effort: each
// ticker resolves independently, a failed ticker is logged and omitted from
// the result map, and the batch itself never fails. Upstream calls still
// serialize through the shared queue.
func (s *Service) GetMultipleQuotes(ctx context.Context, tickers []string) map[string]*QuoteResponse {
	results := make(map[string]*QuoteResponse, len(tickers))
	var mu sync.Mutex
	var g errgroup.Group

	for _, ticker := range tickers {
		ticker := normalizeTicker(ticker)
		g.Go(func() error {
			quote, err := s.GetQuote(ctx, ticker, nil)
			if err != nil {
				s.logger.Warn().Str("ticker", ticker).Err(err).Msg("skipping ticker in batch quote")
				return nil
			}
			mu.Lock()
			results[ticker] = quote
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// mapQuoteRecord maps a raw upstream record onto the stable output shape.
// The symbol defaults to the requested ticker when the record omits it, and
// the name resolves from the short name with the long name as fallback.
func mapQuoteRecord(requested string, record yahoo.QuoteRecord) *QuoteResponse {
	symbol := record.Symbol
	if symbol == "" {
		symbol = requested
	}

	name := record.ShortName
	if name == nil {
		name = record.LongName
	}

	return &QuoteResponse{
		Symbol:           symbol,
		Name:             name,
		Exchange:         record.FullExchangeName,
		Currency:         record.Currency,
		Price:            record.RegularMarketPrice,
		Change:           record.RegularMarketChange,
		ChangePercent:    record.RegularMarketChangePercent,
		DayHigh:          record.RegularMarketDayHigh,
		DayLow:           record.RegularMarketDayLow,
		Volume:           record.RegularMarketVolume,
		PreviousClose:    record.RegularMarketPreviousClose,
		MarketCap:        record.MarketCap,
		FiftyTwoWeekLow:  record.FiftyTwoWeekLow,
		FiftyTwoWeekHigh: record.FiftyTwoWeekHigh,
		TrailingPE:       record.TrailingPE,
		ForwardPE:        record.ForwardPE,
		DividendYield:    record.TrailingAnnualDividendYield,
		EPS:              record.EpsTrailingTwelveMonths,
		BookValue:        record.BookValue,
		MarketState:      record.MarketState,
		InstrumentType:   record.QuoteType,
	}
}
