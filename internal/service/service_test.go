package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdata-mcp/internal/cache"
	apperrors "stockdata-mcp/internal/errors"
	"stockdata-mcp/internal/queue"
	"stockdata-mcp/internal/yahoo"
)

func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }
func i64Ptr(i int64) *int64     { return &i }

// stubUpstream implements Upstream with programmable responses and records
// call start/end events for ordering assertions.
type stubUpstream struct {
	mu     sync.Mutex
	events []string
	delay  time.Duration

	quoteCalls  int
	quoteFields [][]string
	quoteFn     func(symbols, fields []string) ([]yahoo.QuoteRecord, error)

	searchCalls int
	searchFn    func(query string) ([]yahoo.SearchMatch, error)

	chartCalls int
	chartFrom  time.Time
	chartTo    time.Time
	chartFn    func(symbol string, from, to time.Time) (*yahoo.ChartSeries, error)
}

func (s *stubUpstream) record(event string) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *stubUpstream) Quote(ctx context.Context, symbols []string, fields []string) ([]yahoo.QuoteRecord, error) {
	s.record("quote:start")
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	s.quoteCalls++
	s.quoteFields = append(s.quoteFields, fields)
	s.mu.Unlock()
	defer s.record("quote:end")
	if s.quoteFn == nil {
		return nil, nil
	}
	return s.quoteFn(symbols, fields)
}

func (s *stubUpstream) Search(ctx context.Context, query string) ([]yahoo.SearchMatch, error) {
	s.record("search:start")
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	s.searchCalls++
	s.mu.Unlock()
	defer s.record("search:end")
	if s.searchFn == nil {
		return nil, nil
	}
	return s.searchFn(query)
}

func (s *stubUpstream) Chart(ctx context.Context, symbol string, from, to time.Time) (*yahoo.ChartSeries, error) {
	s.record("chart:start")
	s.mu.Lock()
	s.chartCalls++
	s.chartFrom, s.chartTo = from, to
	s.mu.Unlock()
	defer s.record("chart:end")
	if s.chartFn == nil {
		return nil, fmt.Errorf("no chart stub configured")
	}
	return s.chartFn(symbol, from, to)
}

func newTestService(upstream *stubUpstream) *Service {
	return New(upstream, queue.NewSerializer(), cache.New(), zerolog.Nop(), Config{})
}

func appleRecord() yahoo.QuoteRecord {
	return yahoo.QuoteRecord{
		Symbol:             "AAPL",
		ShortName:          strPtr("Apple Inc."),
		Currency:           strPtr("USD"),
		RegularMarketPrice: f64Ptr(190.12),
	}
}

func TestGetQuoteMapsRecord(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return []yahoo.QuoteRecord{appleRecord()}, nil
		},
	}
	svc := newTestService(upstream)

	quote, err := svc.GetQuote(context.Background(), "  aapl ", nil)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	require.NotNil(t, quote.Name)
	assert.Equal(t, "Apple Inc.", *quote.Name)
	require.NotNil(t, quote.Price)
	assert.Equal(t, 190.12, *quote.Price)
}

func TestGetQuoteOmitsAbsentAttributes(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return []yahoo.QuoteRecord{{Symbol: "AAPL", RegularMarketPrice: f64Ptr(190.12)}}, nil
		},
	}
	svc := newTestService(upstream)

	quote, err := svc.GetQuote(context.Background(), "AAPL", nil)
	require.NoError(t, err)

	raw, err := json.Marshal(quote)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, map[string]interface{}{
		"symbol": "AAPL",
		"price":  190.12,
	}, decoded, "absent upstream values must be omitted, not emitted as null")
}

func TestGetQuoteSymbolDefaultsToRequestedTicker(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return []yahoo.QuoteRecord{{RegularMarketPrice: f64Ptr(1.5)}}, nil
		},
	}
	svc := newTestService(upstream)

	quote, err := svc.GetQuote(context.Background(), "msft", nil)
	require.NoError(t, err)
	assert.Equal(t, "MSFT", quote.Symbol)
}

func TestGetQuoteNameFallsBackToLongName(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return []yahoo.QuoteRecord{{Symbol: "AAPL", LongName: strPtr("Apple Inc. (long)")}}, nil
		},
	}
	svc := newTestService(upstream)

	quote, err := svc.GetQuote(context.Background(), "AAPL", nil)
	require.NoError(t, err)
	require.NotNil(t, quote.Name)
	assert.Equal(t, "Apple Inc. (long)", *quote.Name)
}

func TestGetQuoteCachesWithinTTL(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return []yahoo.QuoteRecord{appleRecord()}, nil
		},
	}
	svc := newTestService(upstream)

	_, err := svc.GetQuote(context.Background(), "AAPL", []string{"regularMarketPrice"})
	require.NoError(t, err)
	_, err = svc.GetQuote(context.Background(), "AAPL", []string{"regularMarketPrice"})
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.quoteCalls, "second identical call within TTL must hit the cache")
}

func TestGetQuoteExpandsNameShorthand(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return []yahoo.QuoteRecord{appleRecord()}, nil
		},
	}
	svc := newTestService(upstream)

	_, err := svc.GetQuote(context.Background(), "AAPL", []string{"name", "regularMarketPrice"})
	require.NoError(t, err)

	require.Len(t, upstream.quoteFields, 1)
	sent := upstream.quoteFields[0]
	assert.NotContains(t, sent, "name", "the synthetic shorthand must not reach upstream")
	assert.Contains(t, sent, "shortName")
	assert.Contains(t, sent, "longName")
	assert.Contains(t, sent, "regularMarketPrice")
}

func TestGetQuoteEmptyResultIsNotFound(t *testing.T) {
	upstream := &stubUpstream{}
	svc := newTestService(upstream)

	_, err := svc.GetQuote(context.Background(), "NOPE", nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "ticker 'NOPE' not found")
}

func TestGetQuoteClassifiesRateLimit(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return nil, apperrors.Wrap(apperrors.ErrRateLimited, "upstream quote returned status 429")
		},
	}
	svc := newTestService(upstream)

	_, err := svc.GetQuote(context.Background(), "AAPL", nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrRateLimited))
	assert.Contains(t, err.Error(), "try again later")
}

func TestGetQuotePassesThroughUnknownErrors(t *testing.T) {
	boom := fmt.Errorf("connection reset by peer")
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return nil, boom
		},
	}
	svc := newTestService(upstream)

	_, err := svc.GetQuote(context.Background(), "AAPL", nil)
	assert.ErrorIs(t, err, boom)
}

func TestGetQuoteRejectsInvalidTicker(t *testing.T) {
	upstream := &stubUpstream{}
	svc := newTestService(upstream)

	for _, bad := range []string{"", "   ", "TOOLONGTICKER", "BAD TICK"} {
		_, err := svc.GetQuote(context.Background(), bad, nil)
		require.Error(t, err, "ticker %q", bad)
		assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
	}
	assert.Equal(t, 0, upstream.quoteCalls, "invalid tickers must never reach upstream")
}

func TestGetQuotesCacheKeyIsOrderInsensitive(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			records := make([]yahoo.QuoteRecord, 0, len(symbols))
			for _, s := range symbols {
				records = append(records, yahoo.QuoteRecord{Symbol: s, RegularMarketPrice: f64Ptr(1)})
			}
			return records, nil
		},
	}
	svc := newTestService(upstream)

	first, err := svc.GetQuotes(context.Background(), []string{"AAPL", "MSFT"}, nil)
	require.NoError(t, err)
	second, err := svc.GetQuotes(context.Background(), []string{"MSFT", "AAPL"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.quoteCalls, "reordered ticker lists must hit the same cache entry")
	assert.Equal(t, first, second)
}

func TestGetQuotesPreservesUpstreamOrder(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			// Upstream answers in its own order, not request order.
			return []yahoo.QuoteRecord{
				{Symbol: "MSFT", RegularMarketPrice: f64Ptr(2)},
				{Symbol: "AAPL", RegularMarketPrice: f64Ptr(1)},
			}, nil
		},
	}
	svc := newTestService(upstream)

	quotes, err := svc.GetQuotes(context.Background(), []string{"AAPL", "MSFT"}, nil)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "MSFT", quotes[0].Symbol)
	assert.Equal(t, "AAPL", quotes[1].Symbol)
}

func TestGetQuotesEmptyResultNamesWholeList(t *testing.T) {
	upstream := &stubUpstream{}
	svc := newTestService(upstream)

	_, err := svc.GetQuotes(context.Background(), []string{"FOO", "BAR"}, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	assert.Contains(t, err.Error(), "FOO")
	assert.Contains(t, err.Error(), "BAR")
}

func TestGetQuotesRejectsEmptyList(t *testing.T) {
	svc := newTestService(&stubUpstream{})

	_, err := svc.GetQuotes(context.Background(), nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestGetMultipleQuotesAbsorbsPerTickerFailures(t *testing.T) {
	upstream := &stubUpstream{
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			if len(symbols) == 1 && symbols[0] == "BAD" {
				return nil, fmt.Errorf("synthetic failure")
			}
			return []yahoo.QuoteRecord{{Symbol: symbols[0], RegularMarketPrice: f64Ptr(1)}}, nil
		},
	}
	svc := newTestService(upstream)

	results := svc.GetMultipleQuotes(context.Background(), []string{"AAPL", "BAD", "MSFT"})

	assert.Len(t, results, 2)
	assert.Contains(t, results, "AAPL")
	assert.Contains(t, results, "MSFT")
	assert.NotContains(t, results, "BAD")
}

func TestUpstreamCallsNeverInterleave(t *testing.T) {
	upstream := &stubUpstream{
		delay: 20 * time.Millisecond,
		quoteFn: func(symbols, fields []string) ([]yahoo.QuoteRecord, error) {
			return []yahoo.QuoteRecord{appleRecord()}, nil
		},
		searchFn: func(query string) ([]yahoo.SearchMatch, error) {
			return []yahoo.SearchMatch{{Symbol: "AAPL", ShortName: strPtr("Apple Inc."), Exchange: "NMS"}}, nil
		},
	}
	svc := newTestService(upstream)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.GetQuote(context.Background(), "AAPL", nil)
	}()
	time.Sleep(5 * time.Millisecond)
	go func() {
		defer wg.Done()
		_, _ = svc.Search(context.Background(), "apple")
	}()
	wg.Wait()

	require.Equal(t, []string{"quote:start", "quote:end", "search:start", "search:end"}, upstream.events,
		"the second call's start must follow the first call's end")
}
