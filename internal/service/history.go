package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "stockdata-mcp/internal/errors"
	"stockdata-mcp/internal/queue"
	"stockdata-mcp/internal/yahoo"
)

const dateLayout = "2006-01-02"

// maxHistoryYears bounds the requested span; wider ranges are rejected
// before any upstream interaction.
const maxHistoryYears = 5

// GetHistoricalData returns daily bars for ticker between fromDate and
// toDate inclusive, chronological in upstream order. Days the upstream
// reports incompletely are dropped whole. Historical responses are not
// cached: every call carries an explicit date range, so fingerprints would
// be unbounded and rarely reused.
func (s *Service) GetHistoricalData(ctx context.Context, ticker, fromDate, toDate string) (*HistoricalResponse, error) {
	ticker = normalizeTicker(ticker)
	if err := validateTicker(ticker); err != nil {
		return nil, err
	}
	from, to, err := validateDateRange(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	// The upstream chart API treats the range end as exclusive, so request
	// one extra day to include toDate itself.
	series, err := queue.Do(ctx, s.serializer, func(ctx context.Context) (*yahoo.ChartSeries, error) {
		return s.upstream.Chart(ctx, ticker, from, to.AddDate(0, 0, 1))
	})
	if err != nil {
		// Upstream internals are not leaked for this operation: everything
		// short of a validation failure reads as no data for this range.
		detail := fmt.Sprintf("no historical data for %s to %s", fromDate, toDate)
		return nil, apperrors.NewNotFoundErrorWithDetail(detail, ticker)
	}

	return &HistoricalResponse{ClosingPrices: mapChartSeries(series)}, nil
}

// validateDateRange enforces the range invariants before any cache or
// upstream touch: both dates parse, fromDate is not in the future, the range
// is not inverted, and the span stays within the allowed window. Each rule
// has its own message.
func validateDateRange(fromDate, toDate string) (time.Time, time.Time, error) {
	var zero time.Time

	from, err := time.ParseInLocation(dateLayout, fromDate, time.UTC)
	if err != nil {
		return zero, zero, apperrors.NewValidationError("fromDate", fromDate, "must be a valid date in YYYY-MM-DD format")
	}
	to, err := time.ParseInLocation(dateLayout, toDate, time.UTC)
	if err != nil {
		return zero, zero, apperrors.NewValidationError("toDate", toDate, "must be a valid date in YYYY-MM-DD format")
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if from.After(today) {
		return zero, zero, apperrors.NewValidationError("fromDate", fromDate, "must not be in the future")
	}
	if from.After(to) {
		return zero, zero, apperrors.NewValidationError("fromDate", fromDate, "must not be after toDate")
	}
	if from.AddDate(maxHistoryYears, 0, 0).Before(to) {
		return zero, zero, apperrors.NewValidationError("toDate", toDate,
			fmt.Sprintf("date range must not exceed %d years", maxHistoryYears))
	}
	return from, to, nil
}

// mapChartSeries converts raw parallel arrays into complete daily points.
// A day missing any of close, high, low, or volume is dropped entirely.
// The upstream's chronological order is preserved, never re-sorted.
func mapChartSeries(series *yahoo.ChartSeries) []HistoricalPoint {
	points := make([]HistoricalPoint, 0, series.Len())
	for i, ts := range series.Timestamps {
		if i >= len(series.Close) || i >= len(series.High) || i >= len(series.Low) || i >= len(series.Volume) {
			break
		}
		if series.Close[i] == nil || series.High[i] == nil || series.Low[i] == nil || series.Volume[i] == nil {
			continue
		}
		points = append(points, HistoricalPoint{
			Date:   time.Unix(ts, 0).UTC().Format(dateLayout),
			Close:  round2(*series.Close[i]),
			High:   round2(*series.High[i]),
			Low:    round2(*series.Low[i]),
			Volume: *series.Volume[i],
		})
	}
	return points
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
