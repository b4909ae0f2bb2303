package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	apperrors "stockdata-mcp/internal/errors"
)

// chartResponse is the wire shape of the v8 chart endpoint.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// chartQuote holds the OHLCV arrays. Elements decode as nil where the
// upstream emits JSON null for a day.
type chartQuote struct {
	Close  []*float64 `json:"close"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Volume []*int64   `json:"volume"`
}

// Chart fetches daily bars for symbol between from and to. The upstream
// treats the range end as exclusive; callers account for that.
func (c *Client) Chart(ctx context.Context, symbol string, from, to time.Time) (*ChartSeries, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(from.Unix(), 10))
	params.Set("period2", strconv.FormatInt(to.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("includePrePost", "false")

	endpoint := c.chartBaseURL + "/" + url.PathEscape(symbol)

	var resp chartResponse
	if err := c.getJSON(ctx, "chart", endpoint, params, &resp); err != nil {
		return nil, err
	}
	if err := classifyAPIError("chart", resp.Chart.Error); err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 {
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "upstream chart returned no result for %s", symbol)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, apperrors.NewUpstreamError("chart", fmt.Errorf("response for %s has no quote indicators", symbol))
	}
	quote := result.Indicators.Quote[0]

	return &ChartSeries{
		Timestamps: result.Timestamp,
		Close:      quote.Close,
		High:       quote.High,
		Low:        quote.Low,
		Volume:     quote.Volume,
	}, nil
}
