package yahoo

import (
	"context"
	"net/url"
	"strings"
)

// quoteResponse is the wire shape of the v7 quote endpoint.
type quoteResponse struct {
	QuoteResponse struct {
		Result []QuoteRecord `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"quoteResponse"`
}

// Quote fetches quote records for the given symbols. The fields list, when
// non-empty, narrows the attributes the upstream includes; records for
// unknown symbols are simply absent from the result.
func (c *Client) Quote(ctx context.Context, symbols []string, fields []string) ([]QuoteRecord, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}

	var resp quoteResponse
	if err := c.getJSON(ctx, "quote", c.quoteBaseURL, params, &resp); err != nil {
		return nil, err
	}
	if err := classifyAPIError("quote", resp.QuoteResponse.Error); err != nil {
		return nil, err
	}
	return resp.QuoteResponse.Result, nil
}
