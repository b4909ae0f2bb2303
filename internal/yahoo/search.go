package yahoo

import (
	"context"
	"net/url"
	"strconv"
)

// searchResponse is the wire shape of the v1 search endpoint. Only the
// instrument matches are read; news and navigation blocks are ignored.
type searchResponse struct {
	Quotes []SearchMatch `json:"quotes"`
	Error  *apiError     `json:"error"`
}

// Search looks up instruments matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchMatch, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("quotesCount", strconv.Itoa(10))
	params.Set("newsCount", "0")

	var resp searchResponse
	if err := c.getJSON(ctx, "search", c.searchBaseURL, params, &resp); err != nil {
		return nil, err
	}
	if err := classifyAPIError("search", resp.Error); err != nil {
		return nil, err
	}
	return resp.Quotes, nil
}
