package service

import (
	"context"
	"strings"

	"stockdata-mcp/internal/cache"
	apperrors "stockdata-mcp/internal/errors"
	"stockdata-mcp/internal/queue"
	"stockdata-mcp/internal/yahoo"
)

// Search looks up instruments matching the query. Results are cached for the
// search TTL; instrument listings change rarely.
func (s *Service) Search(ctx context.Context, query string) (*SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewValidationError("query", query, "must not be empty")
	}

	key := cache.Key("search", query)
	if v, ok := s.store.Get(key); ok {
		return v.(*SearchResponse), nil
	}

	matches, err := queue.Do(ctx, s.serializer, func(ctx context.Context) ([]yahoo.SearchMatch, error) {
		return s.upstream.Search(ctx, query)
	})
	if err != nil {
		switch {
		case apperrors.Is(err, apperrors.ErrNotFound):
			return nil, apperrors.NewNotFoundError(query)
		case apperrors.Is(err, apperrors.ErrRateLimited):
			return nil, apperrors.NewRateLimitError("search")
		default:
			return nil, err
		}
	}

	results := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		result, ok := mapSearchMatch(match)
		if !ok {
			continue
		}
		results = append(results, result)
	}

	resp := &SearchResponse{Results: results}
	s.store.Set(key, resp, s.searchTTL)
	return resp, nil
}

// mapSearchMatch converts an upstream match, reporting ok=false for
// malformed entries. A match missing its symbol, its exchange, or both of
// its names is excluded whole; there are no partial results.
func mapSearchMatch(match yahoo.SearchMatch) (SearchResult, bool) {
	if match.Symbol == "" || match.Exchange == "" {
		return SearchResult{}, false
	}
	name := ""
	switch {
	case match.ShortName != nil && *match.ShortName != "":
		name = *match.ShortName
	case match.LongName != nil && *match.LongName != "":
		name = *match.LongName
	default:
		return SearchResult{}, false
	}
	return SearchResult{
		Symbol:   match.Symbol,
		Name:     name,
		Exchange: match.Exchange,
	}, true
}
