package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/docsearch/internal/domain"
)

// DefaultSearchLimit matches the result count of the site search bar.
const DefaultSearchLimit = 15

// SearchIndex is the read side of the search service.
type SearchIndex interface {
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

// Searcher queries the remote index.
type Searcher struct {
	index SearchIndex
	limit int
}

// NewSearcher creates a Searcher. A non-positive limit falls back to
// DefaultSearchLimit.
func NewSearcher(index SearchIndex, limit int) *Searcher {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Searcher{index: index, limit: limit}
}

// Search returns the records matching query. A blank query returns no
// results without calling the service.
func (s *Searcher) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}

	results, err := s.index.Search(ctx, query, s.limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	return results, nil
}
