package service

import (
	"context"

	"github.com/weiawesome/wes-furniture/internal/domain"
	"github.com/weiawesome/wes-furniture/internal/search"
	"github.com/weiawesome/wes-furniture/pkg/log"
)

// searchServiceImpl implements SearchService.
type searchServiceImpl struct {
	ranker *search.Ranker
}

// NewSearchService creates a new search service.
func NewSearchService(ranker *search.Ranker) SearchService {
	return &searchServiceImpl{ranker: ranker}
}

// Search runs the ranked catalogue search. Results are not cached.
func (s *searchServiceImpl) Search(ctx context.Context, query string) (*domain.SearchResponse, error) {
	l := log.Ctx(ctx)

	resp, err := s.ranker.Search(ctx, query)
	if err != nil {
		l.Error().Err(err).Str(log.FieldQuery, query).Msg("search failed")
		return nil, err
	}

	l.Debug().
		Str(log.FieldQuery, query).
		Int("items", len(resp.Items)).
		Int("sets", len(resp.Sets)).
		Msg("search completed")
	return resp, nil
}
