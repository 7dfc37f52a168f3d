package search

import (
	"context"
	"fmt"

	"github.com/meghashyamc/whichpackage/db/searchdb"
	"github.com/meghashyamc/whichpackage/logger"
)

// Store is the query capability the engine needs: one round trip per
// search request, rows scanned into the unified projection.
type Store interface {
	Select(ctx context.Context, query string, args ...any) ([]searchdb.Row, error)
}

type Service struct {
	logger logger.Logger
	db     Store
}

func New(logger logger.Logger, db Store) *Service {
	return &Service{
		logger: logger,
		db:     db,
	}
}

// Response is the envelope returned for one search request.
type Response struct {
	HasMoreResults bool     `json:"has_more_results"`
	SearchTerm     string   `json:"search_term"`
	SearchFilters  []Filter `json:"search_filters"`
	Results        []Result `json:"results"`
}

// Fetch answers one free-text package query. Terms are sanitized and split
// into structured filters and free-text terms; the three match strategies
// are combined server-side into a single statement so every request sees
// one consistent snapshot of the search view.
//
// page is clamped to >= 1. pageSize must be >= 1; validating that is the
// caller's responsibility.
func (s *Service) Fetch(ctx context.Context, rawTerms []string, page, pageSize int) (*Response, error) {
	if page < 1 {
		page = 1
	}

	terms, filters := splitFilters(sanitizeTerms(rawTerms))

	response := &Response{
		SearchTerm:    mergeTerms(terms),
		SearchFilters: filters,
		Results:       []Result{},
	}

	// Nothing to search for is a normal path, not an error: return an
	// empty response without a store round trip.
	if len(terms) == 0 && len(filters) == 0 {
		return response, nil
	}

	query, args := composeQuery(terms, filters, page, pageSize)
	rows, err := s.db.Select(ctx, query, args...)
	if err != nil {
		s.logger.Error("search failed", "err", err.Error())
		return nil, fmt.Errorf("search failed: %w", err)
	}

	// Package rows beyond pageSize exist only because of the over-fetch;
	// they set the flag and are excluded from the returned list. Author and
	// keyword rows are never truncated by the package cutoff.
	packageRows := 0
	for _, row := range rows {
		result, err := newResult(row)
		if err != nil {
			s.logger.Debug("dropping malformed search row", "match_type", row.MatchType, "err", err.Error())
			continue
		}
		if result.MatchType == searchdb.MatchTypePackage {
			packageRows++
			if packageRows > pageSize {
				continue
			}
		}
		response.Results = append(response.Results, result)
	}
	response.HasMoreResults = packageRows > pageSize

	return response, nil
}
