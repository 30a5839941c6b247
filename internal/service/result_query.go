package service

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/quant-share/internal/models"
	"github.com/yourusername/quant-share/internal/repository"
)

// QueryEngine evaluates a list filter against the store and returns an
// ordered page of matches plus the pre-pagination total. All present
// predicates combine conjunctively; a record missing the metric a numeric
// bound targets does not match that bound.
type QueryEngine struct {
	store  repository.ResultRepository
	scorer *ScoreCalculator
}

// NewQueryEngine creates a query engine over the given store.
func NewQueryEngine(store repository.ResultRepository, scorer *ScoreCalculator) *QueryEngine {
	if scorer == nil {
		scorer = NewScoreCalculator(DefaultScoreWeights())
	}
	return &QueryEngine{store: store, scorer: scorer}
}

// List evaluates the filter and returns one page plus the total number of
// matches before pagination. A cancelled context abandons the evaluation
// without touching store state.
func (e *QueryEngine) List(ctx context.Context, filter models.ListFilter) ([]*models.SharedResult, int, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	snapshot, err := e.store.Scan(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan results: %w", err)
	}

	query := strings.ToLower(filter.Query)
	matched := make([]*models.SharedResult, 0, len(snapshot))
	for _, result := range snapshot {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		if e.matches(result, query, &filter) {
			matched = append(matched, result)
		}
	}

	e.order(matched, filter.SortBy)

	total := len(matched)
	page := paginate(matched, filter.Offset, filter.Limit)
	return page, total, nil
}

// matches evaluates every present predicate conjunctively.
func (e *QueryEngine) matches(result *models.SharedResult, loweredQuery string, filter *models.ListFilter) bool {
	if loweredQuery != "" && !matchesKeyword(result, loweredQuery) {
		return false
	}

	if filter.MinTotalReturn != nil {
		v, ok := result.PerformanceMetric(models.MetricTotalReturn)
		if !ok || v < *filter.MinTotalReturn {
			return false
		}
	}
	if filter.MaxDrawdown != nil {
		v, ok := result.PerformanceMetric(models.MetricMaxDrawdown)
		if !ok || v > *filter.MaxDrawdown {
			return false
		}
	}
	if filter.MinSharpeRatio != nil {
		v, ok := result.PerformanceMetric(models.MetricSharpeRatio)
		if !ok || v < *filter.MinSharpeRatio {
			return false
		}
	}

	return true
}

// matchesKeyword performs a case-insensitive substring match against the
// strategy name, the share description and each tag. strings.ToLower folds
// case across the full Unicode range, so non-ASCII strategy names work.
func matchesKeyword(result *models.SharedResult, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(result.StrategyName), loweredQuery) {
		return true
	}
	if strings.Contains(strings.ToLower(result.ShareInfo.ShareDescription), loweredQuery) {
		return true
	}
	for _, tag := range result.ShareInfo.Tags {
		if strings.Contains(strings.ToLower(tag), loweredQuery) {
			return true
		}
	}
	return false
}

// order sorts matches into the requested total order.
func (e *QueryEngine) order(results []*models.SharedResult, sortBy string) {
	switch sortBy {
	case models.SortByScore:
		sort.SliceStable(results, func(i, j int) bool {
			si, sj := e.scorer.Score(results[i]), e.scorer.Score(results[j])
			if si != sj {
				return si > sj
			}
			return newerFirst(results[i], results[j])
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return newerFirst(results[i], results[j])
		})
	}
}

// newerFirst is the default total order: created_at descending, ties broken
// by id ascending so equal timestamps still order deterministically.
func newerFirst(a, b *models.SharedResult) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

// paginate applies offset and limit to the ordered matches. An offset past
// the end yields an empty page; a limit past the end returns the remainder.
func paginate(results []*models.SharedResult, offset, limit int) []*models.SharedResult {
	if offset >= len(results) {
		return []*models.SharedResult{}
	}
	results = results[offset:]
	if limit < len(results) {
		results = results[:limit]
	}
	return results
}
