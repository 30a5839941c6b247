package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/quant-share/internal/logger"
	"github.com/yourusername/quant-share/internal/metrics"
	"github.com/yourusername/quant-share/internal/models"
	"github.com/yourusername/quant-share/internal/repository"
)

// Archiver exports an accepted result to secondary storage. Export failures
// are logged, never surfaced: the store stays authoritative.
type Archiver interface {
	Export(result *models.SharedResult) error
}

// AcceptanceThresholds optionally gates submissions on minimum performance.
// Disabled by default; when enabled, a result below any bound is rejected
// with a ValidationError naming the metric.
type AcceptanceThresholds struct {
	Enabled         bool    `mapstructure:"enabled"`
	MinTotalReturn  float64 `mapstructure:"min_total_return"`
	MinSharpeRatio  float64 `mapstructure:"min_sharpe_ratio"`
	MaxDrawdown     float64 `mapstructure:"max_drawdown"`
	MinWinRate      float64 `mapstructure:"min_win_rate"`
	MinProfitFactor float64 `mapstructure:"min_profit_factor"`
}

// ResultPage is one ordered page of matches plus the pre-pagination total.
type ResultPage struct {
	Results []*models.SharedResult
	Total   int
}

// SharingService is the repository facade: Validator, Store and Query Engine
// composed behind the operations the transport layer exposes.
type SharingService struct {
	store      repository.ResultRepository
	validator  *ResultValidator
	engine     *QueryEngine
	thresholds AcceptanceThresholds
	archiver   Archiver
	logger     *logrus.Logger
	shareLog   *logger.ShareLogger

	// pageCache keeps recent identical list evaluations hot. Every write
	// flushes it, so cached pages can never go stale.
	pageCache *cache.Cache
}

// SharingServiceConfig bundles the facade's collaborators.
type SharingServiceConfig struct {
	Store        repository.ResultRepository
	Scorer       *ScoreCalculator
	Thresholds   AcceptanceThresholds
	Archiver     Archiver
	Logger       *logrus.Logger
	PageCacheTTL time.Duration
}

// NewSharingService creates the facade.
func NewSharingService(cfg SharingServiceConfig) (*SharingService, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("result repository is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	ttl := cfg.PageCacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &SharingService{
		store:      cfg.Store,
		validator:  NewResultValidator(),
		engine:     NewQueryEngine(cfg.Store, cfg.Scorer),
		thresholds: cfg.Thresholds,
		archiver:   cfg.Archiver,
		logger:     cfg.Logger,
		shareLog:   logger.NewShareLogger(cfg.Logger),
		pageCache:  cache.New(ttl, ttl*2),
	}, nil
}

// Share validates and persists one submitted result and returns its
// server-assigned id. On validation failure nothing is persisted.
func (s *SharingService) Share(ctx context.Context, result *models.SharedResult) (uuid.UUID, error) {
	start := time.Now()

	if err := s.validator.Validate(result); err != nil {
		metrics.ShareRejectionsTotal.Inc()
		s.logRejection(result, err)
		return uuid.Nil, err
	}
	if err := s.checkThresholds(result); err != nil {
		metrics.ShareRejectionsTotal.Inc()
		s.logRejection(result, err)
		return uuid.Nil, err
	}

	result.ShareInfo.Tags = models.DedupeTags(result.ShareInfo.Tags)

	id, err := s.store.Insert(ctx, result)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to store shared result: %w", err)
	}

	s.pageCache.Flush()
	metrics.ResultsSharedTotal.Inc()
	metrics.ShareDuration.Observe(time.Since(start).Seconds())

	totalReturn, _ := result.PerformanceMetric(models.MetricTotalReturn)
	sharpeRatio, _ := result.PerformanceMetric(models.MetricSharpeRatio)
	s.shareLog.LogResultShared(id.String(), result.TaskID, result.StrategyName,
		result.Version, result.SharedBy, totalReturn, sharpeRatio)

	if s.archiver != nil {
		stored, getErr := s.store.GetByID(ctx, id)
		if getErr != nil {
			s.logger.WithError(getErr).Warn("Failed to read back result for archiving")
		} else if err := s.archiver.Export(stored); err != nil {
			s.logger.WithError(err).WithField("id", id).Warn("Failed to archive shared result")
		}
	}

	return id, nil
}

// List evaluates a filter and returns one ordered page plus the total match
// count. Repeated identical calls between writes are served from cache.
func (s *SharingService) List(ctx context.Context, filter models.ListFilter) (*ResultPage, error) {
	start := time.Now()

	key := pageCacheKey(filter)
	if cached, found := s.pageCache.Get(key); found {
		if page, ok := cached.(*ResultPage); ok {
			metrics.ListQueriesTotal.Inc()
			return page, nil
		}
	}

	results, total, err := s.engine.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := &ResultPage{Results: results, Total: total}
	s.pageCache.Set(key, page, cache.DefaultExpiration)

	elapsed := time.Since(start)
	metrics.ListQueriesTotal.Inc()
	metrics.ListDuration.Observe(elapsed.Seconds())
	s.shareLog.LogListQuery(filter.Query, filter.Limit, filter.Offset,
		total, len(results), elapsed.Seconds()*1000)
	return page, nil
}

// Get returns a single result by id.
func (s *SharingService) Get(ctx context.Context, id uuid.UUID) (*models.SharedResult, error) {
	return s.store.GetByID(ctx, id)
}

// Rate overwrites the rating on an existing result. Rating is the only
// mutable field; everything else is immutable once stored.
func (s *SharingService) Rate(ctx context.Context, id uuid.UUID, rating float64) error {
	if err := s.store.UpdateRating(ctx, id, rating); err != nil {
		return err
	}
	s.pageCache.Flush()
	s.shareLog.LogRatingUpdated(id.String(), rating)
	return nil
}

// Count reports the number of stored results.
func (s *SharingService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// logRejection records a refused submission with its offending field.
func (s *SharingService) logRejection(result *models.SharedResult, err error) {
	var taskID, strategyName string
	if result != nil {
		taskID, strategyName = result.TaskID, result.StrategyName
	}
	field, reason := "", err.Error()
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		field, reason = ve.Field, ve.Reason
	}
	s.shareLog.LogShareRejected(taskID, strategyName, field, reason)
}

// checkThresholds applies the optional acceptance gate.
func (s *SharingService) checkThresholds(result *models.SharedResult) error {
	if !s.thresholds.Enabled {
		return nil
	}

	type bound struct {
		metric  string
		minimum bool
		limit   float64
	}
	bounds := []bound{
		{models.MetricTotalReturn, true, s.thresholds.MinTotalReturn},
		{models.MetricSharpeRatio, true, s.thresholds.MinSharpeRatio},
		{models.MetricMaxDrawdown, false, s.thresholds.MaxDrawdown},
		{models.MetricWinRate, true, s.thresholds.MinWinRate},
		{models.MetricProfitFactor, true, s.thresholds.MinProfitFactor},
	}

	for _, b := range bounds {
		value, ok := result.PerformanceMetric(b.metric)
		if !ok {
			continue
		}
		if b.minimum && value < b.limit {
			return models.NewValidationError("performance."+b.metric,
				fmt.Sprintf("below acceptance threshold %v", b.limit))
		}
		if !b.minimum && value > b.limit {
			return models.NewValidationError("performance."+b.metric,
				fmt.Sprintf("above acceptance threshold %v", b.limit))
		}
	}
	return nil
}

// pageCacheKey derives a cache key from every filter dimension.
func pageCacheKey(filter models.ListFilter) string {
	return fmt.Sprintf("%s|%v|%v|%v|%d|%d|%s",
		filter.Query,
		ptrKey(filter.MinTotalReturn),
		ptrKey(filter.MaxDrawdown),
		ptrKey(filter.MinSharpeRatio),
		filter.Limit,
		filter.Offset,
		filter.SortBy,
	)
}

func ptrKey(f *float64) interface{} {
	if f == nil {
		return "-"
	}
	return *f
}
