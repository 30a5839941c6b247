package service

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/quant-share/internal/models"
	"github.com/yourusername/quant-share/internal/repository"
)

type recordingArchiver struct {
	exported []*models.SharedResult
}

func (a *recordingArchiver) Export(result *models.SharedResult) error {
	a.exported = append(a.exported, result)
	return nil
}

func newTestSharingService(t *testing.T, opts ...func(*SharingServiceConfig)) (*SharingService, *repository.MemoryResultRepository) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	store := repository.NewMemoryResultRepository()
	cfg := SharingServiceConfig{Store: store, Logger: logger}
	for _, opt := range opts {
		opt(&cfg)
	}

	svc, err := NewSharingService(cfg)
	require.NoError(t, err)
	return svc, store
}

func TestShareAssignsIDAndTimestamp(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	id, err := svc.Share(ctx, validResult())
	require.NoError(t, err)

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.Equal(t, 0.0, stored.ShareInfo.Rating)
}

func TestShareRejectionStoresNothing(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	invalid := validResult()
	invalid.TaskID = ""

	_, err := svc.Share(ctx, invalid)
	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))

	count, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestShareDedupesTags(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	result := validResult()
	result.ShareInfo.Tags = []string{"momentum", "daily", "momentum"}

	id, err := svc.Share(ctx, result)
	require.NoError(t, err)

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"momentum", "daily"}, stored.ShareInfo.Tags)
}

func TestShareVisibleInNextList(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	// Warm the page cache with an empty listing first.
	page, err := svc.List(ctx, models.ListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	id, err := svc.Share(ctx, validResult())
	require.NoError(t, err)

	// The write must invalidate the cached page.
	page, err = svc.List(ctx, models.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, id, page.Results[0].ID)
}

func TestListServedFromCacheIsStable(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	_, err := svc.Share(ctx, validResult())
	require.NoError(t, err)

	filter := models.ListFilter{Limit: 10}
	first, err := svc.List(ctx, filter)
	require.NoError(t, err)
	second, err := svc.List(ctx, filter)
	require.NoError(t, err)

	assert.Equal(t, first.Total, second.Total)
	require.Equal(t, len(first.Results), len(second.Results))
	assert.Equal(t, first.Results[0].ID, second.Results[0].ID)
}

func TestShareThresholdGate(t *testing.T) {
	thresholds := AcceptanceThresholds{
		Enabled:        true,
		MinTotalReturn: 15.0,
		MinSharpeRatio: 1.0,
		MaxDrawdown:    20.0,
	}
	svc, _ := newTestSharingService(t, func(cfg *SharingServiceConfig) {
		cfg.Thresholds = thresholds
	})
	ctx := context.Background()

	// Above all thresholds: accepted.
	_, err := svc.Share(ctx, validResult())
	require.NoError(t, err)

	// Below the return threshold: rejected with the metric named.
	weak := validResult()
	weak.Performance["total_return"] = 5.0
	_, err = svc.Share(ctx, weak)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "total_return")

	// Drawdown above the ceiling: rejected.
	deep := validResult()
	deep.Performance["max_drawdown"] = 45.0
	_, err = svc.Share(ctx, deep)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_drawdown")
}

func TestShareThresholdsDisabledByDefault(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	weak := validResult()
	weak.Performance["total_return"] = -50.0

	_, err := svc.Share(ctx, weak)
	assert.NoError(t, err)
}

func TestShareExportsToArchiver(t *testing.T) {
	archiver := &recordingArchiver{}
	svc, _ := newTestSharingService(t, func(cfg *SharingServiceConfig) {
		cfg.Archiver = archiver
	})
	ctx := context.Background()

	id, err := svc.Share(ctx, validResult())
	require.NoError(t, err)

	require.Len(t, archiver.exported, 1)
	assert.Equal(t, id, archiver.exported[0].ID)
}

func TestRateUpdatesStoredResult(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	id, err := svc.Share(ctx, validResult())
	require.NoError(t, err)

	require.NoError(t, svc.Rate(ctx, id, 4.5))

	stored, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4.5, stored.ShareInfo.Rating)

	page, err := svc.List(ctx, models.ListFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 4.5, page.Results[0].ShareInfo.Rating)
}

func newLogCapturingService(t *testing.T) (*SharingService, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	svc, err := NewSharingService(SharingServiceConfig{
		Store:  repository.NewMemoryResultRepository(),
		Logger: log,
	})
	require.NoError(t, err)
	return svc, buf
}

func lastLogEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestShareLogsAcceptedEvent(t *testing.T) {
	svc, buf := newLogCapturingService(t)

	id, err := svc.Share(context.Background(), validResult())
	require.NoError(t, err)

	entry := lastLogEntry(t, buf)
	assert.Equal(t, "sharing", entry["component"])
	assert.Equal(t, id.String(), entry["id"])
	assert.Equal(t, "MomentumBreakout", entry["strategy_name"])
}

func TestShareLogsRejectionEvent(t *testing.T) {
	svc, buf := newLogCapturingService(t)

	invalid := validResult()
	invalid.Performance["win_rate"] = 1.5

	_, err := svc.Share(context.Background(), invalid)
	require.Error(t, err)

	entry := lastLogEntry(t, buf)
	assert.Equal(t, "sharing", entry["component"])
	assert.Equal(t, "rejection", entry["event_type"])
	assert.Equal(t, "performance.win_rate", entry["field"])
}

func TestRateLogsRatingEvent(t *testing.T) {
	svc, buf := newLogCapturingService(t)
	ctx := context.Background()

	id, err := svc.Share(ctx, validResult())
	require.NoError(t, err)
	require.NoError(t, svc.Rate(ctx, id, 4.0))

	entry := lastLogEntry(t, buf)
	assert.Equal(t, "sharing", entry["component"])
	assert.Equal(t, "rating_update", entry["event_type"])
	assert.Equal(t, id.String(), entry["id"])
}

func TestShareDoesNotMutateCallerRecordOnRejection(t *testing.T) {
	svc, _ := newTestSharingService(t)
	ctx := context.Background()

	invalid := validResult()
	invalid.Version = ""
	invalid.ShareInfo.Tags = []string{"a", "a"}

	_, err := svc.Share(ctx, invalid)
	require.Error(t, err)

	// Tags stay untouched when validation fails before normalization.
	assert.Equal(t, []string{"a", "a"}, invalid.ShareInfo.Tags)
}
