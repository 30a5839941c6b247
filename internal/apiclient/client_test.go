package apiclient

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/quant-share/internal/models"
	"github.com/yourusername/quant-share/internal/repository"
	"github.com/yourusername/quant-share/internal/server"
	"github.com/yourusername/quant-share/internal/service"
)

func newTestService(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	repos := repository.NewMemoryRepositories()
	sharingSvc, err := service.NewSharingService(service.SharingServiceConfig{
		Store:  repos.Result,
		Logger: logger,
	})
	require.NoError(t, err)

	srv, err := server.NewServer(server.Config{
		ServiceName: "quant-share-test",
		Sharing:     sharingSvc,
		Logger:      logger,
	})
	require.NoError(t, err)
	srv.SetReady(true)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func testResult(strategyName string) *models.SharedResult {
	return &models.SharedResult{
		TaskID:       "task_001",
		StrategyName: strategyName,
		Version:      "1.0.0",
		SharedBy:     "optimizer-7",
		Performance: models.Document{
			"total_return": 25.0,
			"max_drawdown": 12.0,
			"sharpe_ratio": 1.9,
			"win_rate":     0.6,
		},
		ShareInfo: models.ShareInfo{
			ShareMethod: "api",
			Tags:        []string{"momentum"},
		},
	}
}

func TestClientShareAndList(t *testing.T) {
	ts := newTestService(t)
	client := NewClient(ts.URL, DefaultHTTPClientConfig(), nil)
	defer client.Close()

	ctx := context.Background()
	id, err := client.ShareResult(ctx, testResult("MomentumBreakout"))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	page, err := client.ListResults(ctx, ListParams{Query: "momentum"})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "MomentumBreakout", page.Results[0].StrategyName)
}

func TestClientShareValidationError(t *testing.T) {
	ts := newTestService(t)
	client := NewClient(ts.URL, DefaultHTTPClientConfig(), nil)
	defer client.Close()

	invalid := testResult("MomentumBreakout")
	invalid.TaskID = ""

	_, err := client.ShareResult(context.Background(), invalid)
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestClientRateResult(t *testing.T) {
	ts := newTestService(t)
	client := NewClient(ts.URL, DefaultHTTPClientConfig(), nil)
	defer client.Close()

	ctx := context.Background()
	id, err := client.ShareResult(ctx, testResult("MomentumBreakout"))
	require.NoError(t, err)

	require.NoError(t, client.RateResult(ctx, id, 4.5))

	page, err := client.ListResults(ctx, ListParams{})
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 4.5, page.Results[0].ShareInfo.Rating)
}

func TestClientHealth(t *testing.T) {
	ts := newTestService(t)
	client := NewClient(ts.URL, DefaultHTTPClientConfig(), nil)
	defer client.Close()

	assert.NoError(t, client.Health(context.Background()))
}
