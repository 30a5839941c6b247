package archive

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/quant-share/internal/models"
)

func testResult() *models.SharedResult {
	return &models.SharedResult{
		ID:           uuid.New(),
		TaskID:       "task_001",
		StrategyName: "MomentumBreakout",
		Version:      "1.0.0",
		SharedBy:     "optimizer-7",
		Performance: models.Document{
			"total_return": 25.5,
			"sharpe_ratio": 1.8,
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestExportAndLoad(t *testing.T) {
	archiver, err := NewFileArchiver(t.TempDir(), 90, nil)
	require.NoError(t, err)

	result := testResult()
	require.NoError(t, archiver.Export(result))

	loaded, err := archiver.Load(result.ID.String())
	require.NoError(t, err)
	assert.Equal(t, result.ID, loaded.ID)
	assert.Equal(t, result.StrategyName, loaded.StrategyName)

	ret, ok := loaded.Performance.Float64("total_return")
	require.True(t, ok)
	assert.Equal(t, 25.5, ret)
}

func TestExportLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	archiver, err := NewFileArchiver(dir, 90, nil)
	require.NoError(t, err)

	require.NoError(t, archiver.Export(testResult()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}

func TestSweepRemovesOnlyExpiredFiles(t *testing.T) {
	dir := t.TempDir()
	archiver, err := NewFileArchiver(dir, 30, nil)
	require.NoError(t, err)

	fresh := testResult()
	require.NoError(t, archiver.Export(fresh))

	expired := testResult()
	require.NoError(t, archiver.Export(expired))
	expiredPath := filepath.Join(dir, filePrefix+expired.ID.String()+".json")
	old := time.Now().AddDate(0, 0, -60)
	require.NoError(t, os.Chtimes(expiredPath, old, old))

	// Unrelated files are never touched.
	otherPath := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(otherPath, []byte("keep"), 0o644))
	require.NoError(t, os.Chtimes(otherPath, old, old))

	deleted, err := archiver.Sweep()
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = os.Stat(expiredPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, filePrefix+fresh.ID.String()+".json"))
	assert.NoError(t, err)
	_, err = os.Stat(otherPath)
	assert.NoError(t, err)
}

func TestSweepLogsExaminedAndDeletedCounts(t *testing.T) {
	dir := t.TempDir()

	buf := &bytes.Buffer{}
	log := logrus.New()
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	archiver, err := NewFileArchiver(dir, 30, log)
	require.NoError(t, err)

	require.NoError(t, archiver.Export(testResult()))
	expired := testResult()
	require.NoError(t, archiver.Export(expired))
	old := time.Now().AddDate(0, 0, -60)
	expiredPath := filepath.Join(dir, filePrefix+expired.ID.String()+".json")
	require.NoError(t, os.Chtimes(expiredPath, old, old))

	_, err = archiver.Sweep()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	assert.Equal(t, "sharing", entry["component"])
	assert.Equal(t, float64(2), entry["files_examined"])
	assert.Equal(t, float64(1), entry["files_deleted"])
	assert.Equal(t, float64(30), entry["retention_days"])
}

func TestNewFileArchiverRequiresDirectory(t *testing.T) {
	_, err := NewFileArchiver("", 90, nil)
	assert.Error(t, err)
}
