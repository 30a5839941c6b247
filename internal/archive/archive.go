// Package archive persists accepted shared results as JSON files and applies
// a retention policy to the resulting directory. The archive is a secondary
// copy for operators and offline analysis; the store stays authoritative and
// the retention sweep never touches it.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/quant-share/internal/logger"
	"github.com/yourusername/quant-share/internal/metrics"
	"github.com/yourusername/quant-share/internal/models"
)

const filePrefix = "shared_result_"

// FileArchiver writes one JSON file per accepted result under a directory.
type FileArchiver struct {
	dir           string
	retentionDays int
	log           *logrus.Logger
	shareLog      *logger.ShareLogger

	now func() time.Time
}

// NewFileArchiver creates the archiver and ensures its directory exists.
func NewFileArchiver(dir string, retentionDays int, log *logrus.Logger) (*FileArchiver, error) {
	if dir == "" {
		return nil, fmt.Errorf("archive directory is required")
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	if log == nil {
		log = logrus.New()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &FileArchiver{
		dir:           dir,
		retentionDays: retentionDays,
		log:           log,
		shareLog:      logger.NewShareLogger(log),
		now:           time.Now,
	}, nil
}

// Export writes the result to <dir>/shared_result_<id>.json. The write goes
// through a temp file and rename so a crash never leaves a partial file.
func (a *FileArchiver) Export(result *models.SharedResult) error {
	if result == nil {
		return fmt.Errorf("result is required")
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result %s: %w", result.ID, err)
	}

	final := filepath.Join(a.dir, filePrefix+result.ID.String()+".json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write archive file: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("failed to finalize archive file: %w", err)
	}

	metrics.RecordArchiveExport()
	return nil
}

// Sweep deletes archive files older than the retention window and returns
// how many were removed.
func (a *FileArchiver) Sweep() (int, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read archive directory: %w", err)
	}

	cutoff := a.now().AddDate(0, 0, -a.retentionDays)
	examined, deleted := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !isArchiveFile(entry.Name()) {
			continue
		}
		examined++
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(a.dir, entry.Name())); err != nil {
			a.log.WithError(err).WithField("file", entry.Name()).Warn("Failed to remove expired archive file")
			continue
		}
		deleted++
	}

	if deleted > 0 {
		metrics.RecordArchiveSweep(deleted)
	}
	a.shareLog.LogArchiveSweep(examined, deleted, a.retentionDays)
	return deleted, nil
}

// Load reads one archived result back by id.
func (a *FileArchiver) Load(id string) (*models.SharedResult, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, filePrefix+id+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}

	var result models.SharedResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode archive file: %w", err)
	}
	return &result, nil
}

func isArchiveFile(name string) bool {
	return strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".json")
}
