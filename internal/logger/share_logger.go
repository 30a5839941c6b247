// Package logger provides sharing-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// ShareLogger provides dedicated logging for result sharing operations.
type ShareLogger struct {
	*logrus.Entry
}

// NewShareLogger creates a new share logger.
func NewShareLogger(baseLogger *logrus.Logger) *ShareLogger {
	return &ShareLogger{
		Entry: baseLogger.WithField("component", "sharing"),
	}
}

// LogResultShared logs an accepted submission.
func (sl *ShareLogger) LogResultShared(id, taskID, strategyName, version, sharedBy string, totalReturn, sharpeRatio float64) {
	sl.WithFields(logrus.Fields{
		"id":            id,
		"task_id":       taskID,
		"strategy_name": strategyName,
		"version":       version,
		"shared_by":     sharedBy,
		"total_return":  totalReturn,
		"sharpe_ratio":  sharpeRatio,
	}).Info("Shared result stored")
}

// LogShareRejected logs a rejected submission.
func (sl *ShareLogger) LogShareRejected(taskID, strategyName, field, reason string) {
	sl.WithFields(logrus.Fields{
		"task_id":       taskID,
		"strategy_name": strategyName,
		"field":         field,
		"reason":        reason,
		"event_type":    "rejection",
	}).Warn("Shared result rejected")
}

// LogListQuery logs one evaluated list query.
func (sl *ShareLogger) LogListQuery(query string, limit, offset, matched, returned int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"query":             query,
		"limit":             limit,
		"offset":            offset,
		"matched":           matched,
		"returned":          returned,
		"query_duration_ms": durationMs,
	}).Info("List query evaluated")
}

// LogRatingUpdated logs a rating overwrite.
func (sl *ShareLogger) LogRatingUpdated(id string, rating float64) {
	sl.WithFields(logrus.Fields{
		"id":         id,
		"rating":     rating,
		"event_type": "rating_update",
	}).Info("Result rating updated")
}

// LogArchiveSweep logs one retention sweep over the archive directory.
func (sl *ShareLogger) LogArchiveSweep(examined, deleted int, retentionDays int) {
	sl.WithFields(logrus.Fields{
		"files_examined": examined,
		"files_deleted":  deleted,
		"retention_days": retentionDays,
	}).Info("Archive retention sweep completed")
}
