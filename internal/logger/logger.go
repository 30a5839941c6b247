// Package logger provides the shared logrus setup for the service.
package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the service logger for the given level and environment.
// Production emits JSON for log aggregation; everything else gets colored
// text. An unknown level falls back to info.
func NewLogger(logLevel, environment string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to info", logLevel)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	return log
}
