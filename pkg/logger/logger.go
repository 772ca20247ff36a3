package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// InitLogger initializes the structured logger with proper configuration
func InitLogger(logLevel string, isDevelopment bool) *logrus.Logger {
	log := logrus.New()

	// Override with environment if not provided
	if logLevel == "" {
		logLevel = os.Getenv("LOG_LEVEL")
		if logLevel == "" {
			if isDevelopment {
				logLevel = "debug"
			} else {
				logLevel = "info"
			}
		}
	}

	if level, err := logrus.ParseLevel(strings.ToLower(logLevel)); err == nil {
		log.SetLevel(level)
	} else {
		log.SetLevel(logrus.InfoLevel)
		log.WithField("invalid_level", logLevel).Warn("Invalid LOG_LEVEL, using INFO")
	}

	if !isDevelopment || strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// stderr keeps stdout free for CSV piping from the build command
	log.SetOutput(os.Stderr)

	Logger = log

	return log
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		return InitLogger("info", false)
	}
	return Logger
}

// Discard returns a logger that drops everything. Used by tests and library callers
// that do not want search chatter.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// WithService creates a logger with service context
func WithService(serviceName string) *logrus.Entry {
	return GetLogger().WithField("service", serviceName)
}

// WithRunContext creates a logger scoped to one lineup build
func WithRunContext(runID string, seed int64) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"run_id": runID,
		"seed":   seed,
	})
}

// WithTierContext adds the tier being searched to a run logger
func WithTierContext(entry *logrus.Entry, tier string) *logrus.Entry {
	if entry == nil {
		entry = logrus.NewEntry(GetLogger())
	}
	return entry.WithField("tier", tier)
}

// WithHTTPContext creates a logger with HTTP request context
func WithHTTPContext(method, path, userAgent string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"http_method":     method,
		"http_path":       path,
		"http_user_agent": userAgent,
	})
}
