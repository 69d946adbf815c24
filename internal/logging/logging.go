// Package logging builds the service's structured logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	gormlogger "gorm.io/gorm/logger"
)

// New creates a [log.Logger] writing to w with timestamps and caller
// reporting enabled. w defaults to [os.Stderr]; an unknown level falls back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    true,
		Level:           lvl,
	})
}

// Discard returns a logger that drops everything, for tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// Gorm adapts l into a GORM logger. SQL tracing is only emitted at debug level.
func Gorm(l *log.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if l.GetLevel() <= log.DebugLevel {
		level = gormlogger.Info
	}

	return gormlogger.New(
		l.WithPrefix("gorm"),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}
