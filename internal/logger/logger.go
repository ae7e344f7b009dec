package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a JSON logger writing to stdout at the given level. An empty level means
// info; unknown levels fall back to info with a warning.
func New(level string) *logrus.Logger {
	return NewWithOutput(level, os.Stdout)
}

func NewWithOutput(level string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(out)

	if level == "" {
		level = logrus.InfoLevel.String()
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
		log.WithField("configured_level", level).Warn("invalid log level, defaulting to info")
	}
	log.SetLevel(lvl)
	return log
}

// WithTenant scopes log lines to one tenant.
func WithTenant(log logrus.FieldLogger, tenantID string) *logrus.Entry {
	return log.WithField("tenant_id", tenantID)
}
