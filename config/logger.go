package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the process logger. LOG_FORMAT=text selects the text
// formatter; anything else logs JSON. An unknown level falls back to info.
func NewLogger(cfg *Config) *logrus.Logger {
	logg := logrus.New()
	logg.SetOutput(os.Stdout)

	if cfg.LogFormat == "text" {
		logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logg.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logg.WithField("level", cfg.LogLevel).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	logg.SetLevel(level)
	return logg
}
