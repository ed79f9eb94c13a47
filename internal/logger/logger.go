package logger

import (
	"os"

	"stripe-checkout-demo/internal/config"

	"github.com/sirupsen/logrus"
)

// New builds the process logger from the LOG_* settings. An unknown level
// falls back to info.
func New(cfg config.Log) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "text" {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log
}
