package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/tgienger/weekly/internal/config"
)

// setupLogger configures logrus for env. Local runs log to stderr at debug
// level unless toFile is set, which the board needs since it owns the terminal.
func setupLogger(env, logFilePath string, toFile bool) (*logrus.Entry, io.Closer, error) {
	log := logrus.New()

	if env == config.EnvLocal && !toFile {
		log.SetOutput(os.Stderr)
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
		return logrus.NewEntry(log), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0o755); err != nil {
		return nil, nil, err
	}
	logFile, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	log.SetOutput(logFile)
	log.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	switch env {
	case config.EnvLocal:
		log.SetLevel(logrus.DebugLevel)
	case config.EnvDev:
		log.SetLevel(logrus.InfoLevel)
	case config.EnvProd:
		log.SetLevel(logrus.WarnLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}

	return logrus.NewEntry(log), logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
