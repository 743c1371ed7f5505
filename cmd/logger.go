package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// newLogger creates a logger writing to stderr at the given level name.
// An empty or invalid level falls back to info.
func newLogger(levelName string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if levelName == "" {
		levelName = "info"
	}

	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		// Can't use the logger here since it isn't set up yet
		fmt.Fprintf(os.Stderr, "Invalid LOG_LEVEL '%s', defaulting to 'info'\n", levelName)
		level = logrus.InfoLevel
	}

	log.SetLevel(level)

	return log
}
