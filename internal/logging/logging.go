// Package logging builds the application-wide logrus logger.
package logging

import "github.com/sirupsen/logrus"

// New returns a logger configured with the given level and format.
// Format "text" selects the text formatter; anything else selects JSON.
// Unparseable levels fall back to info.
func New(level, format string) *logrus.Logger {
	logger := logrus.New()

	if format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)

	return logger
}
