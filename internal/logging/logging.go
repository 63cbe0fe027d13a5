// Package logging builds the logrus logger shared by the client and the dev backend.
package logging

import (
	"io"

	"github.com/sirupsen/logrus"
)

// New returns a logger configured for env: JSON output in production, text otherwise.
// An unknown level falls back to info.
func New(env, level string) *logrus.Logger {
	l := logrus.New()

	if env == "production" {
		l.Formatter = &logrus.JSONFormatter{}
	} else {
		l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	}

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.Level = lvl

	return l
}

// Discard returns a logger that drops everything. Used as the default when a component gets no logger.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}
