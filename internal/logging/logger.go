// Package logging provides component-scoped loggers for the filesystem.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	root *logrus.Logger
	once sync.Once
)

// base returns the shared logrus logger, initializing it on first use.
// The initial level comes from the LOG_LEVEL environment variable.
func base() *logrus.Logger {
	once.Do(func() {
		root = logrus.New()
		root.SetOutput(os.Stderr)
		root.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000000",
		})
		root.SetLevel(logrus.InfoLevel)

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			if parsed, err := logrus.ParseLevel(level); err == nil {
				root.SetLevel(parsed)
			}
		}
	})
	return root
}

// GetLogger returns a logger scoped to the given component name.
// Components show up as a structured field rather than a printf prefix.
func GetLogger(component string) *logrus.Entry {
	return base().WithField("component", component)
}

// SetVerbose raises the shared log level to debug. Used by the -verbose
// flag; a LOG_LEVEL of trace still wins.
func SetVerbose() {
	if base().GetLevel() < logrus.DebugLevel {
		base().SetLevel(logrus.DebugLevel)
	}
}
