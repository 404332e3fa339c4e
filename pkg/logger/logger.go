// Package logger is a convenience wrapper for using logrus with a
// per-component prefix.
package logger

import (
	"io"

	"github.com/sirupsen/logrus"
	prefixed "github.com/teo/logrus-prefixed-formatter"
)

type Log struct {
	logrus.Entry
}

func (logger *Log) WithPrefix(prefix string) *logrus.Entry {
	return logger.WithField("prefix", prefix)
}

func New(baseLogger *logrus.Logger, defaultPrefix string) *Log {
	logger := new(Log)
	logger.Logger = baseLogger
	logger.Data = make(logrus.Fields, 5)
	logger.Data["prefix"] = defaultPrefix
	return logger
}

// Setup configures the standard logger with the prefixed text formatter
// and the given level name. An unparsable level falls back to info and is
// returned as an error.
func Setup(level string, out io.Writer) error {
	logrus.SetFormatter(&prefixed.TextFormatter{
		FullTimestamp:   true,
		SpacePadding:    20,
		PrefixPadding:   12,
		ForceFormatting: true,
	})
	if out != nil {
		logrus.SetOutput(out)
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.SetLevel(logrus.InfoLevel)
		return err
	}
	logrus.SetLevel(lvl)
	return nil
}
