// Package logger sets up the structured logger used by the command
// line tool and the binder. Loading a document never logs.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config describes how log entries are written
type Config struct {
	Level  string // A logrus level name
	Format string // "text" or "json"
	Output string // "stdout", "stderr" or a file path
}

// DefaultConfig returns the Config used when no logging options are set
func DefaultConfig() Config {
	return Config{Level: "info", Format: "text", Output: "stderr"}
}

// New returns a logger configured by c. If the output is a file, it is
// returned as the io.Closer to be closed by the caller.
func New(c Config) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("new: %v", err)
	}
	log.SetLevel(level)

	switch c.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	case "text", "":
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	default:
		return nil, nil, fmt.Errorf("new: unknown log format %q, want "+
			"text or json", c.Format)
	}

	var closer io.Closer
	switch c.Output {
	case "stderr", "":
		log.SetOutput(os.Stderr)
	case "stdout":
		log.SetOutput(os.Stdout)
	default:
		file, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0666)
		if err != nil {
			return nil, nil, fmt.Errorf("new: %v", err)
		}
		log.SetOutput(file)
		closer = file
	}

	return log, closer, nil
}
