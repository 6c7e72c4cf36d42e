package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Options controls how the process logger is built
type Options struct {
	Level       string
	Format      string // "text", "json" or empty to pick by environment
	Environment string
	Output      io.Writer
}

// New builds the process logger. Development gets a readable console format,
// every other environment logs JSON.
func New(opts Options) (*logrus.Logger, error) {
	base := logrus.New()

	output := opts.Output
	if output == nil {
		output = os.Stdout
	}
	base.SetOutput(output)

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "json"
		if opts.Environment == "" || opts.Environment == "development" || opts.Environment == "local" {
			format = "text"
		}
	}

	switch format {
	case "text":
		base.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
		})
	case "json":
		base.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}
	base.SetLevel(level)

	return base, nil
}

// Discard returns a logger that drops everything, for tests and tools
func Discard() *logrus.Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return base
}
