package logging

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// New returns a logger writing to out at the given level ("debug", "info",
// "warn", ...) in "text" or "json" format.
func New(out io.Writer, level, format string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", level)
	}
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return nil, errors.Errorf("invalid log format %q; expected text or json", format)
	}
	return logger, nil
}
