// Package logging builds the file-backed logrus logger shared by the client
// components. Standard output belongs to the terminal UI, so entries go to a
// file instead.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// New opens (or creates) the log file at path and returns a logger writing
// text entries at the given level. The returned closer releases the file.
func New(path string, level string) (*logrus.Logger, io.Closer, error) {
	wrapMsg := "unable to initialize logging"

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, errors.Wrap(err, wrapMsg)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, errors.Wrap(err, wrapMsg)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrap(err, wrapMsg)
	}

	return NewWithWriter(f, lvl), f, nil
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, level logrus.Level) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		DisableColors: true,
	})
	return log
}

// Discard returns a logger that drops everything. Components fall back to it
// when constructed without a logger.
func Discard() *logrus.Logger {
	return NewWithWriter(io.Discard, logrus.PanicLevel)
}
