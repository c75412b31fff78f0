// Package logging configures the zerolog logger shared by every backlog
// component. The TUI owns the terminal, so records go to a file.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a JSON logger writing to path at the given level. An empty
// path discards output. The returned closer releases the file.
func New(path, level string) (zerolog.Logger, io.Closer, error) {
	configureErrors()

	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var out io.WriteCloser = nopCloser{}
	if strings.TrimSpace(path) != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, pkgerrors.Wrap(err, "create log dir")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, pkgerrors.Wrap(err, "open log file")
		}
		out = f
	}

	return NewWriter(out, lvl), out, nil
}

// NewWriter returns a logger writing JSON records to w.
func NewWriter(w io.Writer, lvl zerolog.Level) zerolog.Logger {
	configureErrors()
	return zerolog.New(w).Level(lvl).With().
		Str("service", "backlog").
		Timestamp().
		Logger()
}

// ParseLevel maps a level name to a zerolog level. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	trimmed := strings.ToLower(strings.TrimSpace(level))
	if trimmed == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(trimmed)
	if err != nil {
		return zerolog.InfoLevel, pkgerrors.Wrapf(err, "log level %q", level)
	}
	return lvl, nil
}

// configureErrors attaches pkg/errors stacks to error events that ask for
// them with Stack().
func configureErrors() {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}
}

type nopCloser struct{}

func (nopCloser) Write(p []byte) (int, error) { return len(p), nil }
func (nopCloser) Close() error                { return nil }
