// Package logging builds the charmbracelet loggers used by the commands,
// optionally writing to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures a logger.
type Options struct {
	Prefix string
	Level  string // debug, info, warn or error

	// File, when set, receives the log instead of stderr and is rotated
	// at MaxSizeMB, keeping MaxBackups old files.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// New builds a logger. The returned closer flushes and closes the log
// file, if any; it is safe to call when logging to stderr.
func New(opts Options) (*log.Logger, io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		l, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, 10),
			MaxBackups: orDefault(opts.MaxBackups, 3),
			MaxAge:     7, // days
		}
		w, closer = lj, lj
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          opts.Prefix,
		Level:           level,
	})
	return logger, closer, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
