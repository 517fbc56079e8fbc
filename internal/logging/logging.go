// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/t0fik/dnf-plugin-beadm/internal/messages"
)

// Disabled as Options.File turns the log file off.
const Disabled = "-"

// Options configures Setup.
type Options struct {
	// Verbosity is the -v count. It can only raise the level set by Level.
	Verbosity int
	Level     string
	// File is the append-only log file; empty selects DefaultFile.
	File    string
	Console io.Writer
	NoColor bool
}

// DefaultFile returns the log file under the XDG state directory.
func DefaultFile() string {
	return filepath.Join(xdg.StateHome, "dnf-beadm", "dnf-beadm.log")
}

// ResolveLevel combines the configured level with the -v count.
func ResolveLevel(level string, verbosity int) zerolog.Level {
	base := zerolog.WarnLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && parsed != zerolog.NoLevel {
			base = parsed
		}
	}
	var fromFlags zerolog.Level
	switch {
	case verbosity <= 0:
		return base
	case verbosity == 1:
		fromFlags = zerolog.InfoLevel
	case verbosity == 2:
		fromFlags = zerolog.DebugLevel
	default:
		fromFlags = zerolog.TraceLevel
	}
	if fromFlags < base {
		return fromFlags
	}
	return base
}

// Setup installs the global logger: a console writer plus the log file.
// The returned function closes the log file.
func Setup(opts Options) (zerolog.Logger, func() error) {
	level := ResolveLevel(opts.Level, opts.Verbosity)
	zerolog.SetGlobalLevel(level)

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: console, TimeFormat: time.Kitchen, NoColor: opts.NoColor}}

	closeFn := func() error { return nil }
	path := opts.File
	if path == "" {
		path = DefaultFile()
	}
	var fileErr error
	if path != Disabled {
		file, err := openLogFile(path)
		if err != nil {
			fileErr = err
		} else {
			writers = append(writers, file)
			closeFn = file.Close
		}
	}

	logger := zerolog.New(io.MultiWriter(writers...)).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	if fileErr != nil {
		logger.Warn().Err(fileErr).Str("path", path).Msg("log file unavailable, logging to console only")
	}
	logger.Debug().Int("verbosity", opts.Verbosity).Str("level", level.String()).Str("file", path).Msg("logger initialized")
	return logger, closeFn
}

// Component returns the global logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf(messages.LogCreateDirFmt, filepath.Dir(path), err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return nil, fmt.Errorf(messages.LogOpenFileFmt, path, err)
	}
	return file, nil
}
