// Package build provides the logging plumbing shared by every package in
// this module: a rotating log file, a stdout mirror, and a helper to carve
// out per-subsystem slog.Logger instances once the root backend is ready.
package build

import (
	"io"
	"os"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// LogType describes how the LogWriter distributes log lines.
type LogType int

const (
	// LogTypeNone disables logging entirely.
	LogTypeNone LogType = iota

	// LogTypeStdOut writes logs to stdout only.
	LogTypeStdOut

	// LogTypeRotatingFile writes logs to stdout and a rotated file.
	LogTypeRotatingFile
)

// LoggingType is the active logging mode. The `filelog` build tag overrides
// this to LogTypeStdOut in log_filelog.go for environments that set up their
// own file redirection; it otherwise defaults to LogTypeRotatingFile so a
// long-running wallet daemon always has a file trail.
var LoggingType = LogTypeRotatingFile

// LogWriter is an io.Writer that always writes to stdout and, once
// InitLogRotator has attached a rotator pipe, to the rotated file as well.
// It exists so callers can construct a slog backend before the rotator is
// initialized. Write does not consult LoggingType.
type LogWriter struct {
	RotatorPipe *io.PipeWriter
}

// Write logs the byte slice to both the log file and stdout, the behavior
// that's expected when LoggingType is LogTypeRotatingFile.
func (w *LogWriter) Write(b []byte) (int, error) {
	if w.RotatorPipe != nil {
		_, _ = w.RotatorPipe.Write(b)
	}
	return os.Stdout.Write(b)
}

// rotatingLogWriter tracks the rotator once InitLogRotator has been called so
// it can be closed cleanly on shutdown.
type rotatingLogWriter struct {
	pipeRotator *rotator.Rotator
}

var logWriter = &LogWriter{}
var rotatingWriter rotatingLogWriter

// InitLogRotator initializes the logging rotator to write logs to the
// specified file and create roll files in the same directory. It should be
// called as early as possible at startup, and the Close method should be
// called on shutdown.
func InitLogRotator(logFile string, maxRolls int) error {
	r, err := rotator.New(logFile, 10*1024, false, maxRolls)
	if err != nil {
		return err
	}

	pr, pw := io.Pipe()
	go r.Run(pr)

	logWriter.RotatorPipe = pw
	rotatingWriter.pipeRotator = r

	return nil
}

// CloseRotator flushes and releases the rotator, if one was initialized.
func CloseRotator() {
	if rotatingWriter.pipeRotator != nil {
		rotatingWriter.pipeRotator.Close()
	}
}

// NewSubLogger constructs a new slog.Logger for the named subsystem, backed
// by the shared LogWriter, and seeded with the package-default log level.
// root is an already-configured backend to derive the new logger from; when
// nil, a fresh backend around LogWriter is created (used before the wallet
// daemon has parsed --debuglevel).
func NewSubLogger(subsystem string, root *slog.Backend) slog.Logger {
	backend := root
	if backend == nil {
		backend = slog.NewBackend(logWriter)
	}
	l := backend.Logger(subsystem)
	l.SetLevel(slog.LevelInfo)
	return l
}
