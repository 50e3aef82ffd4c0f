// Package logging configures zerolog for indexpub: a console writer on
// stderr for the operator and an append-only file under the XDG state
// directory that keeps every run, including the debug lines for each
// external command.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AppName is the directory name used under the XDG state home
const AppName = "indexpub"

// Options configure the global logger
type Options struct {
	Verbosity int
	// Console receives human-readable lines. Defaults to os.Stderr.
	Console io.Writer
	// File is the append-only log file. Empty uses LogFilePath().
	File string
	// NoFile disables the log file.
	NoFile bool
}

// LevelForVerbosity maps -v counts to levels: none warn, -v info,
// -vv debug, -vvv and above trace
func LevelForVerbosity(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// SetupLogger configures the global logger for a -v count, writing to
// stderr and the default log file
func SetupLogger(verbosity int) {
	Setup(Options{Verbosity: verbosity})
}

// Setup configures the global logger. A log file that cannot be opened
// is reported and skipped.
func Setup(opts Options) {
	zerolog.SetGlobalLevel(LevelForVerbosity(opts.Verbosity))

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	writers := []io.Writer{zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.Kitchen,
		NoColor:    !colorEnabled(console),
	}}

	logFile := opts.File
	if logFile == "" {
		logFile = LogFilePath()
	}
	var fileErr error
	if !opts.NoFile {
		var handle *os.File
		if handle, fileErr = openLogFile(logFile); fileErr == nil {
			writers = append(writers, handle)
		}
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if opts.Verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if fileErr != nil {
		log.Warn().Err(fileErr).Str("path", logFile).Msg("Failed to create log file, logging to console only")
	}
	log.Debug().Int("verbosity", opts.Verbosity).Str("logFile", logFile).Msg("Logger initialized")
}

// colorEnabled reports whether console output should carry ANSI colors
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// GetLogger returns a contextualized logger with the given name
func GetLogger(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// StateDir returns the indexpub directory under the XDG state home.
// XDG_STATE_HOME is read on every call so it can change at runtime.
func StateDir() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = xdg.StateHome
	}
	return filepath.Join(stateHome, AppName)
}

// LogFilePath returns the default log file location
func LogFilePath() string {
	return filepath.Join(StateDir(), AppName+".log")
}

func openLogFile(logPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, nil
}

// LogCommand logs an external command before it runs
func LogCommand(logger zerolog.Logger, dir, cmd string, args []string) {
	logger.Debug().
		Str("command", cmd).
		Strs("args", args).
		Str("dir", dir).
		Msg("Executing command")
}

// LogCommandDone logs how an external command ended
func LogCommandDone(logger zerolog.Logger, cmd string, exitCode int, elapsed time.Duration) {
	event := logger.Debug()
	if exitCode != 0 {
		event = logger.Info()
	}
	event.
		Str("command", cmd).
		Int("exitCode", exitCode).
		Dur("duration", elapsed).
		Msg("Command finished")
}

// LogOperationStart logs the start of an operation and returns a function to log its completion
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
