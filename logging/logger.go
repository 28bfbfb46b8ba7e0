package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/grovetools/vibediary/config"
	"github.com/grovetools/vibediary/pkg/paths"
	"github.com/grovetools/vibediary/util/pathutil"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Environment variables that override the 'logging' config section.
const (
	EnvLogLevel  = "VIBE_DIARY_LOG_LEVEL"
	EnvLogCaller = "VIBE_DIARY_LOG_CALLER"
	EnvDebug     = "VIBE_DIARY_DEBUG"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	// Load the 'logging' section of the config file
	var logCfg Config
	if cfg, err := config.LoadDefault(); err == nil {
		if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
			// Log a warning if parsing fails, but continue with defaults
			logrus.Warnf("Failed to parse 'logging' config: %v", err)
		}
	}

	entry := newLogger(component, logCfg, os.Stderr)
	loggers[component] = entry
	return entry
}

// Reset drops all cached loggers so the next NewLogger call re-reads configuration.
func Reset() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	loggers = make(map[string]*logrus.Entry)
}

func newLogger(component string, logCfg Config, stderr *os.File) *logrus.Entry {
	logger := logrus.New()

	// Configure Level
	levelStr := "info" // Default level
	if os.Getenv(EnvLogLevel) != "" {
		levelStr = os.Getenv(EnvLogLevel)
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv(EnvLogCaller) == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	// Decide whether structured logs reach stderr. Hooks run with stderr piped
	// to the host, so "auto" only does so when debugging.
	stderrMode := "auto"
	if logCfg.Format.StructuredToStderr != "" {
		stderrMode = logCfg.Format.StructuredToStderr
	}
	shouldLogToStderr := false
	switch stderrMode {
	case "always":
		shouldLogToStderr = true
	case "never":
		shouldLogToStderr = false
	default:
		shouldLogToStderr = os.Getenv(EnvDebug) == "1" || logger.GetLevel() >= logrus.DebugLevel
	}
	interactive := stderr != nil && (isatty.IsTerminal(stderr.Fd()) || isatty.IsCygwinTerminal(stderr.Fd()))

	// Configure Formatter
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: logCfg.Format, Colors: shouldLogToStderr && interactive})
	}

	// Configure Output Sinks
	var writers []io.Writer
	if !logCfg.File.Disabled {
		if file := openLogFile(component, logCfg.File); file != nil {
			writers = append(writers, file)
		}
	}
	if shouldLogToStderr && stderr != nil {
		writers = append(writers, stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}

	return logger.WithField("component", component)
}

// openLogFile opens the configured log file, or <home>/logs/<component>-<date>.log.
// Failures are silent: a hook must never fail because its own log is unwritable.
func openLogFile(component string, sink FileSinkConfig) *os.File {
	logFilePath := defaultLogFilePath(component, time.Now())
	if sink.Path != "" {
		if expanded, err := pathutil.Expand(sink.Path); err == nil {
			logFilePath = expanded
		}
	}
	if logFilePath == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err != nil {
		return nil
	}
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil
	}
	return file
}

func defaultLogFilePath(component string, now time.Time) string {
	if paths.Home() == "" {
		return ""
	}
	return filepath.Join(paths.LogsDir(), fmt.Sprintf("%s-%s.log", component, now.Format("2006-01-02")))
}
