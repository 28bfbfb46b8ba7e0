package logging_test

import (
	"github.com/grovetools/vibediary/logging"
	"github.com/sirupsen/logrus"
)

func ExampleNewLogger() {
	// Create a logger for your component
	log := logging.NewLogger("hooks")
	
	// Use it for various log levels
	log.Debug("Debug information")
	log.Info("Session started")
	log.Warn("Session log is locked, retrying")
	log.Error("All providers failed")
	
	// Add structured fields
	log.WithFields(logrus.Fields{
		"session_id": "abc123",
		"tool":       "Bash",
	}).Info("Recorded activity")
	
	// Use WithField for single fields
	log.WithField("file", "/tmp/posts/2026-10-17-demo.md").Info("Wrote post")
	
	// Use WithError for errors
	// err := someFunction()
	// log.WithError(err).Error("Operation failed")
}

func ExampleNewLogger_configuration() {
	// Configuration via ~/.claude/vibe-diary/config.yml:
	//
	// logging:
	//   level: debug              # Set log level
	//   report_caller: true       # Include file/line info
	//   file:
	//     path: /var/log/vibediary/hooks.log
	//   format:
	//     preset: json           # Use JSON output format

	// Or via environment variables:
	// VIBE_DIARY_LOG_LEVEL=debug
	// VIBE_DIARY_LOG_CALLER=true

	log := logging.NewLogger("synthesizer")
	log.Info("This will respect the configuration")
}

func ExampleNewLogger_multipleComponents() {
	// Different components can have their own loggers
	// but they share the same configuration
	
	recorderLog := logging.NewLogger("recorder")
	llmLog := logging.NewLogger("llm")

	// Each log entry will be tagged with its component
	recorderLog.Info("Recorded activity")
	llmLog.Warn("Provider anthropic failed")

	// Output will show:
	// [INFO] [recorder] Recorded activity
	// [WARN] [llm] Provider anthropic failed
}