package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/vibediary/pkg/paths"
	"github.com/sirupsen/logrus"
)

func TestNewLogger(t *testing.T) {
	t.Setenv(paths.HomeEnvVar, t.TempDir())
	Reset()
	defer Reset()

	logger := NewLogger("test-component")
	if logger == nil {
		t.Fatal("Expected logger to be created")
	}

	// Verify it's a logrus.Entry with the component field
	if logger.Data["component"] != "test-component" {
		t.Errorf("Expected component to be 'test-component', got %v", logger.Data["component"])
	}

	// Second call returns the cached entry
	if NewLogger("test-component") != logger {
		t.Error("Expected the cached logger to be returned")
	}
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	entry := logger.WithField("component", "test")
	entry.Info("Test message")

	output := buf.String()

	if !strings.Contains(output, "[INFO]") {
		t.Errorf("Expected output to contain [INFO], got: %s", output)
	}
	if !strings.Contains(output, "[test]") {
		t.Errorf("Expected output to contain [test], got: %s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Expected output to contain 'Test message', got: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string // Parts that should be in the output
		notWant []string // Parts that should NOT be in the output
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "test message",
				Data: logrus.Fields{
					"component": "recorder",
					"tool":      "Bash",
				},
			},
			want:    []string{"[INFO]", "[recorder]", "test message", "tool=Bash"},
			notWant: []string{},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "warning message",
				Data: logrus.Fields{
					"component": "recorder",
				},
			},
			want:    []string{"[WARN]", "warning message"},
			notWant: []string{"[recorder]"},
		},
		{
			name:   "caller information with function name",
			config: FormatConfig{},
			entry: func() *logrus.Entry {
				logger := logrus.New()
				logger.SetReportCaller(true)
				return &logrus.Entry{
					Logger:  logger,
					Level:   logrus.InfoLevel,
					Message: "test message with caller",
					Data: logrus.Fields{
						"component": "recorder",
					},
					Caller: &runtime.Frame{
						File:     "/path/to/file.go",
						Line:     42,
						Function: "github.com/example/package.TestFunction",
					},
				}
			}(),
			want:    []string{"[INFO]", "[recorder]", "test message with caller", "[file.go:42 package.TestFunction]"},
			notWant: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}

			output, err := formatter.Format(tt.entry)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			outputStr := string(output)

			for _, want := range tt.want {
				if !strings.Contains(outputStr, want) {
					t.Errorf("Expected output to contain '%s', got: %s", want, outputStr)
				}
			}

			for _, notWant := range tt.notWant {
				if strings.Contains(outputStr, notWant) {
					t.Errorf("Expected output NOT to contain '%s', got: %s", notWant, outputStr)
				}
			}
		})
	}
}

func TestTextFormatterFieldOrder(t *testing.T) {
	formatter := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "msg",
		Data:    logrus.Fields{"zeta": 1, "alpha": 2, "mid": 3},
	}

	output, err := formatter.Format(entry)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got, want := string(output), "[INFO] msg alpha=2 mid=3 zeta=1\n"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.WarnLevel)

	entry := logger.WithField("component", "test")

	// These should not appear
	entry.Debug("debug message")
	entry.Info("info message")

	// These should appear
	entry.Warn("warn message")
	entry.Error("error message")

	output := buf.String()

	if strings.Contains(output, "debug message") {
		t.Error("Debug message should not appear at Warn level")
	}
	if strings.Contains(output, "info message") {
		t.Error("Info message should not appear at Warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("Warn message should appear at Warn level")
	}
	if !strings.Contains(output, "error message") {
		t.Error("Error message should appear at Warn level")
	}
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv(paths.HomeEnvVar, t.TempDir())
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogCaller, "true")
	Reset()
	defer Reset()

	logger := NewLogger("env-test")

	if logger.Logger.Level != logrus.DebugLevel {
		t.Errorf("Expected debug level from env var, got %v", logger.Logger.Level)
	}
	if !logger.Logger.ReportCaller {
		t.Error("Expected caller reporting to be enabled from env var")
	}
}

func TestLoggingSectionFromConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv(paths.HomeEnvVar, home)
	t.Setenv(EnvLogLevel, "")
	logPath := filepath.Join(home, "custom", "diary.log")

	content := "logging:\n  level: warn\n  file:\n    path: " + logPath + "\n"
	if err := os.WriteFile(filepath.Join(home, "config.yml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	Reset()
	defer Reset()

	logger := NewLogger("file-test")
	if logger.Logger.Level != logrus.WarnLevel {
		t.Errorf("Expected warn level from config, got %v", logger.Logger.Level)
	}

	logger.Warn("written to file")
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Expected log file at %s: %v", logPath, err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("Expected log file to contain message, got: %s", data)
	}
}

func TestDefaultLogFilePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv(paths.HomeEnvVar, home)

	day := time.Date(2026, 3, 4, 10, 0, 0, 0, time.Local)
	want := filepath.Join(home, "logs", "hooks-2026-03-04.log")
	if got := defaultLogFilePath("hooks", day); got != want {
		t.Errorf("defaultLogFilePath() = %q, want %q", got, want)
	}
}

func TestStructuredToStderrNever(t *testing.T) {
	t.Setenv(paths.HomeEnvVar, t.TempDir())
	t.Setenv(EnvLogLevel, "debug")

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	cfg := Config{File: FileSinkConfig{Disabled: true}, Format: FormatConfig{StructuredToStderr: "never"}}
	entry := newLogger("quiet", cfg, w)
	if entry.Logger.Out == w {
		t.Error("Expected stderr not to be used when structured_to_stderr is never")
	}
	w.Close()
}
