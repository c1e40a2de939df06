package log

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"imgtriage/internal/errors"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.Info("info message")
	assert.Contains(t, buf.String(), "level=info")
	assert.Contains(t, buf.String(), "info message")
	buf.Reset()

	l.Warn("warn message")
	assert.Contains(t, buf.String(), "level=warning")
	buf.Reset()

	l.Error("error message")
	assert.Contains(t, buf.String(), "level=error")
	buf.Reset()

	l.Infof("formatted %s", "message")
	assert.Contains(t, buf.String(), "formatted message")
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	SetDebug(false)
	l.Debug("debug message")
	assert.Empty(t, buf.String())

	SetDebug(true)
	defer SetDebug(false)
	l.Debugf("formatted %s", "debug")
	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "formatted debug")
}

func TestStructuredLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf))

	l.With(F("key1", "value1")).With(F("key2", 123)).Info("chained fields")
	output := buf.String()
	assert.Contains(t, output, "chained fields")
	assert.Contains(t, output, "key1=value1")
	assert.Contains(t, output, "key2=123")
}

func TestJSONLogging(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(WithOutput(&buf), WithJSON())

	l.With(F("path", "/a.png")).Info("json message")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &logEntry))
	assert.Equal(t, "info", logEntry["level"])
	assert.Equal(t, "json message", logEntry["message"])
	assert.Equal(t, "/a.png", logEntry["path"])
	assert.Contains(t, logEntry, "timestamp")
}

func TestErrorLogging(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithFields(F("error", fmt.Errorf("standard error").Error())).Error("error occurred")
	assert.Contains(t, buf.String(), "standard error")
	buf.Reset()

	fileErr := errors.NewFileError("file error", "/path/to/file", errors.FileNotFound, nil)
	LogWithError(fileErr).Error("file error occurred")
	output := buf.String()
	assert.Contains(t, output, "file error occurred")
	assert.Contains(t, output, "path=/path/to/file")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", errors.FileNotFound))
	buf.Reset()

	LogWithError(errors.Wrap(errors.ErrSaveInProgress, "begin")).Warn("rejected")
	output = buf.String()
	assert.Contains(t, output, "operation=save")
	assert.Contains(t, output, fmt.Sprintf("error_kind=%d", errors.SaveInProgress))
	buf.Reset()

	LogError(fileErr, "convenient error log")
	assert.Contains(t, buf.String(), "convenient error log")
}

func TestNilErrorHandling(t *testing.T) {
	var buf bytes.Buffer
	originalLogger := logger
	Configure(WithOutput(&buf))
	defer func() { logger = originalLogger }()

	LogWithError(nil).Error("nil error test")
	assert.Contains(t, buf.String(), "nil error test")
	assert.Contains(t, buf.String(), "<nil>")
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "imgtriage.log")
	originalLogger := logger
	Configure(WithFile(path))
	defer func() {
		logger.Close()
		logger = originalLogger
	}()

	Info("file test message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file test message")
}

func TestDiscard(t *testing.T) {
	originalLogger := logger
	Configure(Discard())
	defer func() { logger = originalLogger }()

	assert.NotPanics(t, func() {
		Warn("dropped %d", 1)
		LogWithFields(F("k", "v")).Error("dropped too")
	})
}
