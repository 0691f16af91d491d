// internal/observability/logger_test.go
package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/kinesis/internal/config"
)

// syncBuffer is a goroutine-safe in-memory WriteSyncer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) Sync() error { return nil }

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

var _ zapcore.WriteSyncer = (*syncBuffer)(nil)

func testLoggerConfig() config.LoggerConfig {
	return config.NewDefaultConfig().Logger()
}

func TestNewLogger(t *testing.T) {
	t.Run("console output is colorized and named", func(t *testing.T) {
		out := &syncBuffer{}
		logger, err := NewLogger(testLoggerConfig(), out)
		require.NoError(t, err)

		logger.Named("humanoid").Info("session reset", zap.String("session_id", "abc"))
		require.NoError(t, logger.Sync())

		line := out.String()
		assert.Contains(t, line, colorGreen+"INFO"+colorReset)
		assert.Contains(t, line, "kinesis.humanoid.")
		assert.Contains(t, line, "session reset")
		assert.Contains(t, line, `"session_id": "abc"`)
	})

	t.Run("json output is parseable", func(t *testing.T) {
		cfg := testLoggerConfig()
		cfg.Format = "json"
		cfg.Level = "warn"
		out := &syncBuffer{}
		logger, err := NewLogger(cfg, out)
		require.NoError(t, err)

		logger.Info("filtered out")
		logger.Warn("kept", zap.String("component", "playback"))

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 1)
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "kept", entry["msg"])
		assert.Equal(t, "kinesis", entry["logger"])
		assert.Equal(t, "playback", entry["component"])
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		cfg := testLoggerConfig()
		cfg.Level = "chatty"
		out := &syncBuffer{}
		logger, err := NewLogger(cfg, out)
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "shown")
	})

	t.Run("log file receives json", func(t *testing.T) {
		cfg := testLoggerConfig()
		cfg.LogFile = filepath.Join(t.TempDir(), "kinesis.log")
		logger, err := NewLogger(cfg, &syncBuffer{})
		require.NoError(t, err)

		logger.Error("written to file")
		require.NoError(t, logger.Sync())

		data, err := os.ReadFile(cfg.LogFile)
		require.NoError(t, err)
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
		assert.Equal(t, "written to file", entry["msg"])
		assert.Equal(t, "ERROR", entry["level"])
	})
}

func TestInitialize(t *testing.T) {
	t.Cleanup(ResetForTest)

	t.Run("first call wins", func(t *testing.T) {
		ResetForTest()
		first := &syncBuffer{}
		second := &syncBuffer{}
		Initialize(testLoggerConfig(), first)
		Initialize(testLoggerConfig(), second)

		GetLogger().Info("hello")
		Sync()
		assert.Contains(t, first.String(), "hello")
		assert.Empty(t, second.String())
	})

	t.Run("fallback before initialization", func(t *testing.T) {
		ResetForTest()
		logger := GetLogger()
		require.NotNil(t, logger)
		assert.Nil(t, globalLogger.Load())
	})
}
