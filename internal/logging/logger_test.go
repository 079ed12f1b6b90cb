package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "animefeed.log")

	l, err := New(InfoLevel, "json", path)
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("loaded bucket", zap.String("bucket", "all"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded bucket")
	assert.Contains(t, string(data), `"bucket":"all"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).With(zap.String("component", "feed"))

	l.Warn("background page failed", zap.Int("offset", 10))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "background page failed", entry.Message)
	assert.Equal(t, "feed", entry.ContextMap()["component"])
	assert.Equal(t, int64(10), entry.ContextMap()["offset"])
}

func TestToZapLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, toZapLevel(DebugLevel))
	assert.Equal(t, zapcore.WarnLevel, toZapLevel(WarnLevel))
	assert.Equal(t, zapcore.ErrorLevel, toZapLevel(ErrorLevel))
	assert.Equal(t, zapcore.InfoLevel, toZapLevel("bogus"))
}
