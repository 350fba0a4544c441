package logger

import (
	"os"
	"path/filepath"
	"testing"

	"openlearner_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestSetMode(t *testing.T) {
	SetMode("debug")
	assert.Equal(t, zapcore.DebugLevel, Level())

	SetMode("release")
	assert.Equal(t, zapcore.InfoLevel, Level())
}

func TestInitLogger_WritesJSONFile(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	file := filepath.Join(t.TempDir(), "app.log")
	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: file, MaxSizeMB: 1},
	})
	Log.Info("course generated")
	_ = Log.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"course generated"`)
}
