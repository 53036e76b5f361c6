package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withStderr(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stderr
	stderr = &buf
	t.Cleanup(func() { stderr = prev })
	return &buf
}

func TestBuild_FileSinkAppends(t *testing.T) {
	withStderr(t)
	path := filepath.Join(t.TempDir(), "run.log")

	l, cleanup := build(Config{Env: "prod", Level: "info", FilePath: path})
	l.Info("first run", Count(2))
	_ = l.Sync()
	cleanup()

	l, cleanup = build(Config{Env: "dev", Level: "info", FilePath: path})
	l.Warn("second run", Reason("Missing field: email"))
	l.Debug("hidden")
	_ = l.Sync()
	cleanup()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "INFO")
	require.Contains(t, lines[0], "first run")
	require.Contains(t, lines[1], "WARN")
	require.Contains(t, lines[1], "Missing field: email")
	require.NotContains(t, string(b), "\x1b[", "el archivo no lleva colores")
}

func TestBuild_UnwritableFileFallsBackToStderr(t *testing.T) {
	buf := withStderr(t)
	path := filepath.Join(t.TempDir(), "missing-dir", "run.log")

	l, cleanup := build(Config{Env: "prod", FilePath: path})
	defer cleanup()
	l.Info("still logging")
	_ = l.Sync()

	require.Contains(t, buf.String(), "cannot open log file")
	require.Contains(t, buf.String(), "still logging")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, zapcore.WarnLevel, parseLevel(" warning "))
	require.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	require.Equal(t, zapcore.InfoLevel, parseLevel(""))
	require.Equal(t, zapcore.InfoLevel, parseLevel("nope"))
}

func TestFrom_FallsBackToSingleton(t *testing.T) {
	scoped := zap.NewNop().With(RunID("r1"))
	ctx := ToContext(context.Background(), scoped)
	require.Same(t, scoped, From(ctx))
	require.NotNil(t, From(context.Background()))
}

func TestWith_AddsFieldsToSingleton(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := instance
	instance = zap.New(core)
	t.Cleanup(func() { instance = prev })

	With(Op("load_config")).Warn("cannot load env file", Path(".env"))

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "load_config", entries[0].ContextMap()["op"])
	require.Equal(t, ".env", entries[0].ContextMap()["path"])
}
