package logging

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output = "discard"

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, cfg, logger.config)
	assert.True(t, logger.Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Enabled(zapcore.DebugLevel))
}

func TestNewLoggerFileOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "listd.log")
	cfg.Level = "trace"

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Enabled(TraceLevel))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad level", func(c *Config) { c.Level = "loud" }},
		{"bad format", func(c *Config) { c.Format = "xml" }},
		{"empty output", func(c *Config) { c.Output = " " }},
		{"empty field value", func(c *Config) { c.Fields = map[string]string{"k": ""} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	logger := NewTestLogger()
	ctx := WithInteraction(context.Background(), Interaction{
		ID:        "int-1",
		Kind:      "component",
		ActorID:   "u1",
		ChannelID: "c1",
	})

	logger.Trace(ctx, "trace message")
	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message", zap.String("key", "val"))
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	require.Len(t, logger.All(), 5)
	logger.AssertLogged(t, TraceLevel, "trace message")
	logger.AssertLogged(t, zapcore.ErrorLevel, "error message")
	logger.AssertField(t, "info message", "interaction.id", "int-1")
	logger.AssertField(t, "info message", "channel.id", "c1")
	logger.AssertField(t, "info message", "key", "val")
	logger.AssertNotLogged(t, zapcore.InfoLevel, "warn message")
}

func TestContextFieldsSkipsEmpty(t *testing.T) {
	assert.Empty(t, ContextFields(context.Background()))

	ctx := WithInteraction(context.Background(), Interaction{ActorID: "u1"})
	fields := ContextFields(ctx)
	require.Len(t, fields, 1)
	assert.Equal(t, "actor.id", fields[0].Key)
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	logger := NewTestLogger()
	ctx := WithLogger(context.Background(), logger.Logger)
	FromContext(ctx).Named("router").Info(ctx, "hello")
	logger.AssertLogged(t, zapcore.InfoLevel, "hello")
}

func TestLevelFromString(t *testing.T) {
	lvl, err := LevelFromString("trace")
	require.NoError(t, err)
	assert.Equal(t, TraceLevel, lvl)

	lvl, err = LevelFromString("warn")
	require.NoError(t, err)
	assert.Equal(t, zapcore.WarnLevel, lvl)

	_, err = LevelFromString("nope")
	assert.Error(t, err)
}
