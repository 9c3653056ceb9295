package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warning "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel(""))
	assert.True(t, ValidLevel("info"))
	assert.False(t, ValidLevel("verbose"))
}

func TestNew(t *testing.T) {
	l := New(Config{Env: "prod", Level: "warn", ServiceName: "signatories"})
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	dev := New(Config{Level: "debug"})
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel))
}
