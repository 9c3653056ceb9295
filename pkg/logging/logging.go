// Package logging builds the zap application logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the logger.
type Config struct {
	// Env is "dev" (colored console) or "prod" (JSON). Default: "dev".
	Env string

	// Level is the minimum level: "debug", "info", "warn", "error". Default: "info".
	Level string

	// ServiceName is added to every entry when set.
	ServiceName string
}

// New builds a logger for cfg. It falls back to a production logger if the
// configuration cannot be built.
func New(cfg Config) *zap.Logger {
	l, _ := NewWithLevel(cfg)
	return l
}

// NewWithLevel is New, also returning the level so it can be changed while
// the logger is in use.
func NewWithLevel(cfg Config) (*zap.Logger, zap.AtomicLevel) {
	level := zap.NewAtomicLevelAt(ParseLevel(cfg.Level))

	var zcfg zap.Config
	if strings.ToLower(cfg.Env) == "prod" {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = level
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := zcfg.Build(zap.AddCaller())
	if err != nil {
		pcfg := zap.NewProductionConfig()
		pcfg.Level = level
		l, _ = pcfg.Build()
	}

	if cfg.ServiceName != "" {
		l = l.With(zap.String("service", cfg.ServiceName))
	}
	return l, level
}

// ParseLevel converts a level name to a zapcore.Level, defaulting to info.
func ParseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ValidLevel reports whether lvl names a level ParseLevel understands.
func ValidLevel(lvl string) bool {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "", "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}

// CertificateID is the log field for a certificate identifier.
func CertificateID(v string) zap.Field {
	return zap.String("certificate_id", v)
}

// SignatoryID is the log field for a persisted signatory identifier.
func SignatoryID(v int64) zap.Field {
	return zap.Int64("signatory_id", v)
}

// Position is the log field for a 1-based display position.
func Position(v int) zap.Field {
	return zap.Int("position", v)
}
