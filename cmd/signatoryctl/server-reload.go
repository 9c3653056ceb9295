package main

import (
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/signatories/pkg/config"
	"github.com/doodlesbykumbi/signatories/pkg/editor"
	"github.com/doodlesbykumbi/signatories/pkg/logging"
)

// configReloader applies a reloaded configuration to a running server
type configReloader struct {
	applied   config.Config
	fixed     map[string]bool
	level     zap.AtomicLevel
	templates *editor.Templates
	logger    *zap.Logger
}

// newConfigReloader starts from the configuration the server runs with.
// Attributes in fixed were set by flags and are not reported as changed.
func newConfigReloader(running config.Config, fixed []string, level zap.AtomicLevel, templates *editor.Templates, logger *zap.Logger) *configReloader {
	r := &configReloader{
		applied:   running,
		fixed:     map[string]bool{},
		level:     level,
		templates: templates,
		logger:    logger,
	}
	for _, name := range fixed {
		r.fixed[name] = true
	}
	return r
}

func (r *configReloader) reload() error {
	if err := config.Reload(); err != nil {
		r.logger.Error("configuration reload failed, keeping the current configuration", zap.Error(err))
		return err
	}
	next := config.Get()

	for _, name := range r.applied.Changed(next) {
		switch {
		case name == "log_level":
			r.level.SetLevel(logging.ParseLevel(next.LogLevel))
			r.applied.LogLevel = next.LogLevel
			r.logger.Info("log level changed", zap.String("level", next.LogLevel))
		case r.fixed[name]:
		default:
			r.logger.Warn("configuration change takes effect after a restart", zap.String("attribute", name))
		}
	}

	if r.templates.Dir() != "" {
		if err := r.templates.Reload(); err != nil {
			r.logger.Error("failed to reload editor templates", zap.Error(err))
		}
	}
	return nil
}
