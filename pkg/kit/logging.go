package kit

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(service string) *zap.Logger {
	return NewLoggerLevel(service, "info")
}

// NewLoggerLevel builds the production JSON logger. Unknown levels fall back
// to info.
func NewLoggerLevel(service, level string) *zap.Logger {
	cfg, parseErr := productionConfig(service, level)

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	if parseErr != nil {
		l.Warn("unknown log level, using info", zap.String("level", level))
	}
	return l
}

// NewFileLogger writes JSON logs to path. The terminal view uses it so log
// lines do not tear the screen.
func NewFileLogger(service, level, path string) (*zap.Logger, error) {
	cfg, _ := productionConfig(service, level)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	return cfg.Build()
}

func productionConfig(service, level string) (zap.Config, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.InitialFields = map[string]any{"service": service}
	return cfg, err
}
