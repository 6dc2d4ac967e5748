package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	base  *zap.Logger
	sugar *zap.SugaredLogger
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

func init() {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic(err)
	}
	base = l
	sugar = l.Sugar()
}

func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

func IsDebugEnabled() bool {
	return level.Enabled(zapcore.DebugLevel)
}

func Sync() {
	_ = base.Sync()
}

func Debugf(format string, v ...any) { sugar.Debugf(format, v...) }

func Infof(format string, v ...any) { sugar.Infof(format, v...) }

func Warnf(format string, v ...any) { sugar.Warnf(format, v...) }

func Errorf(format string, v ...any) { sugar.Errorf(format, v...) }

func Fatalf(format string, v ...any) { sugar.Fatalf(format, v...) }
