// logging_zap.go: Logger adapter for go.uber.org/zap
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package weechat

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapAdapter implements Logger on top of a zap SugaredLogger.
type ZapAdapter struct {
	sugar *zap.SugaredLogger
}

// NewZapAdapter wraps a zap logger. A nil logger is replaced by zap.NewNop.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapAdapter{sugar: logger.Sugar()}
}

// NewZapLogger builds a production zap logger at the given level ("debug",
// "info", "warn", "error") and wraps it.
func NewZapLogger(level string) (*ZapAdapter, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, NewConfigValidationError("invalid log_level "+level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return NewZapAdapter(logger), nil
}

// Debug implements Logger interface
func (z *ZapAdapter) Debug(msg string, args ...any) { z.sugar.Debugw(msg, args...) }

// Info implements Logger interface
func (z *ZapAdapter) Info(msg string, args ...any) { z.sugar.Infow(msg, args...) }

// Warn implements Logger interface
func (z *ZapAdapter) Warn(msg string, args ...any) { z.sugar.Warnw(msg, args...) }

// Error implements Logger interface
func (z *ZapAdapter) Error(msg string, args ...any) { z.sugar.Errorw(msg, args...) }

// With implements Logger interface
func (z *ZapAdapter) With(args ...any) Logger {
	return &ZapAdapter{sugar: z.sugar.With(args...)}
}

// Sync flushes buffered log entries.
func (z *ZapAdapter) Sync() error {
	return z.sugar.Sync()
}
