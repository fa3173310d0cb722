// SPDX-FileCopyrightText: 2022-present Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package logging

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging level
type Level int8

const (
	// DebugLevel logs a message at debug level
	DebugLevel Level = iota - 1
	// InfoLevel logs a message at info level
	InfoLevel
	// WarnLevel logs a message at warning level
	WarnLevel
	// ErrorLevel logs a message at error level
	ErrorLevel
)

func (l Level) String() string {
	return l.zap().String()
}

func (l Level) zap() zapcore.Level {
	switch l {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel parses a level name
func ParseLevel(name string) (Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return DebugLevel, true
	case "info", "":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	default:
		return InfoLevel, false
	}
}

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	root  *zap.Logger
	once  sync.Once
)

func rootLogger() *zap.Logger {
	once.Do(func() {
		config := zap.NewProductionConfig()
		config.Level = level
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		config.Sampling = nil
		logger, err := config.Build(zap.AddCallerSkip(1))
		if err != nil {
			logger = zap.NewNop()
		}
		root = logger
	})
	return root
}

// SetLevel sets the global logging level
func SetLevel(l Level) {
	level.SetLevel(l.zap())
}

// GetLevel returns the global logging level
func GetLevel() Level {
	switch level.Level() {
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.WarnLevel:
		return WarnLevel
	case zapcore.ErrorLevel:
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is a structured logging field
type Field = zap.Field

// String constructs a string field
func String(key, value string) Field {
	return zap.String(key, value)
}

// Int constructs an int field
func Int(key string, value int) Field {
	return zap.Int(key, value)
}

// Uint64 constructs a uint64 field
func Uint64(key string, value uint64) Field {
	return zap.Uint64(key, value)
}

// Stringer constructs a field from a fmt.Stringer
func Stringer(key string, value interface{ String() string }) Field {
	return zap.Stringer(key, value)
}

// Error constructs an error field
func Error(err error) Field {
	return zap.Error(err)
}

// Logger is a named, leveled logger
type Logger interface {
	// Name returns the logger name
	Name() string
	// With returns a logger annotated with the given fields
	With(fields ...Field) Logger
	Debug(msg string, fields ...Field)
	Debugf(template string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(template string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(template string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(template string, args ...interface{})
}

// GetLogger returns a logger named by the given path elements
func GetLogger(names ...string) Logger {
	name := strings.Join(names, "/")
	logger := rootLogger()
	if name != "" {
		logger = logger.Named(name)
	}
	return &zapLogger{
		name:   name,
		logger: logger,
		sugar:  logger.Sugar(),
	}
}

type zapLogger struct {
	name   string
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

func (l *zapLogger) Name() string {
	return l.name
}

func (l *zapLogger) With(fields ...Field) Logger {
	logger := l.logger.With(fields...)
	return &zapLogger{
		name:   l.name,
		logger: logger,
		sugar:  logger.Sugar(),
	}
}

func (l *zapLogger) Debug(msg string, fields ...Field) {
	l.logger.Debug(msg, fields...)
}

func (l *zapLogger) Debugf(template string, args ...interface{}) {
	l.sugar.Debugf(template, args...)
}

func (l *zapLogger) Info(msg string, fields ...Field) {
	l.logger.Info(msg, fields...)
}

func (l *zapLogger) Infof(template string, args ...interface{}) {
	l.sugar.Infof(template, args...)
}

func (l *zapLogger) Warn(msg string, fields ...Field) {
	l.logger.Warn(msg, fields...)
}

func (l *zapLogger) Warnf(template string, args ...interface{}) {
	l.sugar.Warnf(template, args...)
}

func (l *zapLogger) Error(msg string, fields ...Field) {
	l.logger.Error(msg, fields...)
}

func (l *zapLogger) Errorf(template string, args ...interface{}) {
	l.sugar.Errorf(template, args...)
}
