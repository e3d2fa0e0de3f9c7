// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"
	"time"

	rlog "github.com/sirupsen/logrus"

	"github.com/boltstream/gobolt/loginterface"
)

// LevelOff disables all logging.
const LevelOff = "OFF"

// rawLogger implements Logger on top of logrus.
type rawLogger struct {
	inner   *rlog.Logger
	enabled bool // false when the level is OFF
	mu      sync.Mutex
}

var _ loginterface.Logger = (*rawLogger)(nil)

func newRawLogger() *rawLogger {
	inner := rlog.New()
	inner.SetOutput(os.Stderr)
	inner.SetLevel(rlog.InfoLevel)
	inner.SetReportCaller(true)
	inner.SetFormatter(&rlog.TextFormatter{
		TimestampFormat:  time.RFC3339Nano,
		FullTimestamp:    true,
		CallerPrettyfier: formatSource,
	})
	return &rawLogger{inner: inner, enabled: true}
}

// formatSource shortens the caller information to the base names.
func formatSource(frame *runtime.Frame) (string, string) {
	return path.Base(frame.Function), fmt.Sprintf("%s:%d", path.Base(frame.File), frame.Line)
}

func (log *rawLogger) isEnabled() bool {
	log.mu.Lock()
	defer log.mu.Unlock()
	return log.enabled
}

// SetLogLevel sets the log level. OFF disables logging altogether.
func (log *rawLogger) SetLogLevel(level string) error {
	if strings.EqualFold(level, LevelOff) {
		log.mu.Lock()
		log.enabled = false
		log.mu.Unlock()
		return nil
	}
	actual, err := rlog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("error while setting log level. %v", err)
	}
	log.mu.Lock()
	log.enabled = true
	log.mu.Unlock()
	log.inner.SetLevel(actual)
	return nil
}

// GetLogLevel returns the current log level in upper case.
func (log *rawLogger) GetLogLevel() string {
	if !log.isEnabled() {
		return LevelOff
	}
	return strings.ToUpper(log.inner.GetLevel().String())
}

// SetOutput sets the output writer.
func (log *rawLogger) SetOutput(output io.Writer) {
	log.inner.SetOutput(output)
}

func (log *rawLogger) entry() loginterface.LogEntry {
	if !log.isEnabled() {
		return discard{}
	}
	return &entry{inner: rlog.NewEntry(log.inner)}
}

func (log *rawLogger) WithField(key string, value interface{}) loginterface.LogEntry {
	if !log.isEnabled() {
		return discard{}
	}
	return &entry{inner: log.inner.WithField(key, value)}
}

func (log *rawLogger) WithFields(fields map[string]any) loginterface.LogEntry {
	if !log.isEnabled() {
		return discard{}
	}
	return &entry{inner: log.inner.WithFields(rlog.Fields(fields))}
}

// WithContext attaches the fields found in ctx under the registered log keys
// and hooks.
func (log *rawLogger) WithContext(ctx context.Context) loginterface.LogEntry {
	if !log.isEnabled() {
		return discard{}
	}
	return &entry{inner: log.inner.WithFields(extractContextFields(ctx))}
}

func (log *rawLogger) Tracef(format string, args ...interface{}) { log.entry().Tracef(format, args...) }
func (log *rawLogger) Debugf(format string, args ...interface{}) { log.entry().Debugf(format, args...) }
func (log *rawLogger) Infof(format string, args ...interface{})  { log.entry().Infof(format, args...) }
func (log *rawLogger) Warnf(format string, args ...interface{})  { log.entry().Warnf(format, args...) }
func (log *rawLogger) Errorf(format string, args ...interface{}) { log.entry().Errorf(format, args...) }
func (log *rawLogger) Fatalf(format string, args ...interface{}) { log.entry().Fatalf(format, args...) }

func (log *rawLogger) Trace(msg string) { log.entry().Trace(msg) }
func (log *rawLogger) Debug(msg string) { log.entry().Debug(msg) }
func (log *rawLogger) Info(msg string)  { log.entry().Info(msg) }
func (log *rawLogger) Warn(msg string)  { log.entry().Warn(msg) }
func (log *rawLogger) Error(msg string) { log.entry().Error(msg) }
func (log *rawLogger) Fatal(msg string) { log.entry().Fatal(msg) }

// entry is a logrus entry exposed as a LogEntry.
type entry struct {
	inner *rlog.Entry
}

func (e *entry) Tracef(format string, args ...interface{}) { e.inner.Tracef(format, args...) }
func (e *entry) Debugf(format string, args ...interface{}) { e.inner.Debugf(format, args...) }
func (e *entry) Infof(format string, args ...interface{})  { e.inner.Infof(format, args...) }
func (e *entry) Warnf(format string, args ...interface{})  { e.inner.Warnf(format, args...) }
func (e *entry) Errorf(format string, args ...interface{}) { e.inner.Errorf(format, args...) }
func (e *entry) Fatalf(format string, args ...interface{}) { e.inner.Fatalf(format, args...) }

func (e *entry) Trace(msg string) { e.inner.Trace(msg) }
func (e *entry) Debug(msg string) { e.inner.Debug(msg) }
func (e *entry) Info(msg string)  { e.inner.Info(msg) }
func (e *entry) Warn(msg string)  { e.inner.Warn(msg) }
func (e *entry) Error(msg string) { e.inner.Error(msg) }
func (e *entry) Fatal(msg string) { e.inner.Fatal(msg) }

// discard drops everything, used while the level is OFF.
type discard struct{}

func (discard) Tracef(string, ...interface{}) {}
func (discard) Debugf(string, ...interface{}) {}
func (discard) Infof(string, ...interface{})  {}
func (discard) Warnf(string, ...interface{})  {}
func (discard) Errorf(string, ...interface{}) {}
func (discard) Fatalf(string, ...interface{}) {}

func (discard) Trace(string) {}
func (discard) Debug(string) {}
func (discard) Info(string)  {}
func (discard) Warn(string)  {}
func (discard) Error(string) {}
func (discard) Fatal(string) {}
