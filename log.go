// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package gobolt

import (
	loggerinternal "github.com/boltstream/gobolt/internal/logger"
	"github.com/boltstream/gobolt/loginterface"
)

func init() {
	SetLogKeys(QueryIDKey)
	_ = logger.SetLogLevel("error")
}

// Re-export types from loginterface package
type (
	// ClientLogContextHook is a client-defined hook that can be used to insert log
	// fields based on the Context.
	ClientLogContextHook = loginterface.ClientLogContextHook

	// LogEntry allows for logging using a snapshot of field values.
	LogEntry = loginterface.LogEntry

	// Logger abstracts away the underlying logging mechanism.
	Logger = loginterface.Logger
)

// SetLogKeys sets the context keys to be written to logs when logger.WithContext is used.
func SetLogKeys(keys ...contextKey) {
	ikeys := make([]interface{}, len(keys))
	for i, k := range keys {
		ikeys[i] = k
	}
	loggerinternal.SetLogKeys(ikeys)
}

// GetLogKeys returns the currently configured context keys.
func GetLogKeys() []contextKey {
	ikeys := loggerinternal.GetLogKeys()
	keys := make([]contextKey, 0, len(ikeys))
	for _, k := range ikeys {
		if ck, ok := k.(contextKey); ok {
			keys = append(keys, ck)
		}
	}
	return keys
}

// RegisterLogContextHook registers a hook that can be used to extract fields
// from the Context and associated with log messages using the provided key.
func RegisterLogContextHook(contextKey string, ctxExtractor ClientLogContextHook) {
	loggerinternal.RegisterLogContextHook(contextKey, ctxExtractor)
}

// logger delegates to the global logger so SetLogger takes effect everywhere.
var logger Logger = loggerinternal.NewProxy()

// SetLogger sets a new logger for gobolt.
func SetLogger(inLogger Logger) error {
	return loggerinternal.SetLogger(inLogger)
}

// GetLogger returns the gobolt logger.
func GetLogger() Logger {
	return logger
}

// CreateDefaultLogger creates a new logrus backed logger with the default
// configuration. It does not change the global logger.
func CreateDefaultLogger() Logger {
	return loggerinternal.CreateDefaultLogger()
}
