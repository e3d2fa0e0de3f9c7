// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package logger

import (
	"errors"
	"log"
	"sync"

	"github.com/boltstream/gobolt/loginterface"
)

// The global logger lets internal packages log without importing the root
// gobolt package.
var (
	loggerAccessorMu sync.Mutex
	globalLogger     loginterface.Logger
)

// GetLogger returns the global logger.
func GetLogger() loginterface.Logger {
	loggerAccessorMu.Lock()
	defer loggerAccessorMu.Unlock()
	return globalLogger
}

// SetLogger replaces the global logger. The proxy is rejected since it
// would delegate to itself.
func SetLogger(providedLogger loginterface.Logger) error {
	if providedLogger == nil {
		return errors.New("cannot set a nil logger")
	}
	if _, isProxy := providedLogger.(*Proxy); isProxy {
		return errors.New("cannot set Proxy as the logger - it would create infinite recursion")
	}
	loggerAccessorMu.Lock()
	defer loggerAccessorMu.Unlock()
	globalLogger = providedLogger
	return nil
}

func init() {
	if err := SetLogger(newRawLogger()); err != nil {
		log.Panicf("cannot set default logger. %v", err)
	}
}

// CreateDefaultLogger creates a new logrus backed logger. It does not change
// the global logger.
func CreateDefaultLogger() loginterface.Logger {
	return newRawLogger()
}
