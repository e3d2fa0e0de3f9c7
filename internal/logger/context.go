// Copyright (c) 2024 The gobolt Authors. All rights reserved.

package logger

import (
	"context"
	"fmt"
	"sync"

	"github.com/boltstream/gobolt/loginterface"
)

var (
	contextConfigMu       sync.RWMutex
	logKeys               []interface{}
	clientLogContextHooks map[string]loginterface.ClientLogContextHook
)

// SetLogKeys sets the context keys to be extracted from context.
func SetLogKeys(keys []interface{}) {
	contextConfigMu.Lock()
	defer contextConfigMu.Unlock()

	logKeys = make([]interface{}, len(keys))
	copy(logKeys, keys)
}

// GetLogKeys returns a copy of the current log keys.
func GetLogKeys() []interface{} {
	contextConfigMu.RLock()
	defer contextConfigMu.RUnlock()

	keysCopy := make([]interface{}, len(logKeys))
	copy(keysCopy, logKeys)
	return keysCopy
}

// RegisterLogContextHook registers a hook for extracting context fields.
func RegisterLogContextHook(key string, hook loginterface.ClientLogContextHook) {
	contextConfigMu.Lock()
	defer contextConfigMu.Unlock()

	if clientLogContextHooks == nil {
		clientLogContextHooks = make(map[string]loginterface.ClientLogContextHook)
	}
	clientLogContextHooks[key] = hook
}

// GetClientLogContextHooks returns a copy of the registered hooks.
func GetClientLogContextHooks() map[string]loginterface.ClientLogContextHook {
	contextConfigMu.RLock()
	defer contextConfigMu.RUnlock()

	hooksCopy := make(map[string]loginterface.ClientLogContextHook, len(clientLogContextHooks))
	for k, v := range clientLogContextHooks {
		hooksCopy[k] = v
	}
	return hooksCopy
}

// extractContextFields extracts log fields from ctx using the log keys and
// the registered hooks.
func extractContextFields(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if ctx == nil {
		return fields
	}

	contextConfigMu.RLock()
	defer contextConfigMu.RUnlock()

	for _, key := range logKeys {
		if val := ctx.Value(key); val != nil {
			fields[fmt.Sprint(key)] = fmt.Sprint(val)
		}
	}
	for key, hook := range clientLogContextHooks {
		if val := hook(ctx); val != "" {
			fields[key] = val
		}
	}
	return fields
}
