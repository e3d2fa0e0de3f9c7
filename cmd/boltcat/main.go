// Copyright (c) 2024 The gobolt Authors. All rights reserved.

// Command boltcat decodes archived query responses and prints their rows as
// JSON lines, re-encoded tab separated text or an Arrow IPC file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "boltcat: %v\n", err)
		os.Exit(1)
	}
}
