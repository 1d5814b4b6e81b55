// Package main is the entry point for the repochunk CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/repochunk/repochunk/pkg/errors"
)

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitPanic    = 2
	exitProblems = 3
)

func main() {
	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			slog.Error("PANIC", "error", r, "stack", string(debug.Stack()))
			os.Exit(exitPanic)
		}
	}()

	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process status. Errors that abort
// a run exit 1; reported problems that did not abort, such as config
// validate findings, exit 3.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.IsFatal(err):
		return exitFatal
	default:
		return exitProblems
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
