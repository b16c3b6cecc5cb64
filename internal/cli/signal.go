package cli

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// SignalContext is cancelled by the first SIGINT or SIGTERM and remembers
// which one it was, so the process can exit with the matching status.
type SignalContext struct {
	context.Context
	Cancel func()

	received atomic.Value // os.Signal
}

// NewSignalContext starts watching for SIGINT and SIGTERM until parent is
// done or Cancel is called.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{Context: ctx, Cancel: cancel}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			sc.received.Store(sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return sc
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sig, _ := sc.received.Load().(os.Signal)
	return sig
}

// ExitCode is 128 plus the signal number, or 0 when no signal arrived.
func (sc *SignalContext) ExitCode() int {
	switch sc.Signal() {
	case os.Interrupt:
		return 130
	case syscall.SIGTERM:
		return 143
	}
	return 0
}
