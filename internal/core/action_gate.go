package core

// action_gate.go serializes user actions.
//
// The inventory is single-user and every action must run to completion
// (validate, mutate, persist) before the next one starts. The HTTP server is
// concurrent, so actions pass through a one-slot semaphore. A request that
// cannot enter within maxWait fails with ErrBusy instead of queueing forever.

import (
	"context"
	"sync"
	"time"
)

// DefaultActionWait is how long an action waits for the gate before failing.
const DefaultActionWait = 10 * time.Second

// ActionGate lets one action at a time through.
type ActionGate struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu      sync.RWMutex
	entered int64
	rejects int64
}

// NewActionGate creates a gate whose waiters give up after maxWait.
func NewActionGate(maxWait time.Duration) *ActionGate {
	if maxWait <= 0 {
		maxWait = DefaultActionWait
	}

	return &ActionGate{
		semaphore: make(chan struct{}, 1),
		maxWait:   maxWait,
	}
}

// Acquire waits for the gate.
// Returns nil on success, ErrBusy if the wait expires, or the context error.
// The caller MUST call Release() when the action completes (use defer).
func (g *ActionGate) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, g.maxWait)
	defer cancel()

	select {
	case g.semaphore <- struct{}{}:
		g.mu.Lock()
		g.entered++
		g.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		// Check if original context was cancelled vs timeout
		if ctx.Err() != nil {
			return ctx.Err()
		}
		g.mu.Lock()
		g.rejects++
		g.mu.Unlock()
		return ErrBusy
	}
}

// Release leaves the gate.
// Must be called exactly once for each successful Acquire.
func (g *ActionGate) Release() {
	<-g.semaphore
}

// Busy reports whether an action currently holds the gate.
func (g *ActionGate) Busy() bool {
	return len(g.semaphore) > 0
}

// WaitIdle blocks until no action holds the gate or ctx is cancelled.
// Used on shutdown so an in-flight save is not cut off.
func (g *ActionGate) WaitIdle(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !g.Busy() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// ActionGateStatus is a snapshot of gate activity.
type ActionGateStatus struct {
	Busy    bool  `json:"busy"`
	Entered int64 `json:"entered"`
	Rejects int64 `json:"rejects"`
}

// Status returns the current gate state for monitoring.
func (g *ActionGate) Status() ActionGateStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return ActionGateStatus{
		Busy:    g.Busy(),
		Entered: g.entered,
		Rejects: g.rejects,
	}
}
