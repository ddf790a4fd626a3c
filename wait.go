// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import "time"

// WaitConfig bounds the busy-waits on peripheral status flags. The chip
// answers within a few SPI clock periods, so a peripheral that stays
// not-ready past the deadline is stuck and the wait surfaces
// ErrWaitTimeout instead of hanging the caller.
type WaitConfig struct {
	// Timeout is the deadline for a single status-flag wait.
	Timeout time.Duration
	// PollInterval is how long to sleep between polls once the initial
	// spin burst has not seen the flag. Zero polls as fast as the
	// scheduler allows.
	PollInterval time.Duration
}

// DefaultWaitConfig returns the wait bounds used when none are configured.
func DefaultWaitConfig() WaitConfig {
	return WaitConfig{
		Timeout:      50 * time.Millisecond,
		PollInterval: 10 * time.Microsecond,
	}
}

// initialSpins is the number of tight polls before waitFor starts
// sleeping. On real hardware a flag almost always flips within the first
// handful of polls, so the common path never touches the timer.
const initialSpins = 64

// waitFor polls ready until it reports true or the configured deadline
// passes. It returns ErrWaitTimeout (wrapped by the caller) on deadline.
func waitFor(cfg WaitConfig, ready func() bool) error {
	for i := 0; i < initialSpins; i++ {
		if ready() {
			return nil
		}
	}

	deadline := time.Now().Add(cfg.Timeout)
	for {
		if ready() {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrWaitTimeout
		}
		if cfg.PollInterval > 0 {
			time.Sleep(cfg.PollInterval)
		}
	}
}
