// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package chipsim

import (
	"math/rand"
	"sync"

	mcp41hvx1 "github.com/digipot-io/go-mcp41hvx1"
)

// JitterConfig configures a JitteryPeripheral.
type JitterConfig struct {
	// MaxNotReadyPolls is the maximum number of consecutive polls for
	// which a ready flag reads false before flipping true.
	MaxNotReadyPolls int
	// Seed makes the jitter deterministic when nonzero.
	Seed uint64
}

// DefaultJitterConfig returns jitter bounds that stress the wait loops
// without slowing tests down.
func DefaultJitterConfig() JitterConfig {
	return JitterConfig{MaxNotReadyPolls: 8}
}

// JitteryPeripheral wraps a Peripheral and makes its status flags flicker:
// TxReady and RxReady read false for a random number of polls before
// reporting the real state, the way flags on a live controller do between
// shift-clock edges. Data paths pass through untouched.
//
// Useful for exercising the driver's bounded waits under realistic timing
// rather than the instant-ready behavior of the plain simulator.
type JitteryPeripheral struct {
	mcp41hvx1.Peripheral

	mu      sync.Mutex
	rng     *rand.Rand
	config  JitterConfig
	txDelay int
	rxDelay int
}

// NewJitteryPeripheral wraps a peripheral with readiness jitter.
func NewJitteryPeripheral(backend mcp41hvx1.Peripheral, config JitterConfig) *JitteryPeripheral {
	var rng *rand.Rand
	if config.Seed != 0 {
		rng = rand.New(rand.NewSource(int64(config.Seed))) //nolint:gosec // Test code, not crypto
	} else {
		rng = rand.New(rand.NewSource(int64(rand.Uint64()))) //nolint:gosec // Test code, not crypto
	}

	return &JitteryPeripheral{
		Peripheral: backend,
		config:     config,
		rng:        rng,
	}
}

// TxReady reports the backend state after a random not-ready burst.
func (j *JitteryPeripheral) TxReady() bool {
	j.mu.Lock()
	if j.txDelay == 0 {
		j.txDelay = j.rng.Intn(j.config.MaxNotReadyPolls + 1)
	}
	if j.txDelay > 1 {
		j.txDelay--
		j.mu.Unlock()
		return false
	}
	j.txDelay = 0
	j.mu.Unlock()
	return j.Peripheral.TxReady()
}

// RxReady reports the backend state after a random not-ready burst.
func (j *JitteryPeripheral) RxReady() bool {
	j.mu.Lock()
	if j.rxDelay == 0 {
		j.rxDelay = j.rng.Intn(j.config.MaxNotReadyPolls + 1)
	}
	if j.rxDelay > 1 {
		j.rxDelay--
		j.mu.Unlock()
		return false
	}
	j.rxDelay = 0
	j.mu.Unlock()
	return j.Peripheral.RxReady()
}
