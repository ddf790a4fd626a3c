// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import (
	"io"

	"github.com/digipot-io/go-mcp41hvx1/internal/syncutil"
)

// Bus owns one serial peripheral and serializes chip transactions on it.
// The peripheral may be shared by several devices (one Device per
// chip-select line); exactly one transaction is in flight at a time and
// waiting callers block on the bus mutex.
//
// The bus does not perform first-time peripheral bring-up. The peripheral
// must already be configured for master mode and 8-bit frames; Bus only
// toggles the enable flag and the clock mode around each transaction.
type Bus struct {
	per    Peripheral
	port   string
	wait   WaitConfig
	mu     syncutil.Mutex
	closed bool
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithWaitConfig overrides the bounds on peripheral status waits.
func WithWaitConfig(cfg WaitConfig) BusOption {
	return func(b *Bus) {
		b.wait = cfg
	}
}

// WithPortName attaches a port identifier used in error messages.
func WithPortName(name string) BusOption {
	return func(b *Bus) {
		b.port = name
	}
}

// NewBus wraps a peripheral in a Bus. It performs no bus traffic.
func NewBus(per Peripheral, opts ...BusOption) *Bus {
	b := &Bus{
		per:  per,
		wait: DefaultWaitConfig(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Close marks the bus closed and closes the peripheral if it supports it.
// Blocks until any in-flight transaction completes.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	if c, ok := b.per.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return NewBusError("close", b.port, err, ErrorTypePermanent)
		}
	}
	return nil
}

// transact runs fn as one atomic chip transaction: lock the bus, force the
// chip's clock mode, assert chip select, enable the peripheral, run fn,
// quiesce and disable the peripheral, deassert chip select, restore the
// saved clock mode, unlock. The saved mode is a local value threaded
// through the deferred restore, never package state, so concurrent
// transactions on different buses cannot corrupt each other's modes.
//
// Every release step runs on every exit path, including error returns
// from fn.
func (b *Bus) transact(cs SelectLine, th RxThreshold, fn func() error) (err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return NewBusError("transact", b.port, ErrBusClosed, ErrorTypePermanent)
	}

	saved := b.per.Mode()
	b.per.SetMode(modeChip)
	defer b.per.SetMode(saved)

	if serr := cs.Assert(); serr != nil {
		return NewBusError("select", b.port, serr, ErrorTypePermanent)
	}
	defer func() {
		if derr := cs.Deassert(); derr != nil && err == nil {
			err = NewBusError("deselect", b.port, derr, ErrorTypePermanent)
		}
	}()
	defer func() {
		// Runs before the chip-select release above: the line stays
		// asserted for the full enabled window.
		if qerr := b.quiesce(); qerr != nil && err == nil {
			err = qerr
		}
	}()

	b.per.SetRxThreshold(th)
	b.per.SetEnabled(true)

	return fn()
}

// quiesce shuts the peripheral down after an exchange: wait for the
// transmit side to drain, wait for not-busy, clear the enable flag, then
// read out any residual receive bytes. The final drain is the load-bearing
// step: a byte left in the receive FIFO would be returned as the first
// "reply" of the next transaction on this bus.
//
// On a wait timeout the peripheral is still disabled and drained so the
// bus is left as close to idle as the hardware allows, and the timeout is
// reported.
func (b *Bus) quiesce() error {
	txErr := waitFor(b.wait, b.per.TxReady)
	if txErr == nil {
		txErr = waitFor(b.wait, func() bool { return !b.per.Busy() })
	}

	b.per.SetEnabled(false)
	for b.per.RxReady() {
		_ = b.per.ReadData()
	}

	if txErr != nil {
		return NewTimeoutError("quiesce", b.port)
	}
	return nil
}

// transmitByte writes one byte once the transmit register is empty.
func (b *Bus) transmitByte(v byte) error {
	if err := waitFor(b.wait, b.per.TxReady); err != nil {
		return NewTimeoutError("transmit", b.port)
	}
	b.per.WriteData(v)
	return nil
}

// receiveByte blocks until a full byte has arrived and returns it.
func (b *Bus) receiveByte() (byte, error) {
	if err := waitFor(b.wait, b.per.RxReady); err != nil {
		return 0, NewTimeoutError("receive", b.port)
	}
	return b.per.ReadData(), nil
}
