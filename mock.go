// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import (
	"fmt"
	"sync"
)

// mockRecorder collects an ordered event log shared between a
// MockPeripheral and its MockSelectLine, so tests can assert the relative
// order of chip-select, enable, mode and data events.
type mockRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *mockRecorder) record(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

// Events returns a copy of the recorded event log.
func (r *mockRecorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

// MockPeripheral is an in-memory Peripheral for tests. Each WriteData
// shifts one scripted reply byte into the receive FIFO, mirroring SPI
// full-duplex behavior. Without a script the reply is DefaultReply, which
// defaults to an accepted-command status byte.
type MockPeripheral struct {
	rec *mockRecorder

	mu           sync.Mutex
	replies      []byte
	rxFIFO       []byte
	txLog        []byte
	defaultReply byte
	mode         ClockMode
	threshold    RxThreshold
	enabled      bool
	stuckTx      bool
	stuckRx      bool
}

// MockSelectLine is an in-memory SelectLine recording assert/deassert
// events into the shared log.
type MockSelectLine struct {
	rec *mockRecorder

	mu          sync.Mutex
	asserted    bool
	assertErr   error
	deassertErr error
	asserts     int
}

// NewMockPair returns a MockPeripheral and a MockSelectLine sharing one
// event log.
func NewMockPair() (*MockPeripheral, *MockSelectLine) {
	rec := &mockRecorder{}
	per := &MockPeripheral{rec: rec, defaultReply: cmdErrBit}
	cs := &MockSelectLine{rec: rec}
	return per, cs
}

// NewMockPeripheral returns a standalone MockPeripheral.
func NewMockPeripheral() *MockPeripheral {
	return &MockPeripheral{rec: &mockRecorder{}, defaultReply: cmdErrBit}
}

// WriteData implements Peripheral.
func (m *MockPeripheral) WriteData(b byte) {
	m.mu.Lock()
	m.txLog = append(m.txLog, b)
	reply := m.defaultReply
	if len(m.replies) > 0 {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	}
	m.rxFIFO = append(m.rxFIFO, reply)
	m.mu.Unlock()
	m.rec.record("tx")
}

// ReadData implements Peripheral.
func (m *MockPeripheral) ReadData() byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.rxFIFO) == 0 {
		return 0
	}
	b := m.rxFIFO[0]
	m.rxFIFO = m.rxFIFO[1:]
	return b
}

// TxReady implements Peripheral.
func (m *MockPeripheral) TxReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.stuckTx
}

// RxReady implements Peripheral.
func (m *MockPeripheral) RxReady() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return !m.stuckRx && len(m.rxFIFO) > 0
}

// Busy implements Peripheral.
func (*MockPeripheral) Busy() bool {
	return false
}

// SetEnabled implements Peripheral.
func (m *MockPeripheral) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.enabled = enabled
	m.mu.Unlock()
	if enabled {
		m.rec.record("enable")
	} else {
		m.rec.record("disable")
	}
}

// Mode implements Peripheral.
func (m *MockPeripheral) Mode() ClockMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// SetMode implements Peripheral.
func (m *MockPeripheral) SetMode(mode ClockMode) {
	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()
	m.rec.record(fmt.Sprintf("mode %d%d", mode.Polarity, mode.Phase))
}

// SetRxThreshold implements Peripheral.
func (m *MockPeripheral) SetRxThreshold(t RxThreshold) {
	m.mu.Lock()
	m.threshold = t
	m.mu.Unlock()
}

// Test helper methods

// QueueReplies scripts the next reply bytes, one per transmitted byte.
func (m *MockPeripheral) QueueReplies(replies ...byte) {
	m.mu.Lock()
	m.replies = append(m.replies, replies...)
	m.mu.Unlock()
}

// SetDefaultReply sets the reply byte used when the script is exhausted.
func (m *MockPeripheral) SetDefaultReply(b byte) {
	m.mu.Lock()
	m.defaultReply = b
	m.mu.Unlock()
}

// PreloadRx plants residual bytes in the receive FIFO, simulating a
// peripheral that was not drained.
func (m *MockPeripheral) PreloadRx(stale ...byte) {
	m.mu.Lock()
	m.rxFIFO = append(m.rxFIFO, stale...)
	m.mu.Unlock()
}

// SetStuckTx makes TxReady report false, simulating a hung peripheral.
func (m *MockPeripheral) SetStuckTx(stuck bool) {
	m.mu.Lock()
	m.stuckTx = stuck
	m.mu.Unlock()
}

// SetStuckRx makes RxReady report false even with bytes pending.
func (m *MockPeripheral) SetStuckRx(stuck bool) {
	m.mu.Lock()
	m.stuckRx = stuck
	m.mu.Unlock()
}

// TxBytes returns a copy of all bytes transmitted so far.
func (m *MockPeripheral) TxBytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.txLog))
	copy(out, m.txLog)
	return out
}

// ClearTxLog resets the transmitted byte log.
func (m *MockPeripheral) ClearTxLog() {
	m.mu.Lock()
	m.txLog = nil
	m.mu.Unlock()
}

// Enabled reports the enable flag.
func (m *MockPeripheral) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// PendingRx returns the number of undrained receive bytes.
func (m *MockPeripheral) PendingRx() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rxFIFO)
}

// Threshold returns the last configured receive threshold.
func (m *MockPeripheral) Threshold() RxThreshold {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Events returns the ordered event log.
func (m *MockPeripheral) Events() []string {
	return m.rec.Events()
}

// Assert implements SelectLine.
func (c *MockSelectLine) Assert() error {
	c.mu.Lock()
	err := c.assertErr
	if err == nil {
		c.asserted = true
		c.asserts++
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.rec.record("cs assert")
	return nil
}

// Deassert implements SelectLine.
func (c *MockSelectLine) Deassert() error {
	c.mu.Lock()
	err := c.deassertErr
	if err == nil {
		c.asserted = false
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}
	c.rec.record("cs deassert")
	return nil
}

// Asserted reports whether the line is currently at its active level.
func (c *MockSelectLine) Asserted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asserted
}

// AssertCount returns how many times the line was asserted.
func (c *MockSelectLine) AssertCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.asserts
}

// FailAssert injects an error on the next Assert calls.
func (c *MockSelectLine) FailAssert(err error) {
	c.mu.Lock()
	c.assertErr = err
	c.mu.Unlock()
}

// FailDeassert injects an error on the next Deassert calls.
func (c *MockSelectLine) FailDeassert(err error) {
	c.mu.Lock()
	c.deassertErr = err
	c.mu.Unlock()
}
