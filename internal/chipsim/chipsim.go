// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

// Package chipsim simulates an MCP41HVX1 at the wire level for host-side
// tests. Chip implements the driver's Peripheral interface and models the
// full-duplex shift register: every byte written clocks one byte into the
// receive FIFO, the CMDERR flag appears in the byte shifted out while the
// command byte shifts in, and register state (wiper code, TCON) updates
// exactly when the datasheet says it does.
//
// The simulator deliberately keeps undrained receive bytes around across
// transactions. A driver that skips the disable-time FIFO drain reads
// those stale bytes as the next transaction's reply, which is the failure
// mode the drain invariant exists to catch.
package chipsim

import (
	"sync"

	mcp41hvx1 "github.com/digipot-io/go-mcp41hvx1"
)

// SDO idle level: the chip drives all-ones except when it pulls the
// CMDERR bit low to reject a command.
const (
	replyAccepted = 0xFF
	replyRejected = 0xFD // CMDERR (bit 1) low
)

// Command opcode bits as they appear on the wire.
const (
	opWrite     = 0b00
	opIncrement = 0b01
	opDecrement = 0b10
	opRead      = 0b11
)

// Chip is a simulated MCP41HVX1 attached to a simulated peripheral.
// Use Line to obtain the chip-select line that addresses it.
type Chip struct {
	mu sync.Mutex

	wiper uint8
	tcon  byte

	selected  bool
	enabled   bool
	mode      mcp41hvx1.ClockMode
	threshold mcp41hvx1.RxThreshold

	rxFIFO []byte

	// pendingOp/pendingReg hold a two-byte command between its command
	// byte and data byte.
	pendingOp  byte
	pendingReg byte
	midFrame   bool

	wiperLocked bool
	busyPolls   int
	busyLeft    int
}

// New returns a simulated chip with the wiper at mid-scale and all
// terminals connected.
func New() *Chip {
	return &Chip{
		wiper: 0x80,
		tcon:  0xFF,
		mode:  mcp41hvx1.ClockMode{Polarity: 1, Phase: 1},
	}
}

// Line returns the chip-select line wired to this chip.
func (c *Chip) Line() *Line {
	return &Line{chip: c}
}

// WriteData implements Peripheral. One byte shifts in, one byte shifts
// out into the receive FIFO.
func (c *Chip) WriteData(b byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.busyLeft = c.busyPolls
	c.rxFIFO = append(c.rxFIFO, c.shift(b))
}

// shift models one full-duplex byte exchange. Caller holds c.mu.
func (c *Chip) shift(b byte) byte {
	if !c.enabled {
		// Nothing clocks without the peripheral enabled; the receive
		// register would never fill. Modeled as an idle-level byte so a
		// buggy driver sees garbage rather than a hang.
		return replyAccepted
	}
	if !c.selected {
		// SDO is high impedance; the master samples the idle level.
		return replyAccepted
	}
	if c.mode != (mcp41hvx1.ClockMode{}) {
		// Wrong clock mode: edges sample mid-bit and the chip never
		// decodes a valid command. All-zero reads look like a rejected
		// command to the driver.
		return 0x00
	}

	if c.midFrame {
		c.midFrame = false
		switch c.pendingOp {
		case opWrite:
			return c.applyWrite(c.pendingReg, b)
		case opRead:
			return c.registerValue(c.pendingReg)
		default:
			return replyRejected
		}
	}

	reg := b >> 4
	op := (b >> 2) & 0b11

	switch op {
	case opIncrement:
		return c.applyMove(reg, +1)
	case opDecrement:
		return c.applyMove(reg, -1)
	case opWrite, opRead:
		if !c.validRegister(reg) {
			return replyRejected
		}
		c.pendingOp = op
		c.pendingReg = reg
		c.midFrame = true
		return replyAccepted
	default:
		return replyRejected
	}
}

func (*Chip) validRegister(reg byte) bool {
	return reg == 0x00 || reg == 0x04
}

func (c *Chip) applyMove(reg byte, delta int) byte {
	if reg != 0x00 || c.wiperLocked {
		return replyRejected
	}
	// Stepping past either extreme is absorbed, not an error.
	next := int(c.wiper) + delta
	if next >= 0 && next <= 0xFF {
		c.wiper = uint8(next)
	}
	return replyAccepted
}

func (c *Chip) applyWrite(reg, data byte) byte {
	switch reg {
	case 0x00:
		if c.wiperLocked {
			return replyRejected
		}
		c.wiper = data
	case 0x04:
		c.tcon = data
	default:
		return replyRejected
	}
	return replyAccepted
}

func (c *Chip) registerValue(reg byte) byte {
	switch reg {
	case 0x00:
		return c.wiper
	case 0x04:
		return c.tcon
	default:
		return replyRejected
	}
}

// ReadData implements Peripheral.
func (c *Chip) ReadData() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.rxFIFO) == 0 {
		return 0
	}
	b := c.rxFIFO[0]
	c.rxFIFO = c.rxFIFO[1:]
	return b
}

// TxReady implements Peripheral.
func (*Chip) TxReady() bool {
	return true
}

// RxReady implements Peripheral.
func (c *Chip) RxReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rxFIFO) > 0
}

// Busy implements Peripheral. Configurable via SetBusyPolls.
func (c *Chip) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busyLeft > 0 {
		c.busyLeft--
		return true
	}
	return false
}

// SetEnabled implements Peripheral. Disabling aborts a half-received
// two-byte command, as cutting the clock mid-frame does on hardware.
func (c *Chip) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	if !enabled {
		c.midFrame = false
	}
}

// Mode implements Peripheral.
func (c *Chip) Mode() mcp41hvx1.ClockMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode implements Peripheral.
func (c *Chip) SetMode(mode mcp41hvx1.ClockMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
}

// SetRxThreshold implements Peripheral.
func (c *Chip) SetRxThreshold(t mcp41hvx1.RxThreshold) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.threshold = t
}

// Simulation controls and state inspection

// Wiper returns the current wiper code.
func (c *Chip) Wiper() uint8 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wiper
}

// SetWiper sets the wiper code directly.
func (c *Chip) SetWiper(code uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wiper = code
}

// TCON returns the terminal control register.
func (c *Chip) TCON() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tcon
}

// SetWiperLocked makes the chip reject wiper writes and moves, as the
// hardware does when the WiperLock feature is active.
func (c *Chip) SetWiperLocked(locked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.wiperLocked = locked
}

// SetBusyPolls makes Busy report true for n polls after each byte,
// simulating a slow shift clock.
func (c *Chip) SetBusyPolls(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busyPolls = n
}

// PendingRx returns the number of undrained receive bytes.
func (c *Chip) PendingRx() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.rxFIFO)
}

// Selected reports whether chip select is at its active level.
func (c *Chip) Selected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Enabled reports the peripheral enable flag.
func (c *Chip) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Line is the chip-select line of a simulated chip.
type Line struct {
	chip *Chip
}

// Assert implements SelectLine. Selecting the chip starts a new command
// frame.
func (l *Line) Assert() error {
	l.chip.mu.Lock()
	defer l.chip.mu.Unlock()
	l.chip.selected = true
	l.chip.midFrame = false
	return nil
}

// Deassert implements SelectLine.
func (l *Line) Deassert() error {
	l.chip.mu.Lock()
	defer l.chip.mu.Unlock()
	l.chip.selected = false
	l.chip.midFrame = false
	return nil
}
