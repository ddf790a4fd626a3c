// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

// Package serialbridge adapts a USB serial MCU bridge to the driver's
// Peripheral and SelectLine interfaces.
//
// The bridge firmware owns the real SPI peripheral and chip-select pin
// and exposes them over a one-byte-opcode protocol:
//
//	'X' <byte>  full-duplex transfer; bridge replies with the MISO byte
//	'C' <0|1>   chip select deassert/assert; bridge replies ACK
//	'E' <0|1>   peripheral disable/enable; bridge replies ACK
//	'M' <mode>  clock mode, bit1=CPOL bit0=CPHA; bridge replies ACK
//
// where ACK is 0x06 and any other reply is treated as a bridge fault.
// Each request is answered before the next is sent, so transfers are
// synchronous from the driver's point of view and the local receive
// queue stands in for the peripheral's FIFO.
package serialbridge

import (
	"fmt"
	"time"

	mcp41hvx1 "github.com/digipot-io/go-mcp41hvx1"
	"go.bug.st/serial"
)

// Bridge protocol bytes.
const (
	opTransfer = 'X'
	opSelect   = 'C'
	opEnable   = 'E'
	opMode     = 'M'

	ack = 0x06
)

// Peripheral implements mcp41hvx1.Peripheral over a serial bridge.
// Not safe for concurrent use on its own; mcp41hvx1.Bus serializes
// access.
type Peripheral struct {
	port     serial.Port
	portName string
	mode     mcp41hvx1.ClockMode
	rx       []byte
	enabled  bool
	ioErr    error
}

// Open connects to a bridge on the given serial port and returns the
// peripheral plus its chip-select line.
func Open(portName string) (*Peripheral, *CSLine, error) {
	port, err := serial.Open(portName, &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open bridge port %s: %w", portName, err)
	}

	if err := port.SetReadTimeout(100 * time.Millisecond); err != nil {
		_ = port.Close()
		return nil, nil, fmt.Errorf("failed to set bridge read timeout: %w", err)
	}

	per := &Peripheral{
		port:     port,
		portName: portName,
	}

	// Leave the chip deselected and the peripheral disabled until the
	// first transaction.
	if err := per.request(opSelect, 0); err != nil {
		_ = port.Close()
		return nil, nil, err
	}
	if err := per.request(opEnable, 0); err != nil {
		_ = port.Close()
		return nil, nil, err
	}

	return per, &CSLine{per: per}, nil
}

// request sends one opcode+argument pair and checks the ACK reply.
func (p *Peripheral) request(op byte, arg byte) error {
	reply, err := p.exchange(op, arg)
	if err != nil {
		return err
	}
	if reply != ack {
		return fmt.Errorf("bridge %s: opcode %q rejected with 0x%02X", p.portName, op, reply)
	}
	return nil
}

// exchange sends one opcode+argument pair and returns the single reply
// byte.
func (p *Peripheral) exchange(op byte, arg byte) (byte, error) {
	if _, err := p.port.Write([]byte{op, arg}); err != nil {
		return 0, fmt.Errorf("bridge %s write: %w", p.portName, err)
	}

	var reply [1]byte
	n, err := p.port.Read(reply[:])
	if err != nil {
		return 0, fmt.Errorf("bridge %s read: %w", p.portName, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("bridge %s: no reply to opcode %q", p.portName, op)
	}
	return reply[0], nil
}

// WriteData implements Peripheral. The bridge's MISO byte is queued for
// ReadData. A bridge fault latches; the receive side then reports
// not-ready and the driver's bounded wait surfaces a timeout.
func (p *Peripheral) WriteData(b byte) {
	if p.ioErr != nil || !p.enabled {
		return
	}
	reply, err := p.exchange(opTransfer, b)
	if err != nil {
		p.ioErr = err
		return
	}
	p.rx = append(p.rx, reply)
}

// ReadData implements Peripheral.
func (p *Peripheral) ReadData() byte {
	if len(p.rx) == 0 {
		return 0
	}
	b := p.rx[0]
	p.rx = p.rx[1:]
	return b
}

// TxReady implements Peripheral.
func (*Peripheral) TxReady() bool {
	return true
}

// RxReady implements Peripheral.
func (p *Peripheral) RxReady() bool {
	return p.ioErr == nil && len(p.rx) > 0
}

// Busy implements Peripheral. The bridge answers only after its shift
// completes, so the peripheral is never observed mid-transfer.
func (*Peripheral) Busy() bool {
	return false
}

// SetEnabled implements Peripheral.
func (p *Peripheral) SetEnabled(enabled bool) {
	p.enabled = enabled
	arg := byte(0)
	if enabled {
		arg = 1
	}
	if err := p.request(opEnable, arg); err != nil && p.ioErr == nil {
		p.ioErr = err
	}
	if !enabled {
		p.ioErr = nil
	}
}

// Mode implements Peripheral.
func (p *Peripheral) Mode() mcp41hvx1.ClockMode {
	return p.mode
}

// SetMode implements Peripheral.
func (p *Peripheral) SetMode(mode mcp41hvx1.ClockMode) {
	if mode == p.mode {
		return
	}
	p.mode = mode
	if err := p.request(opMode, mode.Polarity<<1|mode.Phase); err != nil && p.ioErr == nil {
		p.ioErr = err
	}
}

// SetRxThreshold implements Peripheral. The bridge replies per byte
// regardless of response width.
func (*Peripheral) SetRxThreshold(mcp41hvx1.RxThreshold) {}

// Err returns the latched bridge fault, if any.
func (p *Peripheral) Err() error {
	return p.ioErr
}

// Close releases the serial port.
func (p *Peripheral) Close() error {
	if p.port == nil {
		return nil
	}
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("failed to close bridge port: %w", err)
	}
	p.port = nil
	return nil
}

// CSLine drives the bridge's chip-select output.
type CSLine struct {
	per *Peripheral
}

// Assert implements SelectLine.
func (c *CSLine) Assert() error {
	return c.per.request(opSelect, 1)
}

// Deassert implements SelectLine.
func (c *CSLine) Deassert() error {
	return c.per.request(opSelect, 0)
}
