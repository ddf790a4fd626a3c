// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

// Package spidev adapts a Linux spidev port and a GPIO chip-select line
// to the driver's Peripheral and SelectLine interfaces using periph.io.
//
// spidev exposes whole transfers rather than peripheral registers, so the
// byte-granular contract is mapped onto full-duplex transfers: every byte
// written clocks one transfer and the byte shifted back is queued for
// ReadData. The kernel handles FIFO draining and the enable flag has no
// register to touch, which makes TxReady/Busy trivially ready; the
// transaction envelope's ordering guarantees are preserved because the
// chip-select line is driven explicitly through a GPIO pin rather than
// the spidev automatic CS.
package spidev

import (
	"fmt"
	"sync"

	mcp41hvx1 "github.com/digipot-io/go-mcp41hvx1"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// defaultFreq keeps the clock well inside the chip's 10 MHz limit.
const defaultFreq = 1 * physic.MegaHertz

var hostInitOnce sync.Once

// Peripheral implements mcp41hvx1.Peripheral over a spidev port.
// Not safe for concurrent use on its own; mcp41hvx1.Bus serializes
// access.
type Peripheral struct {
	port     spi.PortCloser
	conn     spi.Conn
	portName string
	freq     physic.Frequency
	mode     mcp41hvx1.ClockMode
	rx       []byte
	enabled  bool
	ioErr    error
}

// Option configures Open.
type Option func(*Peripheral)

// WithFrequency overrides the SPI clock frequency.
func WithFrequency(freq physic.Frequency) Option {
	return func(p *Peripheral) {
		p.freq = freq
	}
}

// Open opens a spidev port and a GPIO chip-select pin, returning the
// peripheral and select line for mcp41hvx1.NewBus and mcp41hvx1.New.
// The CS pin is driven as an active-low push-pull output and starts
// deasserted.
func Open(portName, csPin string, opts ...Option) (*Peripheral, *CSLine, error) {
	var initErr error
	hostInitOnce.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, nil, fmt.Errorf("failed to initialize periph host: %w", initErr)
	}

	per := &Peripheral{
		portName: portName,
		freq:     defaultFreq,
	}
	for _, opt := range opts {
		opt(per)
	}

	if err := per.connect(); err != nil {
		return nil, nil, err
	}

	pin := gpioreg.ByName(csPin)
	if pin == nil {
		_ = per.Close()
		return nil, nil, fmt.Errorf("chip select pin %q not found", csPin)
	}
	cs := &CSLine{pin: pin}
	if err := cs.Deassert(); err != nil {
		_ = per.Close()
		return nil, nil, err
	}

	return per, cs, nil
}

// connect opens the port with the current clock mode.
func (p *Peripheral) connect() error {
	port, err := spireg.Open(p.portName)
	if err != nil {
		return fmt.Errorf("failed to open SPI port %s: %w", p.portName, err)
	}

	conn, err := port.Connect(p.freq, spiMode(p.mode)|spi.NoCS, 8)
	if err != nil {
		_ = port.Close()
		return fmt.Errorf("failed to connect SPI: %w", err)
	}

	p.port = port
	p.conn = conn
	return nil
}

// spiMode maps polarity/phase bits to a periph.io mode constant.
func spiMode(m mcp41hvx1.ClockMode) spi.Mode {
	switch {
	case m.Polarity == 0 && m.Phase == 0:
		return spi.Mode0
	case m.Polarity == 0 && m.Phase == 1:
		return spi.Mode1
	case m.Polarity == 1 && m.Phase == 0:
		return spi.Mode2
	default:
		return spi.Mode3
	}
}

// WriteData implements Peripheral. The full-duplex reply byte is queued
// for ReadData. A transfer error latches; the receive side then reports
// not-ready and the driver's bounded wait surfaces a timeout.
func (p *Peripheral) WriteData(b byte) {
	if p.ioErr != nil || !p.enabled {
		return
	}
	var reply [1]byte
	if err := p.conn.Tx([]byte{b}, reply[:]); err != nil {
		p.ioErr = fmt.Errorf("spi transfer: %w", err)
		return
	}
	p.rx = append(p.rx, reply[0])
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

// Busy implements Peripheral. Transfers complete synchronously in the
// kernel, so the peripheral is never observed mid-shift.
func (*Peripheral) Busy() bool {
	return false
}

// SetEnabled implements Peripheral. Disabling clears a latched transfer
// error so the next transaction starts clean.
func (p *Peripheral) SetEnabled(enabled bool) {
	p.enabled = enabled
	if !enabled {
		p.ioErr = nil
	}
}

// Mode implements Peripheral.
func (p *Peripheral) Mode() mcp41hvx1.ClockMode {
	return p.mode
}

// SetMode implements Peripheral. spidev fixes the mode at connect time,
// so an actual change reopens the port. The common case - restoring the
// mode that is already set - is free.
func (p *Peripheral) SetMode(mode mcp41hvx1.ClockMode) {
	if mode == p.mode {
		return
	}
	p.mode = mode
	_ = p.port.Close()
	if err := p.connect(); err != nil {
		p.ioErr = err
	}
}

// SetRxThreshold implements Peripheral. Transfers are byte granular
// regardless of response width.
func (*Peripheral) SetRxThreshold(mcp41hvx1.RxThreshold) {}

// Err returns the latched transfer error, if any.
func (p *Peripheral) Err() error {
	return p.ioErr
}

// Close releases the SPI port.
func (p *Peripheral) Close() error {
	if p.port == nil {
		return nil
	}
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("failed to close SPI port: %w", err)
	}
	p.port = nil
	return nil
}

// CSLine drives an active-low chip-select GPIO pin.
type CSLine struct {
	pin gpio.PinOut
}

// Assert implements SelectLine by driving the pin low.
func (c *CSLine) Assert() error {
	if err := c.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to assert %s: %w", c.pin.Name(), err)
	}
	return nil
}

// Deassert implements SelectLine by driving the pin high.
func (c *CSLine) Deassert() error {
	if err := c.pin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to deassert %s: %w", c.pin.Name(), err)
	}
	return nil
}
