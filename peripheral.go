// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

// ClockMode holds the SPI clock polarity and phase bits of a peripheral.
// It is captured before each transaction and restored afterwards, so other
// devices sharing the bus keep whatever mode they were configured for.
// The value travels through the transaction as an explicit token; the
// driver never stores it in package state.
type ClockMode struct {
	// Polarity is the idle clock level (CPOL).
	Polarity uint8
	// Phase selects the sampling edge (CPHA).
	Phase uint8
}

// modeChip is the mode the MCP41HVX1 requires: CPOL=0, CPHA=0.
var modeChip = ClockMode{Polarity: 0, Phase: 0}

// RxThreshold selects when a peripheral reports RxReady, matching the
// width of the response the chip will shift out.
type RxThreshold int

const (
	// RxThresholdByte fires RxReady per received byte.
	RxThresholdByte RxThreshold = iota
	// RxThresholdHalfWord fires RxReady per received 16-bit pair. Most
	// byte-oriented peripherals treat this the same as RxThresholdByte;
	// it exists for FIFO-based controllers with configurable watermarks.
	RxThresholdHalfWord
)

// Peripheral abstracts a synchronous serial (SPI) peripheral at byte
// granularity. Implementations exist for Linux spidev (periph/spidev), a
// USB serial MCU bridge (periph/serialbridge), and a simulated chip
// (internal/chipsim). The protocol layers are written purely against this
// interface and never touch hardware registers directly.
//
// Implementations are not required to be safe for concurrent use; Bus
// serializes all access.
type Peripheral interface {
	// WriteData pushes one byte into the transmit register. Callers must
	// observe TxReady first.
	WriteData(b byte)

	// ReadData pops one byte from the receive register. Callers must
	// observe RxReady first. Reading while not ready returns whatever
	// stale byte the peripheral holds, which is exactly the corruption
	// the disable-time drain exists to prevent.
	ReadData() byte

	// TxReady reports whether the transmit register can accept a byte.
	TxReady() bool

	// RxReady reports whether a received byte is waiting.
	RxReady() bool

	// Busy reports whether a transfer is still in flight.
	Busy() bool

	// SetEnabled sets or clears the peripheral enable flag.
	SetEnabled(enabled bool)

	// Mode returns the current clock polarity/phase.
	Mode() ClockMode

	// SetMode reprograms the clock polarity/phase. Only call while the
	// peripheral is disabled.
	SetMode(mode ClockMode)

	// SetRxThreshold configures the receive-ready watermark for the
	// expected response width.
	SetRxThreshold(t RxThreshold)
}

// SelectLine abstracts one chip-select GPIO line. The MCP41HVX1 CS pin is
// active low; implementations own the translation from Assert/Deassert to
// the electrical level. The line must already be configured as a push-pull
// output before the driver uses it.
type SelectLine interface {
	// Assert drives the line to its active level, addressing the chip.
	Assert() error
	// Deassert returns the line to its idle level.
	Deassert() error
}
