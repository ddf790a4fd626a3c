// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

// Register is a volatile register address in the MCP41HVX1 memory map
// (datasheet DS20005207, register 4-1).
type Register byte

const (
	// RegWiper is the volatile wiper register.
	RegWiper Register = 0x00
	// RegTCON is the terminal control register gating the connection
	// between the wiper and the resistor network terminals.
	RegTCON Register = 0x04
)

// valid reports whether the register is one the driver knows how to
// address. The HV parts only decode the wiper and TCON addresses.
func (r Register) valid() bool {
	return r == RegWiper || r == RegTCON
}

func (r Register) String() string {
	switch r {
	case RegWiper:
		return "wiper"
	case RegTCON:
		return "tcon"
	default:
		return "unknown"
	}
}

// Command opcodes, the C1:C0 bits of a command byte.
const (
	opWrite     byte = 0b00
	opIncrement byte = 0b01
	opDecrement byte = 0b10
	opRead      byte = 0b11
)

// commandByte builds the 8-bit command: AD3:AD0 in the high nibble, C1:C0
// in bits 3:2. Bits 1:0 carry data for 10-bit parts and stay zero here.
func commandByte(reg Register, op byte) byte {
	return byte(reg)<<4 | op<<2
}

// cmdErrBit is the CMDERR flag in the first byte shifted out on SDO while
// a command byte shifts in. The chip holds it HIGH for an accepted command
// and drives it LOW to reject (DS20005207 section 7.2). Both the bit
// position and the accept polarity were verified against the datasheet;
// earlier revisions of this driver disagreed on both.
const cmdErrBit = 0x02

// commandAccepted decodes the CMDERR bit of a first reply byte.
func commandAccepted(status byte) bool {
	return status&cmdErrBit != 0
}

// TCON data bytes for the single-pot HV parts: 0xFF connects all
// terminals (normal operation), 0xF9 opens the wiper and W terminal
// switches for a low-power disconnected state.
const (
	tconConnect    byte = 0xFF
	tconDisconnect byte = 0xF9
)

// dummyByte provides clock cycles for the second half of a read exchange.
const dummyByte byte = 0x00

// WiperDirection selects which way MoveWiper steps the wiper.
type WiperDirection int

const (
	// WiperIncrement steps the wiper code toward full scale.
	WiperIncrement WiperDirection = iota
	// WiperDecrement steps the wiper code toward zero scale.
	WiperDecrement
)

func (d WiperDirection) String() string {
	switch d {
	case WiperIncrement:
		return "increment"
	case WiperDecrement:
		return "decrement"
	default:
		return "unknown"
	}
}
