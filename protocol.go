// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

// Command protocol engine. Each exchange runs inside one bus transaction
// and decodes the chip's reply uniformly: the first byte shifted out on
// SDO carries the CMDERR flag, and a command is accepted only when that
// flag reads high. Rejected commands surface as *CommandError with no
// retry at this layer.

// exchangeMove issues a one-byte increment or decrement command against
// the wiper register and checks the single status byte the chip shifts
// back.
func exchangeMove(b *Bus, cs SelectLine, dir WiperDirection) error {
	op := opIncrement
	if dir == WiperDecrement {
		op = opDecrement
	}
	cmd := commandByte(RegWiper, op)

	return b.transact(cs, RxThresholdByte, func() error {
		if err := b.transmitByte(cmd); err != nil {
			return err
		}
		status, err := b.receiveByte()
		if err != nil {
			return err
		}
		debugf("move %s: cmd=0x%02X status=0x%02X", dir, cmd, status)
		if !commandAccepted(status) {
			return NewCommandError("move "+dir.String(), status)
		}
		return nil
	})
}

// exchangeWrite issues a two-byte write frame (command byte, data byte)
// and checks the CMDERR flag in the first of the two reply bytes. The
// second reply byte is clocked out while the data byte shifts in and
// carries nothing useful, but it must still be received so the FIFO is
// empty when the transaction quiesces.
func exchangeWrite(b *Bus, cs SelectLine, reg Register, data byte) error {
	cmd := commandByte(reg, opWrite)

	return b.transact(cs, RxThresholdHalfWord, func() error {
		if err := b.transmitByte(cmd); err != nil {
			return err
		}
		if err := b.transmitByte(data); err != nil {
			return err
		}
		status, err := b.receiveByte()
		if err != nil {
			return err
		}
		if _, err := b.receiveByte(); err != nil {
			return err
		}
		debugf("write %s: cmd=0x%02X data=0x%02X status=0x%02X", reg, cmd, data, status)
		if !commandAccepted(status) {
			return NewCommandError("write "+reg.String(), status)
		}
		return nil
	})
}

// exchangeRead issues the read command, checks the status byte, then
// clocks a dummy byte to shift out the register value. If the chip
// rejects the read, no dummy byte is transmitted and the transaction
// ends after the status byte.
func exchangeRead(b *Bus, cs SelectLine, reg Register) (byte, error) {
	cmd := commandByte(reg, opRead)

	var value byte
	err := b.transact(cs, RxThresholdByte, func() error {
		if err := b.transmitByte(cmd); err != nil {
			return err
		}
		status, err := b.receiveByte()
		if err != nil {
			return err
		}
		if !commandAccepted(status) {
			debugf("read %s: cmd=0x%02X rejected status=0x%02X", reg, cmd, status)
			return NewCommandError("read "+reg.String(), status)
		}
		if err := b.transmitByte(dummyByte); err != nil {
			return err
		}
		value, err = b.receiveByte()
		if err != nil {
			return err
		}
		debugf("read %s: cmd=0x%02X value=0x%02X", reg, cmd, value)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return value, nil
}
