// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package chipsim

import (
	"testing"

	mcp41hvx1 "github.com/digipot-io/go-mcp41hvx1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exchange clocks one byte through a selected, enabled chip and returns
// the byte shifted back.
func exchange(t *testing.T, chip *Chip, b byte) byte {
	t.Helper()
	chip.WriteData(b)
	require.True(t, chip.RxReady())
	return chip.ReadData()
}

func newActiveChip(t *testing.T) *Chip {
	t.Helper()
	chip := New()
	chip.SetMode(mcp41hvx1.ClockMode{})
	chip.SetEnabled(true)
	require.NoError(t, chip.Line().Assert())
	return chip
}

func TestChip_IncrementDecrement(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)
	chip.SetWiper(0x80)

	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x04))
	assert.Equal(t, uint8(0x81), chip.Wiper())

	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x08))
	assert.Equal(t, uint8(0x80), chip.Wiper())
}

func TestChip_MoveClampsAtExtremes(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)

	chip.SetWiper(0xFF)
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x04), "step past full scale is absorbed, not an error")
	assert.Equal(t, uint8(0xFF), chip.Wiper())

	chip.SetWiper(0x00)
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x08))
	assert.Equal(t, uint8(0x00), chip.Wiper())
}

func TestChip_WriteAndReadWiper(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)

	// Write frame: command byte then data byte.
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x00))
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 205))
	assert.Equal(t, uint8(205), chip.Wiper())

	// Read frame: command byte then dummy clocks out the value.
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x0C))
	assert.Equal(t, byte(205), exchange(t, chip, 0x00))
}

func TestChip_TCON(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)

	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x40))
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0xF9))
	assert.Equal(t, byte(0xF9), chip.TCON())

	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x4C))
	assert.Equal(t, byte(0xF9), exchange(t, chip, 0x00))
}

func TestChip_RejectsInvalidRegister(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)

	// Write to an unimplemented register address.
	assert.Equal(t, byte(replyRejected), exchange(t, chip, 0x90))
	// Increment targets anything but the wiper register.
	assert.Equal(t, byte(replyRejected), exchange(t, chip, 0x44))
}

func TestChip_WiperLock(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)
	chip.SetWiper(0x80)
	chip.SetWiperLocked(true)

	assert.Equal(t, byte(replyRejected), exchange(t, chip, 0x04))
	assert.Equal(t, uint8(0x80), chip.Wiper())

	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x00), "command byte accepted before data")
	assert.Equal(t, byte(replyRejected), exchange(t, chip, 0x42), "data byte rejected under wiper lock")
	assert.Equal(t, uint8(0x80), chip.Wiper())

	// TCON writes are not covered by the wiper lock.
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x40))
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0xFF))
}

func TestChip_WrongClockMode(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)
	chip.SetWiper(0x80)
	chip.SetMode(mcp41hvx1.ClockMode{Polarity: 1, Phase: 1})

	assert.Equal(t, byte(0x00), exchange(t, chip, 0x04), "wrong mode never decodes a command")
	assert.Equal(t, uint8(0x80), chip.Wiper())
}

func TestChip_IgnoredWhenDeselected(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)
	chip.SetWiper(0x80)
	require.NoError(t, chip.Line().Deassert())

	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x04), "master samples the idle level")
	assert.Equal(t, uint8(0x80), chip.Wiper(), "deselected chip ignores traffic")
}

func TestChip_DeselectAbortsFrame(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)
	chip.SetWiper(0x80)
	line := chip.Line()

	// Command byte of a wiper write, then the frame is cut short.
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x00))
	require.NoError(t, line.Deassert())
	require.NoError(t, line.Assert())

	// The next byte starts a fresh frame rather than completing the
	// aborted write.
	assert.Equal(t, byte(replyAccepted), exchange(t, chip, 0x04))
	assert.Equal(t, uint8(0x81), chip.Wiper())
}

func TestChip_StaleBytesPersist(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)

	chip.WriteData(0x04)
	assert.Equal(t, 1, chip.PendingRx(), "undrained reply stays in the FIFO")

	chip.SetEnabled(false)
	assert.Equal(t, 1, chip.PendingRx(), "disable does not drain; that is the driver's job")
}

func TestChip_Busy(t *testing.T) {
	t.Parallel()

	chip := newActiveChip(t)
	chip.SetBusyPolls(3)

	chip.WriteData(0x04)
	busyPolls := 0
	for chip.Busy() {
		busyPolls++
	}
	assert.Equal(t, 3, busyPolls)
	assert.False(t, chip.Busy())
}
