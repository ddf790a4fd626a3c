// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1_test

import (
	"sync"
	"testing"

	mcp41hvx1 "github.com/digipot-io/go-mcp41hvx1"
	"github.com/digipot-io/go-mcp41hvx1/internal/chipsim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulatedDevice(t *testing.T, per mcp41hvx1.Peripheral, chip *chipsim.Chip) *mcp41hvx1.Device {
	t.Helper()
	bus := mcp41hvx1.NewBus(per, mcp41hvx1.WithPortName("sim0"))
	dev, err := mcp41hvx1.New(bus, chip.Line())
	require.NoError(t, err)
	return dev
}

func TestDriverAgainstSimulatedChip(t *testing.T) {
	t.Parallel()

	chip := chipsim.New()
	dev := newSimulatedDevice(t, chip, chip)

	require.NoError(t, dev.Startup())
	assert.Equal(t, byte(0xFF), chip.TCON())

	require.NoError(t, dev.SetResistance(9804.0))
	assert.Equal(t, uint8(205), chip.Wiper())

	ohms, err := dev.GetResistance()
	require.NoError(t, err)
	assert.InDelta(t, 9804.0, ohms, 1e-9)

	require.NoError(t, dev.MoveWiper(mcp41hvx1.WiperIncrement))
	assert.Equal(t, uint8(206), chip.Wiper())
	require.NoError(t, dev.MoveWiper(mcp41hvx1.WiperDecrement))
	assert.Equal(t, uint8(205), chip.Wiper())

	require.NoError(t, dev.Shutdown())
	assert.Equal(t, byte(0xF9), chip.TCON())

	// Every transaction drained the peripheral and released the chip.
	assert.Equal(t, 0, chip.PendingRx())
	assert.False(t, chip.Selected())
	assert.False(t, chip.Enabled())
}

func TestDriverRestoresClockMode(t *testing.T) {
	t.Parallel()

	chip := chipsim.New()
	dev := newSimulatedDevice(t, chip, chip)

	// Another device on the bus left mode 3 configured.
	other := mcp41hvx1.ClockMode{Polarity: 1, Phase: 1}
	chip.SetMode(other)

	require.NoError(t, dev.MoveWiper(mcp41hvx1.WiperIncrement))
	assert.Equal(t, other, chip.Mode(), "pre-transaction clock mode restored")

	// Also restored after a chip-rejected command.
	chip.SetWiperLocked(true)
	err := dev.MoveWiper(mcp41hvx1.WiperIncrement)
	require.ErrorIs(t, err, mcp41hvx1.ErrCommandRejected)
	assert.Equal(t, other, chip.Mode())
	assert.False(t, chip.Selected())
}

func TestDriverChipRejection(t *testing.T) {
	t.Parallel()

	chip := chipsim.New()
	chip.SetWiperLocked(true)
	dev := newSimulatedDevice(t, chip, chip)

	err := dev.SetResistance(9804.0)
	require.ErrorIs(t, err, mcp41hvx1.ErrCommandRejected)
	assert.False(t, mcp41hvx1.IsRetryable(err))

	// TCON writes still go through under wiper lock.
	require.NoError(t, dev.Shutdown())
	assert.Equal(t, byte(0xF9), chip.TCON())
}

func TestDriverWithReadinessJitter(t *testing.T) {
	t.Parallel()

	chip := chipsim.New()
	chip.SetBusyPolls(3)
	jit := chipsim.NewJitteryPeripheral(chip, chipsim.JitterConfig{MaxNotReadyPolls: 8, Seed: 1})
	dev := newSimulatedDevice(t, jit, chip)

	for i := 0; i < 20; i++ {
		require.NoError(t, dev.SetWiperCode(uint8(i*12)))
		code, err := dev.WiperCode()
		require.NoError(t, err)
		require.Equal(t, uint8(i*12), code)
	}
	assert.Equal(t, 0, chip.PendingRx())
}

func TestDriverConcurrentCallers(t *testing.T) {
	t.Parallel()

	chip := chipsim.New()
	dev := newSimulatedDevice(t, chip, chip)
	require.NoError(t, dev.SetWiperCode(100))

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				assert.NoError(t, dev.MoveWiper(mcp41hvx1.WiperIncrement))
			}
		}()
	}
	wg.Wait()

	// 100 increments from code 100, each fully serialized on the bus.
	assert.Equal(t, uint8(200), chip.Wiper())
	assert.Equal(t, 0, chip.PendingRx())
	assert.False(t, chip.Selected())
}
