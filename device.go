// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import (
	"context"
	"errors"
	"fmt"
)

// Device represents one MCP41HVX1 chip: a shared bus plus the chip-select
// line that addresses this particular part. Create exactly one Device per
// physical chip-select line. The handle is created once at startup and
// passed by reference; it is never reassigned.
//
// Devices sharing a Bus may be used from multiple goroutines; the bus
// mutex serializes their transactions. Operations block until the
// transaction completes and cannot be cancelled mid-flight - the Context
// variants only honor cancellation up to the point the transaction
// begins.
type Device struct {
	bus *Bus
	cs  SelectLine
	cal Calibration
}

// Option configures a Device during New.
type Option func(*Device) error

// WithCalibration overrides the resistance/code calibration constants.
func WithCalibration(cal Calibration) Option {
	return func(d *Device) error {
		if cal.StepResistance <= 0 {
			return fmt.Errorf("step resistance must be positive, got %g", cal.StepResistance)
		}
		if cal.MaxResistance <= 0 {
			return fmt.Errorf("max resistance must be positive, got %g", cal.MaxResistance)
		}
		d.cal = cal
		return nil
	}
}

// New creates a Device on the given bus and chip-select line. It performs
// no bus traffic; the first exchange happens on the first operation.
func New(bus *Bus, cs SelectLine, opts ...Option) (*Device, error) {
	if bus == nil {
		return nil, errors.New("bus must not be nil")
	}
	if cs == nil {
		return nil, errors.New("chip select line must not be nil")
	}

	device := &Device{
		bus: bus,
		cs:  cs,
		cal: DefaultCalibration(),
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	return device, nil
}

// Bus returns the bus this device transacts on.
func (d *Device) Bus() *Bus {
	return d.bus
}

// Calibration returns the active calibration constants.
func (d *Device) Calibration() Calibration {
	return d.cal
}

// MoveWiper steps the wiper one code in the given direction.
func (d *Device) MoveWiper(dir WiperDirection) error {
	return exchangeMove(d.bus, d.cs, dir)
}

// MoveWiperContext is MoveWiper with cancellation before the transaction
// begins. Once the bus is acquired the exchange always runs to
// completion, so the bus is never abandoned mid-transaction.
func (d *Device) MoveWiperContext(ctx context.Context, dir WiperDirection) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("move wiper cancelled: %w", err)
	}
	return d.MoveWiper(dir)
}

// SetWiperCode writes a raw wiper code to the wiper register.
func (d *Device) SetWiperCode(code uint8) error {
	return exchangeWrite(d.bus, d.cs, RegWiper, code)
}

// WiperCode reads back the current wiper code.
func (d *Device) WiperCode() (uint8, error) {
	return exchangeRead(d.bus, d.cs, RegWiper)
}

// SetResistance programs the wiper to the code nearest the requested
// resistance. Values outside (0, MaxResistance] are rejected before any
// bus traffic with ErrResistanceRange.
func (d *Device) SetResistance(ohms float64) error {
	if err := d.cal.CheckResistance(ohms); err != nil {
		return fmt.Errorf("set resistance %g: %w", ohms, err)
	}
	return d.SetWiperCode(d.cal.ResistanceToCode(ohms))
}

// SetResistanceContext is SetResistance with cancellation before the
// transaction begins.
func (d *Device) SetResistanceContext(ctx context.Context, ohms float64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("set resistance cancelled: %w", err)
	}
	return d.SetResistance(ohms)
}

// GetResistance reads the wiper register and converts the code to ohms.
func (d *Device) GetResistance() (float64, error) {
	code, err := d.WiperCode()
	if err != nil {
		return 0, err
	}
	return d.cal.CodeToResistance(code), nil
}

// GetResistanceContext is GetResistance with cancellation before the
// transaction begins.
func (d *Device) GetResistanceContext(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("get resistance cancelled: %w", err)
	}
	return d.GetResistance()
}

// WriteRegister writes a data byte to a volatile register.
func (d *Device) WriteRegister(reg Register, data byte) error {
	if !reg.valid() {
		return fmt.Errorf("write register 0x%02X: %w", byte(reg), ErrInvalidRegister)
	}
	return exchangeWrite(d.bus, d.cs, reg, data)
}

// ReadRegister reads a volatile register.
func (d *Device) ReadRegister(reg Register) (byte, error) {
	if !reg.valid() {
		return 0, fmt.Errorf("read register 0x%02X: %w", byte(reg), ErrInvalidRegister)
	}
	return exchangeRead(d.bus, d.cs, reg)
}

// TCON reads the terminal control register.
func (d *Device) TCON() (byte, error) {
	return exchangeRead(d.bus, d.cs, RegTCON)
}

// Startup connects the wiper to the resistor network by writing the
// connect pattern to the terminal control register, putting the chip in
// its active state.
func (d *Device) Startup() error {
	return exchangeWrite(d.bus, d.cs, RegTCON, tconConnect)
}

// StartupContext is Startup with cancellation before the transaction
// begins.
func (d *Device) StartupContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("startup cancelled: %w", err)
	}
	return d.Startup()
}

// Shutdown disconnects the wiper and W terminal from the resistor
// network, leaving the chip in a defined low-power state. The wiper code
// is preserved; Startup restores the connection.
func (d *Device) Shutdown() error {
	return exchangeWrite(d.bus, d.cs, RegTCON, tconDisconnect)
}

// ShutdownContext is Shutdown with cancellation before the transaction
// begins.
func (d *Device) ShutdownContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("shutdown cancelled: %w", err)
	}
	return d.Shutdown()
}
