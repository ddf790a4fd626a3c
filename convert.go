// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import "math"

// Calibration relates the chip's 8-bit wiper code to a physical
// resistance through an affine transform:
//
//	resistance = FullScaleResistance + (FullScaleCode - code) * StepResistance
//
// The defaults model a 50k part with ideal zero full-scale and zero-scale
// resistances, giving StepResistance = 50000 / 255. For accurate absolute
// values measure the real full-scale resistance of the part and override.
type Calibration struct {
	// StepResistance is the per-code resistance step in ohms.
	StepResistance float64
	// FullScaleResistance is the residual resistance at full-scale code,
	// in ohms.
	FullScaleResistance float64
	// MaxResistance is the upper bound accepted by SetResistance, in ohms.
	MaxResistance float64
	// FullScaleCode is the maximum wiper code.
	FullScaleCode uint8
}

// DefaultCalibration returns the ideal calibration for the 50k parts.
func DefaultCalibration() Calibration {
	return Calibration{
		StepResistance:      196.08,
		FullScaleResistance: 0,
		MaxResistance:       50000,
		FullScaleCode:       255,
	}
}

// CodeToResistance converts a wiper code to ohms. Pure and total over the
// full code range.
func (c Calibration) CodeToResistance(code uint8) float64 {
	return c.FullScaleResistance + float64(uint16(c.FullScaleCode)-uint16(code))*c.StepResistance
}

// ResistanceToCode converts ohms to the nearest wiper code, clamped to
// [0, FullScaleCode]. Pure and total; range policy belongs to
// CheckResistance.
func (c Calibration) ResistanceToCode(resistance float64) uint8 {
	steps := math.Round((resistance - c.FullScaleResistance) / c.StepResistance)
	code := float64(c.FullScaleCode) - steps
	if code < 0 {
		return 0
	}
	if code > float64(c.FullScaleCode) {
		return c.FullScaleCode
	}
	return uint8(code)
}

// CheckResistance validates a target resistance before any bus traffic.
// Accepted values lie in (0, MaxResistance].
func (c Calibration) CheckResistance(resistance float64) error {
	if resistance <= 0 || resistance > c.MaxResistance || math.IsNaN(resistance) {
		return ErrResistanceRange
	}
	return nil
}
