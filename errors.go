// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import (
	"errors"
	"fmt"
)

// Error categories for error handling and caller-side retry logic
var (
	// Bus errors - potentially retryable
	ErrWaitTimeout  = errors.New("peripheral wait timed out")
	ErrBusWrite     = errors.New("bus write failed")
	ErrBusRead      = errors.New("bus read failed")
	ErrBusClosed    = errors.New("bus is closed")
	ErrSelectFailed = errors.New("chip select failed")

	// Chip errors - not retryable at this layer
	ErrCommandRejected = errors.New("command rejected by chip")

	// Input errors - not retryable
	ErrResistanceRange = errors.New("resistance out of range")
	ErrInvalidRegister = errors.New("invalid register address")
)

// ErrorType represents the category of error for retry logic
type ErrorType int

const (
	// ErrorTypeTransient indicates a potentially retryable error
	ErrorTypeTransient ErrorType = iota
	// ErrorTypePermanent indicates a non-retryable error
	ErrorTypePermanent
	// ErrorTypeTimeout indicates a timeout error (special handling)
	ErrorTypeTimeout
)

// BusError wraps bus-level errors with additional context
type BusError struct {
	Err       error     // Underlying error
	Op        string    // Operation that failed
	Port      string    // Port or peripheral identifier
	Type      ErrorType // Error category
	Retryable bool      // Whether the error is retryable
}

func (e *BusError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// CommandError reports a command the chip refused. The MCP41HVX1 signals
// rejection by clearing the CMDERR bit in the first byte shifted out on
// SDO; Status carries that raw byte for debugging.
type CommandError struct {
	Command string
	Status  byte
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s rejected by chip (status 0x%02X)", e.Command, e.Status)
}

// Unwrap lets errors.Is match ErrCommandRejected.
func (*CommandError) Unwrap() error {
	return ErrCommandRejected
}

// IsRetryable returns true if the error is potentially retryable
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var be *BusError
	if errors.As(err, &be) {
		return be.Retryable
	}

	// Chip rejections and input validation failures are deterministic;
	// retrying without changing the request cannot help.
	switch {
	case errors.Is(err, ErrWaitTimeout),
		errors.Is(err, ErrBusWrite),
		errors.Is(err, ErrBusRead):
		return true
	default:
		return false
	}
}

// IsFatal returns true if the error indicates the peripheral is gone and
// further operations on the same bus cannot succeed. This is distinct from
// IsRetryable, which classifies a single failed operation.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	var be *BusError
	if errors.As(err, &be) {
		return be.Type == ErrorTypePermanent
	}

	return errors.Is(err, ErrBusClosed)
}

// IsChipError returns true if the chip itself refused the command, as
// opposed to a bus-level or input failure.
func IsChipError(err error) bool {
	return errors.Is(err, ErrCommandRejected)
}

// Error constructors for consistent error creation

// NewBusError creates a standard bus error with consistent formatting
func NewBusError(op, port string, err error, errType ErrorType) *BusError {
	return &BusError{
		Op:        op,
		Port:      port,
		Err:       err,
		Type:      errType,
		Retryable: errType == ErrorTypeTransient || errType == ErrorTypeTimeout,
	}
}

// NewTimeoutError creates a timeout error for a peripheral wait
func NewTimeoutError(op, port string) *BusError {
	return NewBusError(op, port, ErrWaitTimeout, ErrorTypeTimeout)
}

// NewBusWriteError creates a write error (transient)
func NewBusWriteError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusWrite, ErrorTypeTransient)
}

// NewBusReadError creates a read error (transient)
func NewBusReadError(op, port string) *BusError {
	return NewBusError(op, port, ErrBusRead, ErrorTypeTransient)
}

// NewCommandError creates a chip rejection error for the named command
func NewCommandError(command string, status byte) *CommandError {
	return &CommandError{Command: command, Status: status}
}
