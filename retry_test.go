// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryConfig(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
		Jitter:            0,
		RetryTimeout:      time.Second,
	}
}

func TestRetryWithConfig_SucceedsAfterTransientFailures(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(5), func() error {
		attempts++
		if attempts < 3 {
			return NewTimeoutError("receive", "mock")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithConfig_DoesNotRetryChipErrors(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(5), func() error {
		attempts++
		return NewCommandError("write wiper", 0xFD)
	})
	require.ErrorIs(t, err, ErrCommandRejected)
	assert.Equal(t, 1, attempts, "chip rejections are deterministic and must not be retried")
}

func TestRetryWithConfig_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	attempts := 0
	err := RetryWithConfig(context.Background(), fastRetryConfig(3), func() error {
		attempts++
		return NewTimeoutError("transmit", "mock")
	})
	require.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, 3, attempts)
}

func TestRetryWithConfig_NilConfigUsesDefaults(t *testing.T) {
	t.Parallel()

	called := false
	err := RetryWithConfig(context.Background(), nil, func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestRetryWithConfig_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := RetryWithConfig(ctx, fastRetryConfig(10), func() error {
		attempts++
		cancel()
		return NewTimeoutError("receive", "mock")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
