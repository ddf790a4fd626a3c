// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitFor_ImmediatelyReady(t *testing.T) {
	t.Parallel()

	polls := 0
	err := waitFor(DefaultWaitConfig(), func() bool {
		polls++
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, 1, polls)
}

func TestWaitFor_ReadyAfterSpins(t *testing.T) {
	t.Parallel()

	polls := 0
	err := waitFor(DefaultWaitConfig(), func() bool {
		polls++
		return polls > initialSpins+3
	})
	require.NoError(t, err)
}

func TestWaitFor_Timeout(t *testing.T) {
	t.Parallel()

	cfg := WaitConfig{Timeout: 5 * time.Millisecond, PollInterval: 100 * time.Microsecond}
	start := time.Now()
	err := waitFor(cfg, func() bool { return false })
	require.ErrorIs(t, err, ErrWaitTimeout)
	assert.Less(t, time.Since(start), time.Second)
}
