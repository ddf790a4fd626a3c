// go-mcp41hvx1
// Copyright (c) 2026 The go-mcp41hvx1 Authors.
// SPDX-License-Identifier: MIT

package mcp41hvx1

import (
	"fmt"
	"os"
)

// debugEnabled controls whether debug logging is active
var debugEnabled = false

func init() {
	// Enable debug logging if DEBUG environment variable is set
	if os.Getenv("MCP41_DEBUG") != "" || os.Getenv("DEBUG") != "" {
		debugEnabled = true
	}
}

// SetDebugEnabled allows programmatic control of debug logging.
// Useful for testing or application-controlled debug modes.
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// debugf prints wire-level debug information when debug mode is enabled.
func debugf(format string, args ...any) {
	if debugEnabled {
		_, _ = fmt.Fprintf(os.Stderr, "DEBUG: "+format+"\n", args...)
	}
}
