//go:build !deadlock

// Package syncutil provides the mutex types used for bus ownership. The
// default build uses standard sync primitives with zero overhead; build
// with -tags=deadlock to swap in github.com/sasha-s/go-deadlock and catch
// lock-ordering mistakes between devices sharing a bus.
package syncutil

import "sync"

// Mutex wraps sync.Mutex. Build with -tags=deadlock for deadlock detection.
type Mutex struct {
	sync.Mutex
}

// RWMutex wraps sync.RWMutex. Build with -tags=deadlock for deadlock detection.
type RWMutex struct {
	sync.RWMutex
}
