// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import "sync/atomic"

// BufferState is one of the seven states a BufferSlot may occupy, per
// spec.md §3.
type BufferState int32

const (
	// Renderable means the slot is free and may be acquired.
	Renderable BufferState = iota

	// Rendering means the slot is handed to the renderer; GPU work is
	// in flight or not yet submitted.
	Rendering

	// DoubleRendering is mailbox-only: the slot was
	// presentable/waiting but got re-acquired for overwrite.
	DoubleRendering

	// Waiting means the slot was presented with a semaphore wait and
	// awaits GPU completion.
	Waiting

	// DoubleWaiting is the double-rendering counterpart to Waiting; a
	// stale render-done signal must not promote it.
	DoubleWaiting

	// Presentable means the slot holds a finished frame not yet
	// scanned out.
	Presentable

	// Presenting means the slot is handed to the compositor, awaiting
	// retirement.
	Presenting
)

var bufferStateNames = [...]string{
	Renderable:      "Renderable",
	Rendering:       "Rendering",
	DoubleRendering: "DoubleRendering",
	Waiting:         "Waiting",
	DoubleWaiting:   "DoubleWaiting",
	Presentable:     "Presentable",
	Presenting:      "Presenting",
}

func (s BufferState) String() string {
	if int(s) < 0 || int(s) >= len(bufferStateNames) {
		return "BufferState(?)"
	}
	return bufferStateNames[s]
}

// usable reports whether a slot in this state counts toward
// usable_count, i.e. whether tryAcquireLocked can transition a slot
// out of this state for the given mode: Renderable always can. In
// fifo mode nothing else can, since PresentQueue and the compositor
// alone own a Presentable/Waiting slot's fate there. In mailbox mode,
// Presentable and Waiting are also pre-acquirable (spec.md §3, §4.3).
func (s BufferState) usable(mode PresentMode) bool {
	switch s {
	case Renderable:
		return true
	case Presentable, Waiting:
		return mode == PresentModeMailbox
	default:
		return false
	}
}

// atomicState is a lock-free BufferState cell with a compare-and-swap
// transition helper. Reads outside the core mutex are permitted (the
// slot is known to be owned by the caller or the result is advisory),
// but any transition that depends on more than one slot's state must
// be taken under the core mutex (spec.md §5's shared-resource policy).
type atomicState struct {
	v atomic.Int32
}

func newAtomicState(s BufferState) *atomicState {
	a := &atomicState{}
	a.v.Store(int32(s))
	return a
}

func (a *atomicState) load() BufferState {
	return BufferState(a.v.Load())
}

func (a *atomicState) store(s BufferState) {
	a.v.Store(int32(s))
}

// compareAndSwap transitions from 'from' to 'to', reporting whether
// the slot was indeed in 'from'.
func (a *atomicState) compareAndSwap(from, to BufferState) bool {
	return a.v.CompareAndSwap(int32(from), int32(to))
}
