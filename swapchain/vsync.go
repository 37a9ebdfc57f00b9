// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"context"
	"image"
	"log/slog"
)

// runVsyncPresenter waits on the compositor's vertical-blank clock and
// hands one buffer per tick to the compositor (spec.md §4.5). It runs
// on its own goroutine for the lifetime of the swapchain.
func (c *SwapchainCore) runVsyncPresenter(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.compositor.LostChannel():
			c.MarkLost()
		case <-c.compositor.VsyncChannel():
			c.handleVsyncTick()
		}
	}
}

// handleVsyncTick picks one Presentable slot (or none) and hands it
// to the compositor, per spec.md §4.5's per-mode selection rules.
// Skipping a tick because nothing is ready is a first-class outcome.
func (c *SwapchainCore) handleVsyncTick() {
	slot, ok := c.selectForPresent()
	if !ok {
		return
	}

	c.compositor.SetSourceRect(image.Rectangle{Max: c.info.ImageExtent})
	c.compositor.SetAlphaMode(alphaModeFromComposite(c.info.CompositeAlpha))
	c.compositor.SetColorSpace(c.info.ImageColorSpace)

	presentID, err := c.compositor.Present(slot.registration)
	if err != nil {
		slog.Warn("swapchain: present failed", "slot", slot.index, "error", err)
		return
	}
	slot.presentID = presentID
}

// selectForPresent chooses the slot VsyncPresenter should hand to the
// compositor this tick and transitions it to Presenting, or reports
// false if nothing is ready.
func (c *SwapchainCore) selectForPresent() (*BufferSlot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var index int
	switch c.info.PresentMode {
	case PresentModeFifo:
		i, ok := c.queue.popFront()
		if !ok {
			return nil, false
		}
		index = i
	case PresentModeMailbox:
		if i := int(c.optimalSlot.Load()); i != noOptimalSlot && c.slots[i].state.load() == Presentable {
			index = i
		} else if i, ok := c.scanForPresentableLocked(); ok {
			index = i
		} else {
			return nil, false
		}
		c.optimalSlot.Store(noOptimalSlot)
	}

	slot := c.slots[index]
	if !slot.state.compareAndSwap(Presentable, Presenting) {
		return nil, false
	}
	// Presentable only counts toward usable_count in mailbox mode
	// (state.go); in fifo mode this transition never touched it.
	if c.info.PresentMode == PresentModeMailbox {
		c.usableCount.Add(-1)
	}
	return slot, true
}

// scanForPresentableLocked is mailbox mode's fallback when
// optimalSlot does not name a Presentable slot (e.g. it was abandoned
// in favor of a newer one and not yet overwritten). Caller must hold
// mu.
func (c *SwapchainCore) scanForPresentableLocked() (int, bool) {
	for _, slot := range c.slots {
		if slot.state.load() == Presentable {
			return slot.index, true
		}
	}
	return 0, false
}

// alphaModeFromComposite maps the surface-level CompositeAlpha the
// swapchain was created with to the AlphaMode the Compositor
// interface accepts. PostMultiplied (non-premultiplied alpha) maps to
// AlphaModeStraight.
func alphaModeFromComposite(c CompositeAlpha) AlphaMode {
	switch c {
	case CompositeAlphaPreMultiplied:
		return AlphaModePremultiplied
	case CompositeAlphaPostMultiplied:
		return AlphaModeStraight
	default:
		return AlphaModeOpaque
	}
}
