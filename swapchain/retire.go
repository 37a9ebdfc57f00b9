// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"context"
	"log/slog"
)

// runRetireWaiter is the single authority that transitions slots out
// of the rendering-pipeline states (spec.md §4.4). It runs on its own
// goroutine for the lifetime of the swapchain, started by New and
// joined by Destroy via the errgroup.
func (c *SwapchainCore) runRetireWaiter(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.compositor.LostChannel():
			c.MarkLost()
			// Keep looping: a lost compositor does not stop the
			// worker, only future acquires/presents (spec.md §4.6).
		case <-c.compositor.RetireChannel():
			c.handleRetire()
		case ev := <-c.renderDoneCh:
			c.handleRenderDone(ev)
		}
	}
}

// handleRetire scans every slot in Presenting and asks the
// compositor whether it has been released, per spec.md §4.4's
// "Retire" branch.
func (c *SwapchainCore) handleRetire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, slot := range c.slots {
		if slot.state.load() != Presenting {
			continue
		}
		released, err := c.compositor.IsReleased(slot.registration, slot.presentID)
		if err != nil {
			slog.Warn("swapchain: IsReleased query failed", "slot", slot.index, "error", err)
			continue
		}
		if !released {
			continue
		}
		if slot.state.compareAndSwap(Presenting, Renderable) {
			c.usableCount.Add(1)
			c.wakeWaiters()
		}
	}
}

// handleRenderDone applies spec.md §4.4's "Render-done i" branch,
// including the DoubleWaiting stale-fence disambiguation: a fired
// event whose observed counter is behind the slot's expectedValue
// belongs to the earlier of two overlapping submissions and must not
// promote the slot.
func (c *SwapchainCore) handleRenderDone(ev renderDoneEvent) {
	slot := c.slots[ev.slot]
	// Waiting is already usable in mailbox mode (state.go), so Waiting
	// -> Presentable never changes usable_count. DoubleWaiting is
	// never usable, so DoubleWaiting -> Presentable always does, in
	// the only mode (mailbox) DoubleWaiting can occur in.
	fromNotUsable := false
	switch slot.state.load() {
	case Waiting:
		if !slot.state.compareAndSwap(Waiting, Presentable) {
			return // lost a race to a concurrent transition; next fire (if any) resolves it
		}
	case DoubleWaiting:
		if ev.value != slot.expectedValue {
			return // stale: belongs to the earlier of the two overlapping submissions
		}
		if !slot.state.compareAndSwap(DoubleWaiting, Presentable) {
			return
		}
		fromNotUsable = true
	default:
		return // late fire against a slot that has already moved on
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if fromNotUsable {
		c.usableCount.Add(1)
	}
	c.promotePresentableLocked(slot.index)
}
