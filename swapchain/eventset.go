// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"context"
	"time"

	vkg "github.com/goki/vulkan"

	vk "cogentcore.org/vkswap/internal/vk"
)

// renderDoneWaitPoll is how often armRenderDone re-checks the
// timeline semaphore's counter value while waiting for it to reach
// the target. github.com/goki/vulkan exposes GetSemaphoreCounterValue
// but not a host-blocking multi-wait, so RetireWaiter's per-slot
// render-done "event" is synthesized by polling at this interval
// instead of a true OS WaitForMultipleObjects wake-up.
const renderDoneWaitPoll = 250 * time.Microsecond

// renderDoneEvent is one element of the fan-in channel RetireWaiter
// selects on: render_done_i from spec.md §3's host event set,
// translated to a Go channel of (slot index, signalled-for value)
// pairs instead of N separate OS event handles.
type renderDoneEvent struct {
	slot  int
	value uint64
}

// armRenderDone starts a goroutine that sends once on done when the
// timeline semaphore sem reaches target, or returns early without
// sending if ctx is cancelled first. github.com/goki/vulkan exposes
// GetSemaphoreCounterValue but not a host-blocking multi-wait, so the
// event is synthesized by polling at renderDoneWaitPoll instead of a
// true OS WaitForMultipleObjects wake-up.
func armRenderDone(ctx context.Context, dev vkg.Device, sem vkg.Semaphore, slotIndex int, target uint64, done chan<- renderDoneEvent) {
	go func() {
		ticker := time.NewTicker(renderDoneWaitPoll)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				value, err := vk.SemaphoreCounterValue(dev, sem)
				if err != nil {
					return
				}
				if value >= target {
					select {
					case done <- renderDoneEvent{slot: slotIndex, value: value}:
					case <-ctx.Done():
					}
					return
				}
			}
		}
	}()
}
