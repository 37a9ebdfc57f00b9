// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"context"
	"image"
	"testing"
	"time"

	vk "github.com/goki/vulkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeCollaborators(extent image.Point) (*fakeGpuContext, *fakeCompositor, *fakeWindowHost) {
	luid := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	return &fakeGpuContext{luid: luid}, newFakeCompositor(), &fakeWindowHost{extent: extent, luid: luid}
}

// waitForCondition polls until fn returns true or the timeout passes,
// failing the test otherwise. Used because the retire/vsync workers
// run on their own goroutines.
func waitForCondition(t *testing.T, timeout time.Duration, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, fn(), "condition not met within %s", timeout)
}

// presentNoWait drives a slot straight from Rendering/DoubleRendering
// to Presentable, bypassing the GPU coordination submit that a real
// Present call with wait semaphores would need. It mirrors spec.md
// §4.3's "without wait semaphores" present path.
func presentNoWait(t *testing.T, core *SwapchainCore, index int) {
	t.Helper()
	require.NoError(t, core.Present(index, nil))
}

func TestAcquireFifoOnlyAcceptsRenderable(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeFifo, 3)

	res := core.Acquire(context.Background(), 0, 0, 0)
	require.NoError(t, res.Status)
	assert.Equal(t, Rendering, core.slots[res.Index].State())
	assert.EqualValues(t, 2, core.usableCount.Load())
}

func TestAcquireFifoSaturatesAndTimesOut(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeFifo, 2)

	for i := 0; i < 2; i++ {
		res := core.Acquire(context.Background(), 0, 0, 0)
		require.NoError(t, res.Status)
	}
	before := core.usableCount.Load()

	res := core.Acquire(context.Background(), time.Millisecond, 0, 0)
	assert.ErrorIs(t, res.Status, ErrTimeout)
	assert.Equal(t, before, core.usableCount.Load())

	res = core.Acquire(context.Background(), 0, 0, 0)
	assert.ErrorIs(t, res.Status, ErrNotReady)
}

// E1 — Fifo ordering: present order must equal scan-out order.
func TestFifoOrdering(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeFifo, 3)

	var order []int
	for i := 0; i < 6; i++ {
		res := core.Acquire(context.Background(), -1, 0, 0)
		require.NoError(t, res.Status)
		order = append(order, res.Index)
		presentNoWait(t, core, res.Index)

		comp.tick()
		waitForCondition(t, time.Second, func() bool { return comp.presentCount() == i+1 })

		reg, ok := comp.lastPresent()
		require.True(t, ok)
		comp.release(reg)
		waitForCondition(t, time.Second, func() bool {
			return core.slots[order[i]].State() == Renderable
		})
	}

	require.Len(t, comp.presents, 6)
	for i, reg := range comp.presents {
		assert.Equal(t, order[i], reg.token.(int))
	}
}

// E2 — Mailbox dropping: many presents before a single vsync tick
// must yield exactly one SetBuffer/Present call, for the most
// recently promoted slot.
func TestMailboxDropping(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeMailbox, 3)

	var last int
	for i := 0; i < 20; i++ {
		res := core.Acquire(context.Background(), -1, 0, 0)
		require.NoError(t, res.Status)
		presentNoWait(t, core, res.Index)
		last = res.Index
		waitForCondition(t, time.Second, func() bool {
			return core.slots[res.Index].State() == Presentable
		})
	}

	comp.tick()
	waitForCondition(t, time.Second, func() bool { return comp.presentCount() == 1 })

	reg, ok := comp.lastPresent()
	require.True(t, ok)
	assert.Equal(t, last, reg.token.(int))
	assert.Equal(t, 1, comp.presentCount())
}

// E3 — Mailbox double-rendering: acquiring a presented-with-wait slot
// before its render-done fires must transition it to DoubleRendering,
// and present must leave it in DoubleWaiting.
func TestMailboxDoubleRendering(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeMailbox, 1)

	a := core.Acquire(context.Background(), -1, 0, 0)
	require.NoError(t, a.Status)
	slotA := core.slots[a.Index]

	waitSem := vk.Semaphore(fakeHandle(0x9999))
	require.NoError(t, core.Present(a.Index, []vk.Semaphore{waitSem}))
	assert.Equal(t, Waiting, slotA.State())

	b := core.Acquire(context.Background(), -1, 0, 0)
	require.NoError(t, b.Status)
	assert.Equal(t, a.Index, b.Index, "the swapchain's single slot must be reused")
	assert.Equal(t, DoubleRendering, slotA.State())

	require.NoError(t, core.Present(a.Index, []vk.Semaphore{waitSem}))
	assert.Equal(t, DoubleWaiting, slotA.State())
}

// E4 — a stale render-done fire on a DoubleWaiting slot must not
// promote it to Presentable.
func TestStaleRenderDoneLeavesDoubleWaiting(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeMailbox, 1)

	a := core.Acquire(context.Background(), -1, 0, 0)
	require.NoError(t, a.Status)
	slotA := core.slots[a.Index]
	waitSem := vk.Semaphore(fakeHandle(0x9999))

	require.NoError(t, core.Present(a.Index, []vk.Semaphore{waitSem}))
	b := core.Acquire(context.Background(), -1, 0, 0)
	require.NoError(t, b.Status)
	require.Equal(t, a.Index, b.Index)
	require.NoError(t, core.Present(a.Index, []vk.Semaphore{waitSem}))
	require.Equal(t, DoubleWaiting, slotA.State())

	// A stale fire for the earlier submission (value behind the
	// slot's current expectedValue) must be ignored.
	core.renderDoneCh <- renderDoneEvent{slot: a.Index, value: slotA.expectedValue - 1}
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, DoubleWaiting, slotA.State())

	// The matching fire promotes it.
	core.renderDoneCh <- renderDoneEvent{slot: a.Index, value: slotA.expectedValue}
	waitForCondition(t, time.Second, func() bool { return slotA.State() == Presentable })
}

// E6 — acquiring against a fully saturated fifo swapchain with a
// short timeout returns ErrTimeout without mutating usableCount or
// any slot's state.
func TestTimedOutAcquireLeavesStateUnchanged(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeFifo, 2)

	for i := 0; i < 2; i++ {
		res := core.Acquire(context.Background(), 0, 0, 0)
		require.NoError(t, res.Status)
	}
	wantStates := make([]BufferState, len(core.slots))
	for i, s := range core.slots {
		wantStates[i] = s.State()
	}

	res := core.Acquire(context.Background(), 5*time.Millisecond, 0, 0)
	assert.ErrorIs(t, res.Status, ErrTimeout)
	assert.EqualValues(t, 0, core.usableCount.Load())
	for i, s := range core.slots {
		assert.Equal(t, wantStates[i], s.State())
	}
}

// E5 — destroy must join both workers and release every slot, even
// with presents in flight, without hanging.
func TestDestroyJoinsWorkers(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeFifo, 3)

	for i := 0; i < 3; i++ {
		res := core.Acquire(context.Background(), -1, 0, 0)
		require.NoError(t, res.Status)
		presentNoWait(t, core, res.Index)
	}

	done := make(chan error, 1)
	go func() { done <- core.Destroy() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Destroy did not return in time")
	}
}

// usableCountFromStates recomputes spec.md §8's usable_count invariant
// directly from slot states, independent of the core's own bookkeeping.
func usableCountFromStates(core *SwapchainCore) int32 {
	var n int32
	for _, s := range core.slots {
		if s.State().usable(core.info.PresentMode) {
			n++
		}
	}
	return n
}

// Invariant 1 (spec.md §8): usableCount always equals the count of
// slots in a state that usable() considers available, across a mix of
// fifo acquire/present/retire operations.
func TestUsableCountInvariantFifo(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeFifo, 3)
	assert.Equal(t, usableCountFromStates(core), core.usableCount.Load())

	var acquired []int
	for i := 0; i < 3; i++ {
		res := core.Acquire(context.Background(), 0, 0, 0)
		require.NoError(t, res.Status)
		acquired = append(acquired, res.Index)
		assert.Equal(t, usableCountFromStates(core), core.usableCount.Load())
	}

	for _, idx := range acquired {
		presentNoWait(t, core, idx)
	}
	comp.tick()
	waitForCondition(t, time.Second, func() bool { return comp.presentCount() == 1 })
	assert.Equal(t, usableCountFromStates(core), core.usableCount.Load())

	reg, ok := comp.lastPresent()
	require.True(t, ok)
	comp.release(reg)
	waitForCondition(t, time.Second, func() bool {
		return usableCountFromStates(core) == core.usableCount.Load() && core.usableCount.Load() == 1
	})
}

// Invariant 1 under mailbox mode, where a Waiting slot also counts as
// usable.
func TestUsableCountInvariantMailbox(t *testing.T) {
	gpu, comp, win := newFakeCollaborators(image.Pt(640, 480))
	core := newTestCore(t, gpu, comp, win, PresentModeMailbox, 2)

	a := core.Acquire(context.Background(), -1, 0, 0)
	require.NoError(t, a.Status)
	assert.Equal(t, usableCountFromStates(core), core.usableCount.Load())

	require.NoError(t, core.Present(a.Index, []vk.Semaphore{vk.Semaphore(fakeHandle(0x1234))}))
	assert.Equal(t, Waiting, core.slots[a.Index].State())
	assert.Equal(t, usableCountFromStates(core), core.usableCount.Load())
}
