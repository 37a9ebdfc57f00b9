// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	vk "github.com/goki/vulkan"
	"golang.org/x/sync/errgroup"

	cogerrors "cogentcore.org/vkswap/base/errors"
	internalvk "cogentcore.org/vkswap/internal/vk"
)

// noOptimalSlot is the sentinel stored in optimalSlot when mailbox
// mode has no Presentable candidate.
const noOptimalSlot = -1

// SwapchainCore owns the buffer slots, the state machine, and the two
// worker threads that drive it (spec.md §3-5). Construct with New and
// release with Destroy.
type SwapchainCore struct {
	info CreateInfo

	gpu        GpuContext
	compositor Compositor
	window     WindowHost
	surface    *SurfaceAdapter
	importer   *InteropImporter

	mu             sync.Mutex
	slots          []*BufferSlot
	nextRoundRobin int
	queue          *presentQueue // fifo mode only
	optimalSlot    atomic.Int32  // mailbox mode only; noOptimalSlot or an index

	usableCount atomic.Int32
	notify      chan struct{} // closed and replaced under mu to wake acquire waiters

	// renderDoneCh fans in every slot's armRenderDone signal;
	// RetireWaiter selects on it alongside lost/terminate/retire.
	renderDoneCh chan renderDoneEvent

	lost atomic.Bool

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group
}

// New constructs a swapchain over window and gpu with the given
// configuration, imports N buffer slots via the supplied
// texture/fence handle pairs, registers each with compositor, and
// spawns RetireWaiter and VsyncPresenter. handles must have exactly
// info.MinImageCount entries (clamped per Validate) after the caller
// has created that many shared textures and fences externally; the
// core only imports, it never allocates the underlying OS objects
// (spec.md §1's GpuContext/Compositor boundary).
func New(gpu GpuContext, compositor Compositor, window WindowHost, info CreateInfo,
	handles []SlotHandles) (*SwapchainCore, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	if len(handles) != info.MinImageCount {
		return nil, fmt.Errorf("%w: expected %d slot handle pairs, got %d",
			ErrInvalidArgument, info.MinImageCount, len(handles))
	}

	var zeroQueue vk.Queue
	if info.Queue == zeroQueue {
		info.Queue = gpu.Queue()
	}

	surface := NewSurfaceAdapter(window, gpu)
	importer := NewInteropImporter(gpu)

	slots := make([]*BufferSlot, 0, len(handles))
	for i, h := range handles {
		slot, err := buildSlot(importer, compositor, info, i, h)
		if err != nil {
			for _, s := range slots {
				s.destroy(gpu.Device(), compositor)
			}
			return nil, err
		}
		slots = append(slots, slot)
	}

	core := &SwapchainCore{
		info:         info,
		gpu:          gpu,
		compositor:   compositor,
		window:       window,
		surface:      surface,
		importer:     importer,
		slots:        slots,
		queue:        newPresentQueue(len(slots)),
		notify:       make(chan struct{}),
		renderDoneCh: make(chan renderDoneEvent, len(slots)),
	}
	core.optimalSlot.Store(noOptimalSlot)
	core.usableCount.Store(int32(len(slots)))

	ctx, cancel := context.WithCancel(context.Background())
	core.ctx = ctx
	core.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	core.group = group
	group.Go(func() error { return core.runRetireWaiter(gctx) })
	group.Go(func() error { return core.runVsyncPresenter(gctx) })

	return core, nil
}

// SlotHandles bundles the externally-created shared handles New needs
// to import one buffer slot.
type SlotHandles struct {
	Texture SharedTextureHandle
	Fence   SharedFenceHandle
}

func buildSlot(importer *InteropImporter, compositor Compositor, info CreateInfo, index int, h SlotHandles) (*BufferSlot, error) {
	img, err := importer.ImportImage(h.Texture, ImageCreateParams{
		Extent: info.ImageExtent,
		Format: info.ImageFormat,
		Usage:  info.ImageUsage,
	})
	if err != nil {
		return nil, err
	}
	sem, err := importer.ImportFence(h.Fence, 0)
	if err != nil {
		vk.DestroyImageView(importer.ctx.Device(), img.View, nil)
		vk.FreeMemory(importer.ctx.Device(), img.Memory, nil)
		vk.DestroyImage(importer.ctx.Device(), img.Image, nil)
		return nil, err
	}
	reg, err := compositor.RegisterBuffer(h.Texture)
	if err != nil {
		internalvk.DestroySemaphore(importer.ctx.Device(), sem)
		vk.DestroyImageView(importer.ctx.Device(), img.View, nil)
		vk.FreeMemory(importer.ctx.Device(), img.Memory, nil)
		vk.DestroyImage(importer.ctx.Device(), img.Image, nil)
		return nil, err
	}
	return newBufferSlot(index, img.Image, img.Memory, img.View, h.Texture, h.Fence, sem, reg), nil
}

// Surface returns the adapter exposing this swapchain's surface
// capability queries.
func (c *SwapchainCore) Surface() *SurfaceAdapter { return c.surface }

// wakeWaiters must be called under mu whenever usableCount might have
// increased, so blocked Acquire callers re-check.
func (c *SwapchainCore) wakeWaiters() {
	close(c.notify)
	c.notify = make(chan struct{})
}

// AcquireResult is returned by Acquire.
type AcquireResult struct {
	Index  int
	Status error // nil, ErrTimeout, ErrNotReady, ErrSurfaceLost, ctx.Err(), or a coordination-submit error
}

// Acquire selects a slot and transitions it into a rendering state,
// per the algorithm in spec.md §4.3. A timeout of 0 returns
// immediately with ErrNotReady if no slot is available; a negative
// timeout waits forever.
func (c *SwapchainCore) Acquire(ctx context.Context, timeout time.Duration, signalSem vk.Semaphore, signalFence vk.Fence) AcquireResult {
	deadline := time.Time{}
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}

	for {
		if c.lost.Load() {
			return AcquireResult{Status: ErrSurfaceLost}
		}

		c.mu.Lock()
		index, mode, ok := c.tryAcquireLocked()
		if ok {
			c.usableCount.Add(-1)
			slot := c.slots[index]
			c.mu.Unlock()
			if mode == acquireDoubleRendering {
				target := slot.expectedValue
				if err := internalvk.SubmitCoordination(c.info.Queue, slot.timelineSem, target, signalSem, target, signalFence); err != nil {
					return AcquireResult{Status: err}
				}
			} else if signalSem != vk.NullSemaphore || signalFence != vk.NullFence {
				if err := internalvk.SubmitCoordination(c.info.Queue, vk.NullSemaphore, 0, signalSem, 0, signalFence); err != nil {
					return AcquireResult{Status: err}
				}
			}
			return AcquireResult{Index: index}
		}
		waitCh := c.notify
		c.mu.Unlock()

		if timeout == 0 {
			return AcquireResult{Status: ErrNotReady}
		}

		var timer *time.Timer
		var timerCh <-chan time.Time
		if !deadline.IsZero() {
			remaining := time.Until(deadline)
			if remaining <= 0 {
				return AcquireResult{Status: ErrTimeout}
			}
			timer = time.NewTimer(remaining)
			timerCh = timer.C
		}
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return AcquireResult{Status: ctx.Err()}
		case <-waitCh:
		case <-timerCh:
			return AcquireResult{Status: ErrTimeout}
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

type acquireMode int

const (
	acquireNormal acquireMode = iota
	acquireDoubleRendering
)

// tryAcquireLocked implements the per-mode selection rules of spec.md
// §4.3's "Selection algorithm". Caller must hold mu.
func (c *SwapchainCore) tryAcquireLocked() (index int, mode acquireMode, ok bool) {
	n := len(c.slots)
	headSkip := -1
	if c.info.PresentMode == PresentModeMailbox {
		if opt := int(c.optimalSlot.Load()); opt != noOptimalSlot {
			headSkip = opt
		}
	}

	for scanned := 0; scanned < n; scanned++ {
		i := (c.nextRoundRobin + scanned) % n
		if i == headSkip {
			continue
		}
		slot := c.slots[i]
		switch c.info.PresentMode {
		case PresentModeFifo:
			if slot.state.compareAndSwap(Renderable, Rendering) {
				c.nextRoundRobin = (i + 1) % n
				return i, acquireNormal, true
			}
		case PresentModeMailbox:
			if slot.state.compareAndSwap(Renderable, Rendering) {
				c.nextRoundRobin = (i + 1) % n
				return i, acquireNormal, true
			}
			if slot.state.compareAndSwap(Presentable, Rendering) {
				c.clearIfOptimalLocked(i)
				c.nextRoundRobin = (i + 1) % n
				return i, acquireNormal, true
			}
			if slot.state.compareAndSwap(Waiting, DoubleRendering) {
				c.nextRoundRobin = (i + 1) % n
				return i, acquireDoubleRendering, true
			}
		}
	}
	return 0, acquireNormal, false
}

// clearIfOptimalLocked removes index from optimalSlot bookkeeping
// when it is re-acquired directly out of Presentable, so
// VsyncPresenter never scans out a slot that has moved on to
// Rendering.
func (c *SwapchainCore) clearIfOptimalLocked(index int) {
	if int(c.optimalSlot.Load()) == index {
		c.optimalSlot.Store(noOptimalSlot)
	}
}

// Present transitions slot index out of a rendering state per
// spec.md §4.3. waitSemaphores, if non-empty, are waited on by the
// coordination submission before the slot's timeline semaphore is
// signalled; an empty slice promotes the slot directly to
// Presentable without a GPU round-trip.
func (c *SwapchainCore) Present(index int, waitSemaphores []vk.Semaphore) error {
	if c.lost.Load() {
		return ErrOutOfDate
	}
	if index < 0 || index >= len(c.slots) {
		return fmt.Errorf("%w: present index %d out of range", ErrSuboptimal, index)
	}
	slot := c.slots[index]

	if len(waitSemaphores) > 0 {
		return c.presentWithWait(slot, waitSemaphores)
	}
	return c.presentImmediate(slot)
}

func (c *SwapchainCore) presentWithWait(slot *BufferSlot, waitSemaphores []vk.Semaphore) error {
	state := slot.state.load()
	if state != Rendering && state != DoubleRendering {
		return fmt.Errorf("%w: slot %d in state %s cannot present", ErrSuboptimal, slot.index, state)
	}

	slot.expectedValue++
	target := slot.expectedValue

	var wait vk.Semaphore
	if len(waitSemaphores) > 0 {
		wait = waitSemaphores[0]
	}
	if err := internalvk.SubmitCoordination(c.info.Queue, wait, 0, slot.timelineSem, target, vk.NullFence); err != nil {
		return err
	}

	armRenderDone(c.ctx, c.gpu.Device(), slot.timelineSem, slot.index, target, c.renderDoneCh)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch state {
	case Rendering:
		slot.state.store(Waiting)
		if c.info.PresentMode == PresentModeMailbox {
			c.usableCount.Add(1)
			c.wakeWaiters()
		}
	case DoubleRendering:
		slot.state.store(DoubleWaiting)
	}
	return nil
}

func (c *SwapchainCore) presentImmediate(slot *BufferSlot) error {
	state := slot.state.load()
	if state != Rendering && state != DoubleRendering {
		return fmt.Errorf("%w: slot %d in state %s cannot present", ErrSuboptimal, slot.index, state)
	}
	slot.state.store(Presentable)

	c.mu.Lock()
	defer c.mu.Unlock()
	// Rendering and DoubleRendering are never usable (state.go), so
	// entering Presentable is always a not-usable -> usable transition
	// in mailbox mode, and a no-op in fifo mode where Presentable isn't
	// acquirable.
	if c.info.PresentMode == PresentModeMailbox {
		c.usableCount.Add(1)
	}
	c.promotePresentableLocked(slot.index)
	return nil
}

// promotePresentableLocked applies the fifo-enqueue or
// mailbox-optimal-slot bookkeeping that happens every time a slot
// reaches Presentable, whether from presentImmediate or from
// RetireWaiter's render-done handling. Caller must hold mu and must
// already have accounted for slot.index's own usable_count delta;
// this only accounts for the slot it displaces.
func (c *SwapchainCore) promotePresentableLocked(index int) {
	switch c.info.PresentMode {
	case PresentModeFifo:
		c.queue.pushBack(index)
	case PresentModeMailbox:
		if prev := int(c.optimalSlot.Load()); prev != noOptimalSlot && prev != index {
			if c.slots[prev].state.compareAndSwap(Presentable, Renderable) {
				// Presentable and Renderable are both usable in
				// mailbox mode (state.go), so this demotion does not
				// change usable_count; only waiters need a nudge in
				// case this specific slot is what they were after.
				c.wakeWaiters()
			}
		}
		c.optimalSlot.Store(int32(index))
	}
}

// Destroy signals termination to both workers, joins them, and
// releases every slot plus any core-level handle in reverse
// construction order (spec.md §4.3's destroy operation).
func (c *SwapchainCore) Destroy() error {
	c.cancel()
	err := c.group.Wait()

	dev := c.gpu.Device()
	cogerrors.Log(internalvk.DeviceWaitIdle(dev))
	for i := len(c.slots) - 1; i >= 0; i-- {
		c.slots[i].destroy(dev, c.compositor)
	}
	return err
}

// MarkLost marks the swapchain unusable; future Acquire calls fail
// with ErrSurfaceLost and Present becomes a no-op returning
// ErrOutOfDate, per spec.md §4.6.
func (c *SwapchainCore) MarkLost() {
	c.lost.Store(true)
	c.mu.Lock()
	c.wakeWaiters()
	c.mu.Unlock()
}
