// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"unsafe"

	vk "github.com/goki/vulkan"
	"golang.org/x/sync/errgroup"
)

// fakeHandle fabricates a non-null Vulkan handle value for tests that
// exercise the state machine without a real driver. No test calls a
// vk.Create* function on it, but SwapchainCore.Destroy (run by each
// newTestCore cleanup) passes these values to the vk teardown calls.
func fakeHandle(n uintptr) unsafe.Pointer { return unsafe.Pointer(n) }

// newTestCore builds a SwapchainCore with n fabricated slots, skipping
// InteropImporter and Compositor.RegisterBuffer (which would require a
// real device). It still spawns RetireWaiter and VsyncPresenter
// exactly as New does, wired to the given fake collaborators.
func newTestCore(t *testing.T, gpu *fakeGpuContext, compositor *fakeCompositor, window *fakeWindowHost, mode PresentMode, n int) *SwapchainCore {
	info := CreateInfo{
		MinImageCount:    n,
		ImageFormat:      FormatBGRA8Unorm,
		ImageColorSpace:  ColorSpaceSRGBNonlinear,
		ImageExtent:      image.Pt(640, 480),
		ImageArrayLayers: 1,
		ImageUsage:       supportedImageUsage,
		PresentMode:      mode,
		CompositeAlpha:   CompositeAlphaOpaque,
		Queue:            gpu.Queue(),
	}

	slots := make([]*BufferSlot, n)
	for i := 0; i < n; i++ {
		slots[i] = newBufferSlot(
			i,
			vk.Image(fakeHandle(uintptr(0x1000+i))),
			vk.DeviceMemory(fakeHandle(uintptr(0x2000+i))),
			vk.ImageView(fakeHandle(uintptr(0x3000+i))),
			SharedTextureHandle{raw: platformHandle(i + 1)},
			SharedFenceHandle{raw: platformHandle(i + 1)},
			vk.Semaphore(fakeHandle(uintptr(0x4000+i))),
			BufferRegistration{token: i},
		)
	}

	core := &SwapchainCore{
		info:         info,
		gpu:          gpu,
		compositor:   compositor,
		window:       window,
		surface:      NewSurfaceAdapter(window, gpu),
		slots:        slots,
		queue:        newPresentQueue(n),
		notify:       make(chan struct{}),
		renderDoneCh: make(chan renderDoneEvent, n),
	}
	core.optimalSlot.Store(noOptimalSlot)
	core.usableCount.Store(int32(n))

	ctx, cancel := context.WithCancel(context.Background())
	core.ctx = ctx
	core.cancel = cancel
	group, gctx := errgroup.WithContext(ctx)
	core.group = group
	group.Go(func() error { return core.runRetireWaiter(gctx) })
	group.Go(func() error { return core.runVsyncPresenter(gctx) })

	t.Cleanup(func() { core.Destroy() })
	return core
}

// fakeGpuContext is a minimal GpuContext that never touches a real
// device; every method returns a fixed, non-null fabricated value.
type fakeGpuContext struct {
	luid [8]byte
}

func (g *fakeGpuContext) Device() vk.Device                 { return vk.Device(fakeHandle(0x10)) }
func (g *fakeGpuContext) Queue() vk.Queue                   { return vk.Queue(fakeHandle(0x20)) }
func (g *fakeGpuContext) PhysicalDevice() vk.PhysicalDevice { return vk.PhysicalDevice(fakeHandle(0x30)) }
func (g *fakeGpuContext) AdapterLUID() [8]byte              { return g.luid }
func (g *fakeGpuContext) QueueFamilySupportsPresent(family uint32) bool { return true }

// fakeWindowHost is a minimal WindowHost with a fixed extent and LUID.
type fakeWindowHost struct {
	extent image.Point
	luid   [8]byte
	lost   bool
}

func (w *fakeWindowHost) Extent() (image.Point, error) {
	if w.lost {
		return image.Point{}, ErrSurfaceLost
	}
	return w.extent, nil
}
func (w *fakeWindowHost) AdapterLUID() [8]byte { return w.luid }

// fakeCompositor is an in-memory stand-in for the OS compositor: it
// tracks registrations, records every Present call in order, and lets
// a test fire vsync/retire/lost events on demand.
type fakeCompositor struct {
	mu sync.Mutex

	nextRegID  int
	registered map[int]SharedTextureHandle
	presents   []BufferRegistration // ordered log of everything handed to Present
	released   map[int]bool         // regID -> released

	vsyncCh   chan struct{}
	retireCh  chan struct{}
	lostCh    chan struct{}
	closeOnce sync.Once

	nextPresentID uint64
}

func newFakeCompositor() *fakeCompositor {
	return &fakeCompositor{
		registered: make(map[int]SharedTextureHandle),
		released:   make(map[int]bool),
		vsyncCh:    make(chan struct{}, 8),
		retireCh:   make(chan struct{}, 8),
		lostCh:     make(chan struct{}),
	}
}

func (c *fakeCompositor) RegisterBuffer(handle SharedTextureHandle) (BufferRegistration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextRegID
	c.nextRegID++
	c.registered[id] = handle
	return BufferRegistration{token: id}, nil
}

func (c *fakeCompositor) UnregisterBuffer(reg BufferRegistration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.registered, reg.token.(int))
}

func (c *fakeCompositor) SetSourceRect(r image.Rectangle) {}
func (c *fakeCompositor) SetAlphaMode(m AlphaMode)         {}
func (c *fakeCompositor) SetColorSpace(cs ColorSpace)      {}

func (c *fakeCompositor) Present(reg BufferRegistration) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presents = append(c.presents, reg)
	c.nextPresentID++
	return c.nextPresentID, nil
}

func (c *fakeCompositor) IsReleased(reg BufferRegistration, presentID uint64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := reg.token.(int)
	if !ok {
		return false, errors.New("fakeCompositor: bad registration token")
	}
	return c.released[id], nil
}

func (c *fakeCompositor) VsyncChannel() <-chan struct{}  { return c.vsyncCh }
func (c *fakeCompositor) RetireChannel() <-chan struct{} { return c.retireCh }
func (c *fakeCompositor) LostChannel() <-chan struct{}   { return c.lostCh }

// tick fires one vsync tick. The channel is buffered, so tick does
// not wait for the presenter to act on it; callers poll for the
// result (waitForCondition).
func (c *fakeCompositor) tick() { c.vsyncCh <- struct{}{} }

// release marks reg's slot as retired by the compositor and fires the
// retire event.
func (c *fakeCompositor) release(reg BufferRegistration) {
	c.mu.Lock()
	id := reg.token.(int)
	c.released[id] = true
	c.mu.Unlock()
	c.retireCh <- struct{}{}
}

func (c *fakeCompositor) markLost() {
	c.closeOnce.Do(func() { close(c.lostCh) })
}

func (c *fakeCompositor) presentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.presents)
}

func (c *fakeCompositor) lastPresent() (BufferRegistration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.presents) == 0 {
		return BufferRegistration{}, false
	}
	return c.presents[len(c.presents)-1], true
}
