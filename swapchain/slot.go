// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	vk "github.com/goki/vulkan"

	internalvk "cogentcore.org/vkswap/internal/vk"
)

// BufferSlot is one back-buffer of a swapchain: it owns a GPU image
// imported from a shared texture handle, a compositor registration
// for that same handle, a timeline semaphore imported from a shared
// fence handle, and the atomic state that the core, RetireWaiter and
// VsyncPresenter all read and transition (spec.md §3).
type BufferSlot struct {
	index int

	image       vk.Image
	memory      vk.DeviceMemory
	view        vk.ImageView
	texHandle   SharedTextureHandle
	fenceHandle SharedFenceHandle

	registration BufferRegistration

	// timelineSem is the GPU-side view of the imported shared fence;
	// signalling it and signalling the OS fence object referenced by
	// fenceHandle are the same monotone counter (spec.md §4.2).
	timelineSem vk.Semaphore

	// expectedValue is the fence value the next present on this slot
	// will signal. Owned by whichever renderer currently holds the
	// slot; RetireWaiter only reads it, never writes it, to
	// disambiguate a DoubleWaiting promotion (spec.md §4.4).
	expectedValue uint64

	// presentID is the id Compositor.Present returned for the most
	// recent presentation of this slot, used to poll IsReleased.
	presentID uint64

	state *atomicState
}

// newBufferSlot constructs a slot in state Renderable from already-
// imported GPU resources; SwapchainCore.New is responsible for
// calling InteropImporter to obtain them and Compositor.RegisterBuffer
// to obtain the registration before calling this.
func newBufferSlot(index int, image vk.Image, memory vk.DeviceMemory, view vk.ImageView,
	texHandle SharedTextureHandle, fenceHandle SharedFenceHandle, timelineSem vk.Semaphore,
	registration BufferRegistration) *BufferSlot {
	return &BufferSlot{
		index:        index,
		image:        image,
		memory:       memory,
		view:         view,
		texHandle:    texHandle,
		fenceHandle:  fenceHandle,
		timelineSem:  timelineSem,
		registration: registration,
		state:        newAtomicState(Renderable),
	}
}

// Index returns the slot's position in SwapchainCore's buffer array.
func (s *BufferSlot) Index() int { return s.index }

// State returns the slot's current state. Safe to call without
// holding the core mutex; see spec.md §5's shared-resource policy for
// when a caller must re-check under the mutex instead of trusting
// this alone.
func (s *BufferSlot) State() BufferState { return s.state.load() }

// Image returns the slot's imported GPU image, valid for the
// renderer to record work against between acquire and present.
func (s *BufferSlot) Image() vk.Image { return s.image }

// destroy releases the slot's GPU and compositor resources in reverse
// construction order. Must only be called after both worker threads
// have joined and the GPU has drained all submissions referencing the
// slot (spec.md §3's lifecycle rule).
func (s *BufferSlot) destroy(dev vk.Device, compositor Compositor) {
	compositor.UnregisterBuffer(s.registration)
	internalvk.DestroySemaphore(dev, s.timelineSem)
	if s.view != vk.NullImageView {
		vk.DestroyImageView(dev, s.view, nil)
	}
	if s.memory != vk.NullDeviceMemory {
		vk.FreeMemory(dev, s.memory, nil)
	}
	if s.image != vk.NullImage {
		vk.DestroyImage(dev, s.image, nil)
	}
}
