// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"image"

	vk "github.com/goki/vulkan"
)

// GpuContext is the host-supplied view of the GPU device and queue the
// core submits coordination work to. The core never creates a device,
// instance, or physical device itself; it only asks questions about
// one supplied by the host (spec.md §1's out-of-scope GpuContext
// collaborator).
type GpuContext interface {
	// Device returns the logical device used for semaphore, fence, and
	// image-import calls.
	Device() vk.Device

	// Queue returns the queue the core submits no-op coordination
	// submissions to from present.
	Queue() vk.Queue

	// PhysicalDevice returns the physical device backing Device.
	// SurfaceAdapter compares adapter LUIDs through AdapterLUID, not
	// through this.
	PhysicalDevice() vk.PhysicalDevice

	// AdapterLUID returns the locally-unique identifier of the
	// adapter backing this device, compared against WindowHost's to
	// decide queue-family surface support.
	AdapterLUID() [8]byte

	// QueueFamilySupportsPresent reports whether the given queue
	// family index carries graphics or compute capability, the two
	// capabilities SurfaceAdapter accepts per spec.md §4.1.
	QueueFamilySupportsPresent(family uint32) bool
}

// Compositor is the host-supplied binding to the OS composition
// target the surface presents into (spec.md §1's out-of-scope
// Compositor collaborator: composition-tree and visual setup is not
// this module's concern, only the narrow contract below).
type Compositor interface {
	// RegisterBuffer registers a shared texture handle with the
	// compositor, returning an opaque, compositor-owned registration
	// that BufferSlot stores and later uses in Present and
	// UnregisterBuffer.
	RegisterBuffer(handle SharedTextureHandle) (BufferRegistration, error)

	// UnregisterBuffer releases a previously registered buffer. Called
	// during slot teardown; must tolerate being called after the
	// compositor has already been marked lost.
	UnregisterBuffer(reg BufferRegistration)

	// SetSourceRect sets the region of each presented buffer the
	// compositor scans out. VsyncPresenter calls this once per tick
	// with the full swapchain extent (spec.md §4.5).
	SetSourceRect(r image.Rectangle)

	// SetAlphaMode and SetColorSpace apply the swapchain's immutable
	// alpha mode and color space. Cheap, idempotent; called once per
	// vsync tick alongside SetSourceRect.
	SetAlphaMode(m AlphaMode)
	SetColorSpace(cs ColorSpace)

	// Present binds reg as the next scan-out source and arms the
	// retire fence for it, returning a present id RetireWaiter
	// correlates against IsReleased.
	Present(reg BufferRegistration) (presentID uint64, err error)

	// IsReleased reports whether the buffer identified by reg has
	// been retired by the compositor since presentID was returned
	// from Present. RetireWaiter polls this under the core mutex on
	// every retire-event fire (spec.md §4.4).
	IsReleased(reg BufferRegistration, presentID uint64) (bool, error)

	// VsyncChannel delivers one value per vertical-blank tick.
	// VsyncPresenter selects on it alongside the lost and terminate
	// events.
	VsyncChannel() <-chan struct{}

	// RetireChannel delivers one value each time the compositor's
	// shared retire fence advances. RetireWaiter selects on it
	// alongside the lost and terminate events.
	RetireChannel() <-chan struct{}

	// LostChannel closes when the compositor is lost (surface
	// destroyed, device removed, or any other unrecoverable
	// condition). Both worker threads and acquire/present observe
	// this.
	LostChannel() <-chan struct{}
}

// WindowHost is the host-supplied window the surface presents to
// (spec.md §1's out-of-scope WindowHost collaborator: creation,
// resizing, and input dispatch are not this module's concern).
type WindowHost interface {
	// Extent returns the current client rectangle, or an error if the
	// window has been destroyed.
	Extent() (image.Point, error)

	// AdapterLUID returns the LUID of the adapter driving this
	// window's output, compared against GpuContext.AdapterLUID by
	// SurfaceAdapter.QueueFamilySupport.
	AdapterLUID() [8]byte
}

// SharedTextureHandle is an OS-interoperable handle to a GPU texture,
// suitable for registration with a Compositor and for import as a
// vk.Image via InteropImporter. Its concrete representation is
// platform-specific (see handle_windows.go / handle_other.go).
type SharedTextureHandle struct {
	raw platformHandle
}

// SharedFenceHandle is an OS-interoperable handle to a shared fence
// object, importable as a GPU timeline semaphore via InteropImporter.
// Signalling the underlying OS object and signalling the imported
// timeline semaphore are the same monotone counter (spec.md §4.2).
type SharedFenceHandle struct {
	raw platformHandle
}

// Valid reports whether the handle carries a non-null platform value.
func (h SharedTextureHandle) Valid() bool { return h.raw.valid() }

// Valid reports whether the handle carries a non-null platform value.
func (h SharedFenceHandle) Valid() bool { return h.raw.valid() }

// BufferRegistration is the opaque token a Compositor returns from
// RegisterBuffer and expects back in Present, IsReleased, and
// UnregisterBuffer. The core never inspects its contents.
type BufferRegistration struct {
	token any
}
