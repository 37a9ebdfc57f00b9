// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"bytes"
	"image"
)

// SurfaceAdapter translates Vulkan-style surface queries to the
// window and GPU context the host supplies, per spec.md §4.1. It
// holds no state of its own beyond the two collaborators it was built
// from.
type SurfaceAdapter struct {
	window WindowHost
	gpu    GpuContext
}

// NewSurfaceAdapter builds an adapter over the given window and GPU
// context. Neither is retained beyond method calls other than the
// reference itself; the adapter never caches answers.
func NewSurfaceAdapter(window WindowHost, gpu GpuContext) *SurfaceAdapter {
	return &SurfaceAdapter{window: window, gpu: gpu}
}

// Extent returns the window's current client rectangle, or whatever
// error WindowHost.Extent reports (typically wrapping ErrSurfaceLost
// once the window is destroyed).
func (a *SurfaceAdapter) Extent() (image.Point, error) {
	return a.window.Extent()
}

// SupportedPairs returns the fixed format/color-space combinations
// this surface advertises (spec.md §6); the slice is a copy, safe for
// the caller to mutate.
func (a *SurfaceAdapter) SupportedPairs() []FormatColorSpacePair {
	out := make([]FormatColorSpacePair, len(supportedPairs))
	copy(out, supportedPairs)
	return out
}

// SupportsPair reports whether format and cs are jointly supported.
func (a *SurfaceAdapter) SupportsPair(format Format, cs ColorSpace) bool {
	return pairSupported(format, cs)
}

// SupportedPresentModes returns {Fifo, Mailbox}, the only present
// modes this surface advertises.
func (a *SurfaceAdapter) SupportedPresentModes() []PresentMode {
	return []PresentMode{PresentModeFifo, PresentModeMailbox}
}

// Capabilities returns the fixed surface capability set (spec.md §6).
func (a *SurfaceAdapter) Capabilities() Capabilities {
	return DefaultCapabilities()
}

// QueueFamilySupport reports whether the given queue family on the
// adapter's GpuContext supports this surface: it must carry graphics
// or compute capability, and the surface's window must be driven by
// the same adapter LUID as the GPU context's physical device (spec.md
// §4.1).
func (a *SurfaceAdapter) QueueFamilySupport(family uint32) bool {
	if !a.gpu.QueueFamilySupportsPresent(family) {
		return false
	}
	windowLUID := a.window.AdapterLUID()
	gpuLUID := a.gpu.AdapterLUID()
	return bytes.Equal(windowLUID[:], gpuLUID[:])
}
