// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vk

import (
	"errors"

	vk "github.com/goki/vulkan"
)

// ErrNoQueueFamily is returned when no queue family on the physical
// device satisfies a requested set of capability flags.
var ErrNoQueueFamily = errors.New("vulkan: no queue family with the requested capabilities")

// QueueFamilySupports reports whether the physical device has any
// queue family whose flags intersect required. Adapted from the
// teacher's Device.FindQueue, trimmed to a read-only query (this
// package never creates the logical device itself — that belongs to
// the host's GpuContext). The swapchain package does not call it;
// SurfaceAdapter asks GpuContext.QueueFamilySupportsPresent instead.
func QueueFamilySupports(phys vk.PhysicalDevice, required vk.QueueFlagBits) (family uint32, ok bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(phys, &count, nil)
	if count == 0 {
		return 0, false
	}
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(phys, &count, props)
	want := vk.QueueFlags(required)
	for i := uint32(0); i < count; i++ {
		props[i].Deref()
		if props[i].QueueFlags&want != 0 {
			return i, true
		}
	}
	return 0, false
}

// GraphicsOrComputeFamily returns the first queue family index that
// carries graphics or compute capability, matching SurfaceAdapter's
// queue-family support rule (graphics or compute, plus a matching
// adapter LUID, checked by the caller).
func GraphicsOrComputeFamily(phys vk.PhysicalDevice) (uint32, bool) {
	if f, ok := QueueFamilySupports(phys, vk.QueueGraphicsBit); ok {
		return f, true
	}
	return QueueFamilySupports(phys, vk.QueueComputeBit)
}

// DeviceWaitIdle waits until the device has no outstanding work.
// SwapchainCore.Destroy calls this on GpuContext.Device() before
// releasing per-slot handles, mirroring the teacher's
// Device.Destroy/DeviceWaitIdle pairing.
func DeviceWaitIdle(dev vk.Device) error {
	return NewError(vk.DeviceWaitIdle(dev))
}
