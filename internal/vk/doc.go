// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package vk wraps the small slice of the Vulkan API that the swapchain
core needs directly: device/queue lookup, binary and timeline
semaphores, fences, and VkResult-to-error translation. It is adapted
from the vgpu package's device and synchronization helpers, trimmed to
the presentation-only surface (no pipelines, no shader/vertex memory
management — that is rendering content, out of this module's scope).

Everything here uses github.com/goki/vulkan directly; it has no test
double of its own. swapchain/fakes_test.go's fakeGpuContext is what
exercises these functions without a real GPU, by handing them fake
vk.Device/vk.Semaphore/vk.Fence handles backed by unsafe.Pointer
conversions rather than driver-allocated ones. A real GpuContext
implementation would wrap an actual vk.Device obtained from outside
this module.
*/
package vk
