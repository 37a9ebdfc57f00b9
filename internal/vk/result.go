// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vk

import (
	"fmt"

	vk "github.com/goki/vulkan"
)

// resultNames gives readable names for the VkResult codes this
// package's callers need to distinguish; anything else falls back to
// its numeric value.
var resultNames = map[vk.Result]string{
	vk.Success:                    "VK_SUCCESS",
	vk.NotReady:                   "VK_NOT_READY",
	vk.Timeout:                    "VK_TIMEOUT",
	vk.ErrorOutOfHostMemory:       "VK_ERROR_OUT_OF_HOST_MEMORY",
	vk.ErrorOutOfDeviceMemory:     "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	vk.ErrorDeviceLost:            "VK_ERROR_DEVICE_LOST",
	vk.ErrorExtensionNotPresent:   "VK_ERROR_EXTENSION_NOT_PRESENT",
	vk.ErrorSurfaceLost:           "VK_ERROR_SURFACE_LOST_KHR",
	vk.ErrorNativeWindowInUse:     "VK_ERROR_NATIVE_WINDOW_IN_USE_KHR",
	vk.ErrorOutOfDate:             "VK_ERROR_OUT_OF_DATE_KHR",
	vk.Suboptimal:                 "VK_SUBOPTIMAL_KHR",
	vk.ErrorInvalidExternalHandle: "VK_ERROR_INVALID_EXTERNAL_HANDLE",
}

// NewError converts a non-success VkResult into an error, or returns
// nil for vk.Success. Call sites that need to distinguish a specific
// code should compare the vk.Result directly before calling NewError.
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	if name, ok := resultNames[ret]; ok {
		return fmt.Errorf("vulkan: %s", name)
	}
	return fmt.Errorf("vulkan: result %d", int32(ret))
}

// IfPanic panics if err is non-nil. Reserved for construction-time
// failures that the teacher's own vgpu package also treats as fatal
// (device/instance bring-up); the swapchain package itself never
// calls this; it always returns errors.
func IfPanic(err error) {
	if err != nil {
		panic(err)
	}
}
