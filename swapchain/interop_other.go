// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows

package swapchain

import (
	vk "github.com/goki/vulkan"

	internalvk "cogentcore.org/vkswap/internal/vk"
)

// createExternalImage is the POSIX counterpart of
// interop_windows.go's version: it declares the image importable from
// an opaque fd (a dma-buf) via VK_KHR_external_memory_fd instead of
// VK_KHR_external_memory_win32.
func createExternalImage(dev vk.Device, params ImageCreateParams) (vk.Image, error) {
	extInfo := vk.ExternalMemoryImageCreateInfo{
		SType:       vk.StructureTypeExternalMemoryImageCreateInfo,
		HandleTypes: vk.ExternalMemoryHandleTypeFlags(vk.ExternalMemoryHandleTypeOpaqueFdBit),
	}
	var image vk.Image
	ret := vk.CreateImage(dev, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		PNext:     &extInfo,
		ImageType: vk.ImageType2d,
		Format:    vulkanFormat(params.Format),
		Extent: vk.Extent3D{
			Width:  uint32(params.Extent.X),
			Height: uint32(params.Extent.Y),
			Depth:  1,
		},
		MipLevels:   1,
		ArrayLayers: 1,
		Samples:     vk.SampleCount1Bit,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       vulkanImageUsage(params.Usage),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &image)
	if err := internalvk.NewError(ret); err != nil {
		return vk.NullImage, err
	}
	return image, nil
}

// importExternalMemory imports handle as the fd backing image's
// memory, via VkImportMemoryFdInfoKHR. Note that, per the Vulkan spec,
// ownership of the fd transfers to the driver on a successful import.
func importExternalMemory(dev vk.Device, image vk.Image, handle SharedTextureHandle) (vk.DeviceMemory, error) {
	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(dev, image, &req)
	req.Deref()

	importInfo := vk.ImportMemoryFdInfoKHR{
		SType:      vk.StructureTypeImportMemoryFdInfoKhr,
		HandleType: vk.ExternalMemoryHandleTypeFlagBits(vk.ExternalMemoryHandleTypeOpaqueFdBit),
		Fd:         int32(handle.raw),
	}
	var memory vk.DeviceMemory
	ret := vk.AllocateMemory(dev, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		PNext:           &importInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: 0,
	}, nil, &memory)
	if err := internalvk.NewError(ret); err != nil {
		return vk.NullDeviceMemory, err
	}
	return memory, nil
}

// importExternalSemaphore imports handle as the fd backing sem's
// timeline counter, via VkImportSemaphoreFdInfoKHR (the sync_file fd
// analogue of a shared ID3D11Fence handle).
func importExternalSemaphore(dev vk.Device, sem vk.Semaphore, handle SharedFenceHandle) error {
	ret := vk.ImportSemaphoreFdKHR(dev, &vk.ImportSemaphoreFdInfoKHR{
		SType:      vk.StructureTypeImportSemaphoreFdInfoKhr,
		Semaphore:  sem,
		HandleType: vk.ExternalSemaphoreHandleTypeFlagBits(vk.ExternalSemaphoreHandleTypeSyncFdBit),
		Fd:         int32(handle.raw),
	})
	return internalvk.NewError(ret)
}
