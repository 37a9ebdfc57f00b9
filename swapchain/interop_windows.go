// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	vk "github.com/goki/vulkan"

	internalvk "cogentcore.org/vkswap/internal/vk"
)

// createExternalImage creates an image declared importable from an
// opaque Win32 memory handle (a shared D3D11 texture, per
// original_source's DXGISwapVK.cpp), via the VK_KHR_external_memory_win32
// extension's VkExternalMemoryImageCreateInfo chained onto the
// ordinary create info.
func createExternalImage(dev vk.Device, params ImageCreateParams) (vk.Image, error) {
	extInfo := vk.ExternalMemoryImageCreateInfo{
		SType:       vk.StructureTypeExternalMemoryImageCreateInfo,
		HandleTypes: vk.ExternalMemoryHandleTypeFlags(vk.ExternalMemoryHandleTypeOpaqueWin32Bit),
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

// importExternalMemory binds image's memory requirements to handle
// via VkImportMemoryWin32HandleInfoKHR, the Windows counterpart of
// the POSIX dma-buf fd import in interop_other.go.
func importExternalMemory(dev vk.Device, image vk.Image, handle SharedTextureHandle) (vk.DeviceMemory, error) {
	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(dev, image, &req)
	req.Deref()

	importInfo := vk.ImportMemoryWin32HandleInfoKHR{
		SType:      vk.StructureTypeImportMemoryWin32HandleInfoKhr,
		HandleType: vk.ExternalMemoryHandleTypeFlagBits(vk.ExternalMemoryHandleTypeOpaqueWin32Bit),
		Handle:     uintptr(handle.raw),
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

// importExternalSemaphore binds sem to the OS shared fence object
// behind handle via VkImportSemaphoreWin32HandleInfoKHR, per
// original_source's use of ID3D11Fence shared handles (Shared.h).
func importExternalSemaphore(dev vk.Device, sem vk.Semaphore, handle SharedFenceHandle) error {
	ret := vk.ImportSemaphoreWin32HandleKHR(dev, &vk.ImportSemaphoreWin32HandleInfoKHR{
		SType:      vk.StructureTypeImportSemaphoreWin32HandleInfoKhr,
		Semaphore:  sem,
		HandleType: vk.ExternalSemaphoreHandleTypeFlagBits(vk.ExternalSemaphoreHandleTypeD3d11FenceBit),
		Handle:     uintptr(handle.raw),
	})
	return internalvk.NewError(ret)
}
