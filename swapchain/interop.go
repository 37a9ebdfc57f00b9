// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"fmt"
	"image"

	vk "github.com/goki/vulkan"

	internalvk "cogentcore.org/vkswap/internal/vk"
)

// ImportedImage is the bound (image, memory, view) triple
// InteropImporter.ImportImage produces from a shared texture handle
// (spec.md §4.2).
type ImportedImage struct {
	Image  vk.Image
	Memory vk.DeviceMemory
	View   vk.ImageView
}

// ImageCreateParams are the target parameters the imported image is
// created with; they must match the properties of the texture behind
// the shared handle, which the host is responsible for guaranteeing.
type ImageCreateParams struct {
	Extent image.Point
	Format Format
	Usage  ImageUsage
}

// InteropImporter imports OS-shared handles as GPU resources: a
// shared texture handle as a vk.Image, and a shared fence handle as a
// GPU timeline semaphore (spec.md §4.2). Platform-specific import
// calls live in interop_windows.go / interop_other.go.
type InteropImporter struct {
	ctx GpuContext
}

// NewInteropImporter builds an importer bound to ctx's device.
func NewInteropImporter(ctx GpuContext) *InteropImporter {
	return &InteropImporter{ctx: ctx}
}

// ImportImage imports handle as a GPU image matching params. It fails
// with ErrInvalidHandle if handle is null; any other failure is the
// Vulkan result error from internal/vk (for example
// "vulkan: VK_ERROR_OUT_OF_DEVICE_MEMORY"), which is not wrapped in
// ErrImportUnsupported or ErrOutOfDeviceMemory.
func (imp *InteropImporter) ImportImage(handle SharedTextureHandle, params ImageCreateParams) (ImportedImage, error) {
	if !handle.Valid() {
		return ImportedImage{}, ErrInvalidHandle
	}
	dev := imp.ctx.Device()

	image, err := createExternalImage(dev, params)
	if err != nil {
		return ImportedImage{}, err
	}
	memory, err := importExternalMemory(dev, image, handle)
	if err != nil {
		vk.DestroyImage(dev, image, nil)
		return ImportedImage{}, err
	}
	if ret := vk.BindImageMemory(dev, image, memory, 0); ret != vk.Success {
		vk.FreeMemory(dev, memory, nil)
		vk.DestroyImage(dev, image, nil)
		return ImportedImage{}, internalvk.NewError(ret)
	}
	view, err := createImageView(dev, image, params.Format)
	if err != nil {
		vk.FreeMemory(dev, memory, nil)
		vk.DestroyImage(dev, image, nil)
		return ImportedImage{}, err
	}
	return ImportedImage{Image: image, Memory: memory, View: view}, nil
}

// ImportFence imports handle as a GPU timeline semaphore, whose
// counter value is exactly the shared fence's: signalling one is
// visible to the GPU timeline and to armRenderDone's polling of the
// same value (spec.md §4.2's three-observer contract).
func (imp *InteropImporter) ImportFence(handle SharedFenceHandle, initialValue uint64) (vk.Semaphore, error) {
	if !handle.Valid() {
		return vk.NullSemaphore, ErrInvalidHandle
	}
	dev := imp.ctx.Device()
	sem, err := internalvk.NewTimelineSemaphore(dev, initialValue)
	if err != nil {
		return vk.NullSemaphore, fmt.Errorf("%w: %v", ErrOutOfDeviceMemory, err)
	}
	if err := importExternalSemaphore(dev, sem, handle); err != nil {
		internalvk.DestroySemaphore(dev, sem)
		return vk.NullSemaphore, err
	}
	return sem, nil
}

func createImageView(dev vk.Device, image vk.Image, format Format) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(dev, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   vulkanFormat(format),
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(vk.ImageAspectColorBit),
			LevelCount:     1,
			LayerCount:     1,
		},
	}, nil, &view)
	if err := internalvk.NewError(ret); err != nil {
		return vk.NullImageView, err
	}
	return view, nil
}

// vulkanImageUsage maps the swapchain's ImageUsage bitmask to its
// Vulkan equivalent; shared by both platforms' createExternalImage.
func vulkanImageUsage(u ImageUsage) vk.ImageUsageFlags {
	var flags vk.ImageUsageFlagBits
	if u&ImageUsageTransferSrc != 0 {
		flags |= vk.ImageUsageTransferSrcBit
	}
	if u&ImageUsageTransferDst != 0 {
		flags |= vk.ImageUsageTransferDstBit
	}
	if u&ImageUsageSampled != 0 {
		flags |= vk.ImageUsageSampledBit
	}
	if u&ImageUsageStorage != 0 {
		flags |= vk.ImageUsageStorageBit
	}
	if u&ImageUsageColorAttachment != 0 {
		flags |= vk.ImageUsageColorAttachmentBit
	}
	if u&ImageUsageInputAttachment != 0 {
		flags |= vk.ImageUsageInputAttachmentBit
	}
	return vk.ImageUsageFlags(flags)
}

// vulkanFormat maps the small fixed swapchain Format set to its
// Vulkan equivalent.
func vulkanFormat(f Format) vk.Format {
	switch f {
	case FormatBGRA8Unorm:
		return vk.FormatB8g8r8a8Unorm
	case FormatRGBA8Unorm:
		return vk.FormatR8g8b8a8Unorm
	case FormatRGBA16Float:
		return vk.FormatR16g16b16a16Sfloat
	case FormatBGR10A2Unorm:
		return vk.FormatA2r10g10b10UnormPack32
	default:
		return vk.FormatUndefined
	}
}
