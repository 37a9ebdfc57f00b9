// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"fmt"
	"image"

	vk "github.com/goki/vulkan"

	"cogentcore.org/vkswap/enums"
)

// Format is a pixel format a swapchain image may be created with. The
// set is fixed; see FormatColorSpacePairs for which combinations with
// ColorSpace are accepted.
type Format int32

const (
	FormatBGRA8Unorm Format = iota
	FormatRGBA8Unorm
	FormatRGBA16Float
	FormatBGR10A2Unorm
)

var formatNames = [...]string{
	FormatBGRA8Unorm:   "BGRA8Unorm",
	FormatRGBA8Unorm:   "RGBA8Unorm",
	FormatRGBA16Float:  "RGBA16Float",
	FormatBGR10A2Unorm: "BGR10A2Unorm",
}

var formatValues = []enums.Enum{FormatBGRA8Unorm, FormatRGBA8Unorm, FormatRGBA16Float, FormatBGR10A2Unorm}

func (f Format) String() string   { return enums.StringOf(int64(f), formatNames[:]) }
func (f Format) Int64() int64     { return int64(f) }
func (f Format) Desc() string     { return "swapchain image pixel format" }
func (f Format) IsValid() bool    { return int(f) >= 0 && int(f) < len(formatNames) }
func (f Format) Values() []enums.Enum { return formatValues }
func (f Format) Strings() []string {
	s := make([]string, len(formatNames))
	copy(s, formatNames[:])
	return s
}
func (f Format) Descs() []string {
	s := make([]string, len(formatNames))
	for i := range s {
		s[i] = f.Desc()
	}
	return s
}

// ColorSpace is the color space a swapchain image is interpreted in.
type ColorSpace int32

const (
	ColorSpaceSRGBNonlinear ColorSpace = iota
	ColorSpaceExtendedSRGBLinear
	ColorSpaceHDR10ST2084
)

var colorSpaceNames = [...]string{
	ColorSpaceSRGBNonlinear:      "SRGBNonlinear",
	ColorSpaceExtendedSRGBLinear: "ExtendedSRGBLinear",
	ColorSpaceHDR10ST2084:        "HDR10ST2084",
}

var colorSpaceValues = []enums.Enum{ColorSpaceSRGBNonlinear, ColorSpaceExtendedSRGBLinear, ColorSpaceHDR10ST2084}

func (c ColorSpace) String() string       { return enums.StringOf(int64(c), colorSpaceNames[:]) }
func (c ColorSpace) Int64() int64         { return int64(c) }
func (c ColorSpace) Desc() string         { return "swapchain image color space" }
func (c ColorSpace) IsValid() bool        { return int(c) >= 0 && int(c) < len(colorSpaceNames) }
func (c ColorSpace) Values() []enums.Enum { return colorSpaceValues }
func (c ColorSpace) Strings() []string {
	s := make([]string, len(colorSpaceNames))
	copy(s, colorSpaceNames[:])
	return s
}
func (c ColorSpace) Descs() []string {
	s := make([]string, len(colorSpaceNames))
	for i := range s {
		s[i] = c.Desc()
	}
	return s
}

// AlphaMode controls how a presented buffer's alpha channel is
// interpreted by the compositor.
type AlphaMode int32

const (
	AlphaModeOpaque AlphaMode = iota
	AlphaModePremultiplied
	AlphaModeStraight
	AlphaModeInherit
)

var alphaModeNames = [...]string{
	AlphaModeOpaque:        "Opaque",
	AlphaModePremultiplied: "Premultiplied",
	AlphaModeStraight:      "Straight",
	AlphaModeInherit:       "Inherit",
}

var alphaModeValues = []enums.Enum{AlphaModeOpaque, AlphaModePremultiplied, AlphaModeStraight, AlphaModeInherit}

func (a AlphaMode) String() string       { return enums.StringOf(int64(a), alphaModeNames[:]) }
func (a AlphaMode) Int64() int64         { return int64(a) }
func (a AlphaMode) Desc() string         { return "swapchain buffer alpha interpretation" }
func (a AlphaMode) IsValid() bool        { return int(a) >= 0 && int(a) < len(alphaModeNames) }
func (a AlphaMode) Values() []enums.Enum { return alphaModeValues }
func (a AlphaMode) Strings() []string {
	s := make([]string, len(alphaModeNames))
	copy(s, alphaModeNames[:])
	return s
}
func (a AlphaMode) Descs() []string {
	s := make([]string, len(alphaModeNames))
	for i := range s {
		s[i] = a.Desc()
	}
	return s
}

// PresentMode selects between the two presentation policies the core
// implements.
type PresentMode int32

const (
	// PresentModeFifo presents buffers strictly in submission order;
	// PresentQueue never drops a promoted buffer.
	PresentModeFifo PresentMode = iota

	// PresentModeMailbox presents the most recently promoted buffer
	// at each tick, silently abandoning older ones.
	PresentModeMailbox
)

var presentModeNames = [...]string{
	PresentModeFifo:    "Fifo",
	PresentModeMailbox: "Mailbox",
}

var presentModeValues = []enums.Enum{PresentModeFifo, PresentModeMailbox}

func (p PresentMode) String() string       { return enums.StringOf(int64(p), presentModeNames[:]) }
func (p PresentMode) Int64() int64         { return int64(p) }
func (p PresentMode) Desc() string         { return "swapchain present policy" }
func (p PresentMode) IsValid() bool        { return int(p) >= 0 && int(p) < len(presentModeNames) }
func (p PresentMode) Values() []enums.Enum { return presentModeValues }
func (p PresentMode) Strings() []string {
	s := make([]string, len(presentModeNames))
	copy(s, presentModeNames[:])
	return s
}
func (p PresentMode) Descs() []string {
	s := make([]string, len(presentModeNames))
	for i := range s {
		s[i] = p.Desc()
	}
	return s
}

// FormatColorSpacePair is one row of the fixed support table in
// spec.md §6.
type FormatColorSpacePair struct {
	Format     Format
	ColorSpace ColorSpace
}

// supportedPairs is the fixed, verbatim-advertised set of
// format/color-space combinations a swapchain may be created with.
var supportedPairs = []FormatColorSpacePair{
	{FormatBGRA8Unorm, ColorSpaceSRGBNonlinear},
	{FormatRGBA8Unorm, ColorSpaceSRGBNonlinear},
	{FormatRGBA16Float, ColorSpaceSRGBNonlinear},
	{FormatRGBA16Float, ColorSpaceExtendedSRGBLinear},
	{FormatBGR10A2Unorm, ColorSpaceSRGBNonlinear},
	{FormatBGR10A2Unorm, ColorSpaceHDR10ST2084},
}

// pairSupported reports whether format paired with cs is one of the
// advertised combinations.
func pairSupported(format Format, cs ColorSpace) bool {
	for _, p := range supportedPairs {
		if p.Format == format && p.ColorSpace == cs {
			return true
		}
	}
	return false
}

// ImageUsage is a bitmask of the ways a swapchain image may be used,
// matching the supported_usage capability set in spec.md §6.
type ImageUsage uint32

const (
	ImageUsageTransferSrc ImageUsage = 1 << iota
	ImageUsageTransferDst
	ImageUsageSampled
	ImageUsageStorage
	ImageUsageColorAttachment
	ImageUsageInputAttachment
)

const supportedImageUsage = ImageUsageTransferSrc | ImageUsageTransferDst | ImageUsageSampled |
	ImageUsageStorage | ImageUsageColorAttachment | ImageUsageInputAttachment

// CompositeAlpha is the Opaque/PreMultiplied/PostMultiplied triple the
// surface capabilities advertise and CreateInfo selects from; kept
// distinct from AlphaMode, the compositor-side value that
// VsyncPresenter derives from it (see alphaModeFromComposite).
type CompositeAlpha int32

const (
	CompositeAlphaOpaque CompositeAlpha = iota
	CompositeAlphaPreMultiplied
	CompositeAlphaPostMultiplied
)

// minImageCount and maxImageCount bound BufferSlot count N, per
// spec.md §3: N ∈ [2, 8].
const (
	minImageCount = 2
	maxImageCount = 8
)

// Capabilities is the read-only capability view SurfaceAdapter
// exposes, matching spec.md §6's surface capabilities table verbatim.
type Capabilities struct {
	MinImageCount           int
	MaxImageCount           int
	MaxImageArrayLayers     int
	SupportedTransforms     []string
	CurrentTransform        string
	SupportedUsage          ImageUsage
	SupportedCompositeAlpha []CompositeAlpha
}

// DefaultCapabilities returns the fixed capability set spec.md §6
// advertises; SurfaceAdapter.Capabilities returns this unchanged (the
// core never queries a real compositor for these — they are load-
// bearing constants of the design, not driver-reported values).
func DefaultCapabilities() Capabilities {
	return Capabilities{
		MinImageCount:       minImageCount,
		MaxImageCount:       maxImageCount,
		MaxImageArrayLayers: 1,
		SupportedTransforms: []string{"Identity"},
		CurrentTransform:    "Identity",
		SupportedUsage:      supportedImageUsage,
		SupportedCompositeAlpha: []CompositeAlpha{
			CompositeAlphaOpaque, CompositeAlphaPreMultiplied, CompositeAlphaPostMultiplied,
		},
	}
}

// CreateInfo is the immutable configuration a SwapchainCore is
// constructed with, matching spec.md §6's "Configuration (swapchain
// create)" table.
type CreateInfo struct {
	MinImageCount    int
	ImageFormat      Format
	ImageColorSpace  ColorSpace
	ImageExtent      image.Point
	ImageArrayLayers int
	ImageUsage       ImageUsage
	PresentMode      PresentMode
	CompositeAlpha   CompositeAlpha

	// Queue is the GPU queue coordination submissions (the no-op
	// present submit, semaphore signals) target. It is extension
	// side-info rather than a Vulkan swapchain field proper: most
	// hosts pass the same queue as GpuContext.Queue, but a host
	// running coordination work on a dedicated queue may override it
	// here.
	Queue vk.Queue
}

// Validate checks CreateInfo against the rules in spec.md §6,
// clamping MinImageCount in place and returning ErrInvalidArgument
// wrapped with the offending field for everything else.
func (c *CreateInfo) Validate() error {
	if c.MinImageCount < minImageCount {
		c.MinImageCount = minImageCount
	}
	if c.MinImageCount > maxImageCount {
		c.MinImageCount = maxImageCount
	}
	if !pairSupported(c.ImageFormat, c.ImageColorSpace) {
		return fmt.Errorf("%w: unsupported format/color-space pair %s/%s",
			ErrInvalidArgument, c.ImageFormat, c.ImageColorSpace)
	}
	if c.ImageExtent.X <= 0 || c.ImageExtent.Y <= 0 {
		return fmt.Errorf("%w: image extent must be positive, got %v", ErrInvalidArgument, c.ImageExtent)
	}
	if c.ImageArrayLayers != 1 {
		return fmt.Errorf("%w: image array layers must be 1, got %d", ErrInvalidArgument, c.ImageArrayLayers)
	}
	if c.ImageUsage&^supportedImageUsage != 0 {
		return fmt.Errorf("%w: image usage includes unsupported bits", ErrInvalidArgument)
	}
	if !c.PresentMode.IsValid() {
		return fmt.Errorf("%w: unsupported present mode %d", ErrInvalidArgument, c.PresentMode)
	}
	return nil
}
