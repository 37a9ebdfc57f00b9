// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"fmt"
	"image"
	"io"

	"github.com/pelletier/go-toml/v2"
)

// createInfoDoc is the on-disk shape LoadCreateInfo parses, kept
// distinct from CreateInfo because CreateInfo carries a live vk.Queue
// that has no textual representation; Queue is always left to the
// caller to fill in after loading.
type createInfoDoc struct {
	MinImageCount    int    `toml:"min_image_count"`
	ImageFormat      string `toml:"image_format"`
	ImageColorSpace  string `toml:"image_color_space"`
	ImageWidth       int    `toml:"image_width"`
	ImageHeight      int    `toml:"image_height"`
	ImageArrayLayers int    `toml:"image_array_layers"`
	PresentMode      string `toml:"present_mode"`
	CompositeAlpha   string `toml:"composite_alpha"`
}

var formatFromName = map[string]Format{
	"BGRA8Unorm":   FormatBGRA8Unorm,
	"RGBA8Unorm":   FormatRGBA8Unorm,
	"RGBA16Float":  FormatRGBA16Float,
	"BGR10A2Unorm": FormatBGR10A2Unorm,
}

var colorSpaceFromName = map[string]ColorSpace{
	"SRGBNonlinear":        ColorSpaceSRGBNonlinear,
	"ExtendedSRGBLinear":   ColorSpaceExtendedSRGBLinear,
	"HDR10ST2084":          ColorSpaceHDR10ST2084,
}

var presentModeFromName = map[string]PresentMode{
	"Fifo":    PresentModeFifo,
	"Mailbox": PresentModeMailbox,
}

var compositeAlphaFromName = map[string]CompositeAlpha{
	"Opaque":        CompositeAlphaOpaque,
	"PreMultiplied": CompositeAlphaPreMultiplied,
	"PostMultiplied": CompositeAlphaPostMultiplied,
}

// LoadCreateInfo reads a swapchain CreateInfo from TOML, the format
// this module uses for the same reason the teacher package chose it
// for its own settings: a human can hand-edit it beside the binary
// without going through a build step. The Queue field is never
// populated here; callers must set it after loading a GpuContext.
func LoadCreateInfo(r io.Reader) (CreateInfo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return CreateInfo{}, fmt.Errorf("swapchain: reading create info: %w", err)
	}
	doc := createInfoDoc{PresentMode: "Fifo", CompositeAlpha: "Opaque"}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return CreateInfo{}, fmt.Errorf("swapchain: parsing create info: %w", err)
	}

	format, ok := formatFromName[doc.ImageFormat]
	if !ok {
		return CreateInfo{}, fmt.Errorf("%w: unknown image_format %q", ErrInvalidArgument, doc.ImageFormat)
	}
	cs, ok := colorSpaceFromName[doc.ImageColorSpace]
	if !ok {
		return CreateInfo{}, fmt.Errorf("%w: unknown image_color_space %q", ErrInvalidArgument, doc.ImageColorSpace)
	}
	mode, ok := presentModeFromName[doc.PresentMode]
	if !ok {
		return CreateInfo{}, fmt.Errorf("%w: unknown present_mode %q", ErrInvalidArgument, doc.PresentMode)
	}
	alpha, ok := compositeAlphaFromName[doc.CompositeAlpha]
	if !ok {
		return CreateInfo{}, fmt.Errorf("%w: unknown composite_alpha %q", ErrInvalidArgument, doc.CompositeAlpha)
	}

	info := CreateInfo{
		MinImageCount:    doc.MinImageCount,
		ImageFormat:      format,
		ImageColorSpace:  cs,
		ImageExtent:      image.Pt(doc.ImageWidth, doc.ImageHeight),
		ImageArrayLayers: doc.ImageArrayLayers,
		ImageUsage:       supportedImageUsage,
		PresentMode:      mode,
		CompositeAlpha:   alpha,
	}
	return info, info.Validate()
}
