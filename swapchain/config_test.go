// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Individually-valid but jointly-unsupported format/color-space pair
// (spec.md §6's support table has no BGRA8Unorm/HDR10ST2084 row).
func TestValidateRejectsUnsupportedFormatColorSpacePair(t *testing.T) {
	info := &CreateInfo{
		MinImageCount:    2,
		ImageFormat:      FormatBGRA8Unorm,
		ImageColorSpace:  ColorSpaceHDR10ST2084,
		ImageExtent:      image.Pt(640, 480),
		ImageArrayLayers: 1,
		ImageUsage:       ImageUsageColorAttachment,
		PresentMode:      PresentModeFifo,
	}
	err := info.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "BGRA8Unorm")
	assert.Contains(t, err.Error(), "HDR10ST2084")
}

func TestValidateAcceptsSupportedFormatColorSpacePair(t *testing.T) {
	info := &CreateInfo{
		MinImageCount:    2,
		ImageFormat:      FormatBGRA8Unorm,
		ImageColorSpace:  ColorSpaceSRGBNonlinear,
		ImageExtent:      image.Pt(640, 480),
		ImageArrayLayers: 1,
		ImageUsage:       ImageUsageColorAttachment,
		PresentMode:      PresentModeFifo,
	}
	assert.NoError(t, info.Validate())
}

// String() must return the matching name and not recurse through
// enums.StringOf back into itself.
func TestEnumStringers(t *testing.T) {
	assert.Equal(t, "BGRA8Unorm", FormatBGRA8Unorm.String())
	assert.Equal(t, "RGBA16Float", FormatRGBA16Float.String())
	assert.Equal(t, "SRGBNonlinear", ColorSpaceSRGBNonlinear.String())
	assert.Equal(t, "HDR10ST2084", ColorSpaceHDR10ST2084.String())
	assert.Equal(t, "Premultiplied", AlphaModePremultiplied.String())
	assert.Equal(t, "Fifo", PresentModeFifo.String())
	assert.Equal(t, "Mailbox", PresentModeMailbox.String())
}
