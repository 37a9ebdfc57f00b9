// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregatePresentErrorsPriorityOrder(t *testing.T) {
	assert.Nil(t, AggregatePresentErrors(nil))
	assert.Nil(t, AggregatePresentErrors([]error{nil, nil}))

	// DeviceLost outranks everything else, regardless of position.
	assert.Same(t, ErrDeviceLost, AggregatePresentErrors([]error{
		ErrSuboptimal, ErrOutOfDate, ErrDeviceLost, ErrSurfaceLost,
	}))

	// SurfaceLost outranks OutOfDate, FullscreenExclusiveLost, Suboptimal.
	assert.Same(t, ErrSurfaceLost, AggregatePresentErrors([]error{
		ErrSuboptimal, ErrFullscreenExclusiveLost, ErrOutOfDate, ErrSurfaceLost,
	}))

	// OutOfDate outranks FullscreenExclusiveLost and Suboptimal.
	assert.Same(t, ErrOutOfDate, AggregatePresentErrors([]error{
		ErrSuboptimal, ErrFullscreenExclusiveLost, ErrOutOfDate,
	}))

	// FullscreenExclusiveLost outranks Suboptimal.
	assert.Same(t, ErrFullscreenExclusiveLost, AggregatePresentErrors([]error{
		ErrSuboptimal, ErrFullscreenExclusiveLost,
	}))

	assert.Same(t, ErrSuboptimal, AggregatePresentErrors([]error{nil, ErrSuboptimal, nil}))
}

// A wrapped sentinel must rank the same as the sentinel itself: wrapped
// OutOfDate still outranks a bare Suboptimal.
func TestAggregatePresentErrorsMatchesWrapped(t *testing.T) {
	wrapped := fmt.Errorf("present 2: %w", ErrOutOfDate)
	got := AggregatePresentErrors([]error{wrapped, ErrSuboptimal})
	assert.Same(t, wrapped, got)
	assert.ErrorIs(t, got, ErrOutOfDate)
}

// Errors outside the known taxonomy fall back to the first one seen.
func TestAggregatePresentErrorsUnknownFallback(t *testing.T) {
	unknownA := fmt.Errorf("present 0: some driver-specific failure")
	unknownB := fmt.Errorf("present 1: a different failure")
	got := AggregatePresentErrors([]error{unknownA, unknownB})
	assert.Same(t, unknownA, got)

	// A known error still wins over unknown ones regardless of order.
	got = AggregatePresentErrors([]error{unknownA, ErrDeviceLost, unknownB})
	assert.Same(t, ErrDeviceLost, got)
}
