// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import "errors"

// Sentinel errors for the taxonomy in the design's error handling
// section. Callers compare with errors.Is; some (DeviceLost,
// SurfaceLost, OutOfDate, Suboptimal, FullscreenExclusiveLost) are
// also forwarded verbatim from a GpuContext or Compositor call, so
// those implementations should wrap one of these with fmt.Errorf's
// %w rather than inventing a parallel taxonomy.
var (
	// ErrOutOfHostMemory means a host allocation failed.
	ErrOutOfHostMemory = errors.New("swapchain: out of host memory")

	// ErrOutOfDeviceMemory means a device allocation failed, e.g.
	// InteropImporter.ImportFence could not create its timeline
	// semaphore.
	ErrOutOfDeviceMemory = errors.New("swapchain: out of device memory")

	// ErrExtensionNotPresent means the driver lacks the interop
	// extensions InteropImporter requires.
	ErrExtensionNotPresent = errors.New("swapchain: required extension not present")

	// ErrImportUnsupported means the driver does not support
	// importing the given shared handle kind.
	ErrImportUnsupported = errors.New("swapchain: shared handle import not supported")

	// ErrInvalidHandle means a shared handle was null, closed, or of
	// the wrong kind.
	ErrInvalidHandle = errors.New("swapchain: invalid shared handle")

	// ErrSurfaceLost means the compositor reported loss, or the
	// window was destroyed.
	ErrSurfaceLost = errors.New("swapchain: surface lost")

	// ErrNativeWindowInUse means the surface already has a swapchain
	// installed (spec.md §9's Surface/Swapchain back-reference).
	ErrNativeWindowInUse = errors.New("swapchain: native window already in use")

	// ErrOutOfDate means the current swapchain is no longer valid,
	// e.g. after a resize; the host must recreate it.
	ErrOutOfDate = errors.New("swapchain: out of date")

	// ErrSuboptimal is advisory: present succeeded but the swapchain
	// should be recreated soon. Subsequent calls still succeed.
	ErrSuboptimal = errors.New("swapchain: suboptimal")

	// ErrDeviceLost is forwarded verbatim from a GPU submission.
	ErrDeviceLost = errors.New("swapchain: device lost")

	// ErrFullscreenExclusiveLost is forwarded verbatim from a GPU
	// submission.
	ErrFullscreenExclusiveLost = errors.New("swapchain: fullscreen exclusive lost")

	// ErrTimeout means acquire did not find a usable slot within the
	// requested timeout.
	ErrTimeout = errors.New("swapchain: acquire timed out")

	// ErrNotReady means acquire found no usable slot and the timeout
	// was zero. A slot already in DoubleRendering or DoubleWaiting is
	// not usable, so a third acquire against it with a zero timeout
	// gets ErrNotReady (with a nonzero timeout it waits, then
	// ErrTimeout) rather than overwriting its expected value.
	ErrNotReady = errors.New("swapchain: not ready")

	// ErrInvalidArgument covers null/mismatched inputs, an
	// unsupported format/color-space pair, or an unsupported present
	// mode. An out-of-range Present index is reported as ErrSuboptimal.
	ErrInvalidArgument = errors.New("swapchain: invalid argument")
)

// presentPriority orders errors from concurrently-presented
// swapchains by severity, per spec.md §7's propagation policy:
// DeviceLost > SurfaceLost > OutOfDate > FullscreenExclusiveLost >
// Suboptimal. Lower number is more severe.
var presentPriority = map[error]int{
	ErrDeviceLost:              0,
	ErrSurfaceLost:             1,
	ErrOutOfDate:               2,
	ErrFullscreenExclusiveLost: 3,
	ErrSuboptimal:              4,
}

// AggregatePresentErrors reduces the per-swapchain present errors of a
// multi-swapchain present call to the single most severe one, nil if
// all were nil. Errors not found in the known taxonomy are returned
// as-is if no known error is present, preferring the first one seen.
func AggregatePresentErrors(errs []error) error {
	var best error
	bestRank := len(presentPriority) + 1
	var fallback error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if fallback == nil {
			fallback = err
		}
		rank, known := presentPriority[err]
		if !known {
			for sentinel, r := range presentPriority {
				if errors.Is(err, sentinel) {
					rank, known = r, true
					break
				}
			}
		}
		if known && rank < bestRank {
			best, bestRank = err, rank
		}
	}
	if best != nil {
		return best
	}
	return fallback
}
