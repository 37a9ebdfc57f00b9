// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package swapchain implements a Vulkan-style swapchain surface on
// top of a host compositor: the per-buffer state machine, the two
// event-driven worker threads that drive it (RetireWaiter and
// VsyncPresenter), and the acquire/present API a renderer calls.
//
// The package deliberately knows nothing about how a window is
// created, how a GPU device is created, or how the compositor's
// presentation target is bound to a window; those are supplied by the
// host through the GpuContext, Compositor and WindowHost interfaces.
package swapchain
