// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !windows

package swapchain

// platformHandle is a POSIX file descriptor (to a dma-buf or a sync
// file, per which field it's stored in), the non-Windows analogue of
// a shared D3D11 texture handle or shared fence handle.
type platformHandle int32

func (h platformHandle) valid() bool { return h >= 0 }

// nullPlatformHandle is the invalid-fd sentinel; 0 is a legitimate fd
// (stdin) so it cannot double as "unset".
const nullPlatformHandle platformHandle = -1
