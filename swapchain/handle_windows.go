// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swapchain

import "golang.org/x/sys/windows"

// platformHandle is a Windows HANDLE to a shared D3D11 texture or a
// shared fence object, per which field it's stored in.
type platformHandle windows.Handle

func (h platformHandle) valid() bool { return h != platformHandle(windows.InvalidHandle) && h != 0 }

// nullPlatformHandle is the zero value of platformHandle; Win32 shared
// resource handles returned by CreateSharedHandle are never 0.
const nullPlatformHandle platformHandle = 0
