// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors provides a set of error handling helpers, extending
// the standard library errors package. Adapted from
// cogentcore.org/core/base/errors, which the teacher's own gpu
// package imports but which was missing from this repository's
// snapshot.
package errors

import (
	"log/slog"
	"runtime"
	"strconv"
)

// Log logs the given error, if it is non-nil, and returns it
// unchanged. The intended usage is:
//
//	return errors.Log(swapchain.Destroy())
func Log(err error) error {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return err
}

// Log1 logs err if it is non-nil, and returns v unchanged either way.
// The intended usage is:
//
//	buf := errors.Log1(importer.ImportImage(req))
func Log1[T any](v T, err error) T {
	if err != nil {
		slog.Error(err.Error() + " | " + CallerInfo())
	}
	return v
}

// CallerInfo returns the function name and source location of the
// caller of the function that called CallerInfo.
func CallerInfo() string {
	pc, file, line, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name() + " " + file + ":" + strconv.Itoa(line)
}
