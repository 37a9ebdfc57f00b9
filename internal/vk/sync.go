// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vk

import (
	vk "github.com/goki/vulkan"
)

// NewSemaphore creates a plain binary semaphore, adapted from
// RenderFrame.Config's ImageAcquired/RenderDone semaphore creation.
func NewSemaphore(dev vk.Device) (vk.Semaphore, error) {
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(dev, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}, nil, &sem)
	if err := NewError(ret); err != nil {
		return vk.NullSemaphore, err
	}
	return sem, nil
}

// NewTimelineSemaphore creates a timeline semaphore starting at
// initialValue. This is the GPU-side half of the shared fence that
// InteropImporter binds to an imported OS fence handle: signalling it
// from a GPU submission and signalling the OS fence object from the
// host both advance the same counter.
func NewTimelineSemaphore(dev vk.Device, initialValue uint64) (vk.Semaphore, error) {
	typeInfo := vk.SemaphoreTypeCreateInfo{
		SType:         vk.StructureTypeSemaphoreTypeCreateInfo,
		SemaphoreType: vk.SemaphoreTypeTimeline,
		InitialValue:  initialValue,
	}
	var sem vk.Semaphore
	ret := vk.CreateSemaphore(dev, &vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
		PNext: &typeInfo,
	}, nil, &sem)
	if err := NewError(ret); err != nil {
		return vk.NullSemaphore, err
	}
	return sem, nil
}

// SemaphoreCounterValue reads the current value of a timeline
// semaphore. RetireWaiter uses this to disambiguate a render-done
// signal arriving for a slot in DoubleWaiting: if the observed value
// is behind the slot's expectedValue, the fired event belongs to the
// earlier of the two overlapping submissions.
func SemaphoreCounterValue(dev vk.Device, sem vk.Semaphore) (uint64, error) {
	var value uint64
	ret := vk.GetSemaphoreCounterValue(dev, sem, &value)
	if err := NewError(ret); err != nil {
		return 0, err
	}
	return value, nil
}

// NewFence creates an unsignaled fence, adapted from
// RenderFrame.Config's RenderFence creation.
func NewFence(dev vk.Device) (vk.Fence, error) {
	var fence vk.Fence
	ret := vk.CreateFence(dev, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
	}, nil, &fence)
	if err := NewError(ret); err != nil {
		return vk.NullFence, err
	}
	return fence, nil
}

// SubmitCoordination issues a no-op GPU submission used by present
// and acquire to coordinate via timeline semaphores rather than move
// actual render commands: it waits on waitSem at waitValue (skipped
// if waitSem is vk.NullSemaphore) and signals signalSem at
// signalValue (skipped if signalSem is vk.NullSemaphore), then
// signals signalFence if it is not vk.NullFence.
func SubmitCoordination(queue vk.Queue, waitSem vk.Semaphore, waitValue uint64, signalSem vk.Semaphore, signalValue uint64, signalFence vk.Fence) error {
	var waitSems, signalSems []vk.Semaphore
	var waitValues, signalValues []uint64
	var waitStages []vk.PipelineStageFlags
	if waitSem != vk.NullSemaphore {
		waitSems = append(waitSems, waitSem)
		waitValues = append(waitValues, waitValue)
		waitStages = append(waitStages, vk.PipelineStageFlags(vk.PipelineStageTopOfPipeBit))
	}
	if signalSem != vk.NullSemaphore {
		signalSems = append(signalSems, signalSem)
		signalValues = append(signalValues, signalValue)
	}

	timelineInfo := vk.TimelineSemaphoreSubmitInfo{
		SType:                     vk.StructureTypeTimelineSemaphoreSubmitInfo,
		WaitSemaphoreValueCount:   uint32(len(waitValues)),
		PWaitSemaphoreValues:      waitValues,
		SignalSemaphoreValueCount: uint32(len(signalValues)),
		PSignalSemaphoreValues:    signalValues,
	}
	submit := vk.SubmitInfo{
		SType:                vk.StructureTypeSubmitInfo,
		PNext:                &timelineInfo,
		WaitSemaphoreCount:   uint32(len(waitSems)),
		PWaitSemaphores:      waitSems,
		PWaitDstStageMask:    waitStages,
		SignalSemaphoreCount: uint32(len(signalSems)),
		PSignalSemaphores:    signalSems,
	}
	return NewError(vk.QueueSubmit(queue, 1, []vk.SubmitInfo{submit}, signalFence))
}

// DestroySemaphore and DestroyFence are thin wrappers kept alongside
// the constructors above so BufferSlot teardown never calls
// vk.DestroySemaphore directly; they are no-ops on a null handle.
func DestroySemaphore(dev vk.Device, sem vk.Semaphore) {
	if sem != vk.NullSemaphore {
		vk.DestroySemaphore(dev, sem, nil)
	}
}

func DestroyFence(dev vk.Device, fence vk.Fence) {
	if fence != vk.NullFence {
		vk.DestroyFence(dev, fence, nil)
	}
}
