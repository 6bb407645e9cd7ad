package model

import (
	"context"
	"fmt"
)

// DeviceHandle identifies an open sensor device. The zero value means "not open".
type DeviceHandle uintptr

// Valid reports whether h refers to an open device.
func (h DeviceHandle) Valid() bool {
	return h != 0
}

// String renders the handle the way drivers log it.
func (h DeviceHandle) String() string {
	return fmt.Sprintf("0x%x", uintptr(h))
}

// Sample is the raw output of one successful acquisition.
type Sample struct {
	Template Template
	// Image is an 8-bit grayscale bitmap of ImageWidth x ImageHeight pixels.
	Image       []byte
	ImageWidth  int
	ImageHeight int
}

// Sensor is the capability exposed by a fingerprint reader driver.
//
// Acquire returns ErrNoClearScan when the finger placement was not usable and
// a *CaptureFatalError for any other driver failure. Fuse returns ErrFusionFailed
// (optionally wrapped) when the three templates cannot be merged.
type Sensor interface {
	Init() error
	DeviceCount() int
	Open(index int) (DeviceHandle, error)
	Close(handle DeviceHandle) error
	Acquire(ctx context.Context, handle DeviceHandle) (Sample, error)
	Score(a, b Template) int
	Fuse(a, b, c Template) (Template, error)
	Shutdown() error
}

// Scorer is the part of Sensor used by the match evaluator.
type Scorer interface {
	Score(a, b Template) int
}
