//go:build zkfp

package zkfp

/*
#cgo LDFLAGS: -lzkfp
#include <stdlib.h>
#include <libzkfp.h>
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// Sensor implements model.Sensor on top of libzkfp.
type Sensor struct {
	mu      sync.Mutex
	db      C.HANDLE
	devices map[model.DeviceHandle]C.HANDLE
}

var _ model.Sensor = (*Sensor)(nil)

func New() (model.Sensor, error) {
	return &Sensor{devices: make(map[model.DeviceHandle]C.HANDLE)}, nil
}

func (s *Sensor) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := classify(int(C.ZKFPM_Init())); err != nil {
		return fmt.Errorf("failed to init sdk: %w", err)
	}
	s.db = C.ZKFPM_DBInit()
	if s.db == nil {
		C.ZKFPM_Terminate()
		return fmt.Errorf("failed to init match cache: %w", &model.CaptureFatalError{Code: -1})
	}
	return nil
}

func (s *Sensor) DeviceCount() int {
	return int(C.ZKFPM_GetDeviceCount())
}

func (s *Sensor) Open(index int) (model.DeviceHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev := C.ZKFPM_OpenDevice(C.int(index))
	if dev == nil {
		return 0, fmt.Errorf("failed to open device %d", index)
	}
	handle := model.DeviceHandle(uintptr(dev))
	s.devices[handle] = dev
	return handle, nil
}

func (s *Sensor) Close(handle model.DeviceHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, ok := s.devices[handle]
	if !ok {
		return fmt.Errorf("unknown device handle %s", handle)
	}
	delete(s.devices, handle)
	return classify(int(C.ZKFPM_CloseDevice(dev)))
}

// Acquire polls the reader once. libzkfp does not block for a finger, so ctx
// is only checked before the call.
func (s *Sensor) Acquire(ctx context.Context, handle model.DeviceHandle) (model.Sample, error) {
	if err := ctx.Err(); err != nil {
		return model.Sample{}, err
	}

	s.mu.Lock()
	dev, ok := s.devices[handle]
	s.mu.Unlock()
	if !ok {
		return model.Sample{}, &model.CaptureFatalError{Code: -7}
	}

	image := make([]byte, imageWidth*imageHeight)
	template := make([]byte, templateSize)
	size := C.uint(len(template))

	code := C.ZKFPM_AcquireFingerprint(dev,
		(*C.uchar)(unsafe.Pointer(&image[0])), C.uint(len(image)),
		(*C.uchar)(unsafe.Pointer(&template[0])), &size)
	if err := classify(int(code)); err != nil {
		return model.Sample{}, err
	}

	return model.Sample{
		Template:    model.Template(template[:size]),
		Image:       image,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
	}, nil
}

func (s *Sensor) Score(a, b model.Template) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	score := C.ZKFPM_DBMatch(s.db,
		(*C.uchar)(unsafe.Pointer(&a[0])), C.uint(len(a)),
		(*C.uchar)(unsafe.Pointer(&b[0])), C.uint(len(b)))
	if score < 0 {
		return 0
	}
	return int(score)
}

func (s *Sensor) Fuse(a, b, c model.Template) (model.Template, error) {
	if len(a) == 0 || len(b) == 0 || len(c) == 0 {
		return nil, fmt.Errorf("%w: empty template", model.ErrFusionFailed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]byte, templateSize)
	size := C.uint(len(merged))
	code := C.ZKFPM_DBMerge(s.db,
		(*C.uchar)(unsafe.Pointer(&a[0])),
		(*C.uchar)(unsafe.Pointer(&b[0])),
		(*C.uchar)(unsafe.Pointer(&c[0])),
		(*C.uchar)(unsafe.Pointer(&merged[0])), &size)
	if code != CodeOK {
		return nil, fmt.Errorf("%w: code %d", model.ErrFusionFailed, int(code))
	}
	return model.Template(merged[:size]), nil
}

func (s *Sensor) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for handle, dev := range s.devices {
		C.ZKFPM_CloseDevice(dev)
		delete(s.devices, handle)
	}
	if s.db != nil {
		C.ZKFPM_DBFree(s.db)
		s.db = nil
	}
	return classify(int(C.ZKFPM_Terminate()))
}
