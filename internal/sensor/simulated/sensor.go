// Package simulated is a software fingerprint reader. Each finger name maps
// to a stable template, every scan of it flips a few random bits, and a
// configurable share of scans comes back "not clear".
package simulated

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mcuadros/go-defaults"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// Driver codes reported through model.CaptureFatalError.
const (
	CodeNotInitialized = -1
	CodeInvalidHandle  = -7
	CodeMergeFailed    = -22
)

const (
	ImageWidth  = 300
	ImageHeight = 400
)

// Sentinels for Options fields whose zero value means "use the default".
const (
	NoDevices   = -1
	InstantScan = time.Duration(-1)
)

// Options configures the simulated reader.
type Options struct {
	// Finger is the finger initially placed on the reader.
	Finger string `default:"finger-0"`
	// ClearRate is the probability that a scan is clear. Zero means every scan fails.
	ClearRate float64
	// NoiseBits is the number of template bits flipped per scan.
	NoiseBits int `default:"48"`
	// Devices is the number of readers reported by DeviceCount. Zero takes the
	// default; NoDevices reports none.
	Devices int `default:"1"`
	// ScanTime is how long a finger placement takes. Zero takes the default;
	// InstantScan disables the delay.
	ScanTime time.Duration `default:"150ms"`
	// Seed makes noise reproducible. Zero seeds from the clock.
	Seed uint64
}

// Sensor implements model.Sensor in memory.
type Sensor struct {
	opts Options

	mu          sync.Mutex
	rng         *rand.Rand
	finger      string
	initialized bool
	open        map[model.DeviceHandle]int
	nextHandle  model.DeviceHandle
	script      []error
}

var _ model.Sensor = (*Sensor)(nil)

func New(opts Options) *Sensor {
	defaults.SetDefaults(&opts)
	opts.Devices = max(opts.Devices, 0)
	opts.ScanTime = max(opts.ScanTime, 0)

	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Sensor{
		opts:       opts,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		finger:     opts.Finger,
		open:       make(map[model.DeviceHandle]int),
		nextHandle: 0x1000,
	}
}

// Place puts another finger on the reader.
func (s *Sensor) Place(finger string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finger = finger
}

// Finger returns the finger currently on the reader.
func (s *Sensor) Finger() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finger
}

// Script queues outcomes for the next acquisitions. A nil entry is a clear
// scan; any error is returned as is. Scripted outcomes win over ClearRate.
func (s *Sensor) Script(outcomes ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, outcomes...)
}

func (s *Sensor) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = true
	return nil
}

func (s *Sensor) DeviceCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return 0
	}
	return s.opts.Devices
}

func (s *Sensor) Open(index int) (model.DeviceHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return 0, &model.CaptureFatalError{Code: CodeNotInitialized}
	}
	if index < 0 || index >= s.opts.Devices {
		return 0, fmt.Errorf("device index %d out of range [0, %d)", index, s.opts.Devices)
	}

	s.nextHandle++
	s.open[s.nextHandle] = index
	return s.nextHandle, nil
}

func (s *Sensor) Close(handle model.DeviceHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.open[handle]; !ok {
		return &model.CaptureFatalError{Code: CodeInvalidHandle}
	}
	delete(s.open, handle)
	return nil
}

func (s *Sensor) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialized = false
	clear(s.open)
	return nil
}

// Acquire waits ScanTime, then returns a noisy scan of the placed finger.
func (s *Sensor) Acquire(ctx context.Context, handle model.DeviceHandle) (model.Sample, error) {
	if s.opts.ScanTime > 0 {
		timer := time.NewTimer(s.opts.ScanTime)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return model.Sample{}, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return model.Sample{}, &model.CaptureFatalError{Code: CodeNotInitialized}
	}
	if _, ok := s.open[handle]; !ok {
		return model.Sample{}, &model.CaptureFatalError{Code: CodeInvalidHandle}
	}

	if len(s.script) > 0 {
		next := s.script[0]
		s.script = s.script[1:]
		if next != nil {
			return model.Sample{}, next
		}
	} else if s.rng.Float64() >= s.opts.ClearRate {
		return model.Sample{}, model.ErrNoClearScan
	}

	template := FingerTemplate(s.finger)
	for i := 0; i < s.opts.NoiseBits; i++ {
		bit := s.rng.IntN(len(template) * 8)
		template[bit/8] ^= 1 << (bit % 8)
	}

	return model.Sample{
		Template:    template,
		Image:       renderImage(template),
		ImageWidth:  ImageWidth,
		ImageHeight: ImageHeight,
	}, nil
}

// Score is 100 minus twice the percentage of differing bits, floored at 0.
// Templates of different length score 0.
func (s *Sensor) Score(a, b model.Template) int {
	return Score(a, b)
}

// Fuse takes the bitwise majority of three templates.
func (s *Sensor) Fuse(a, b, c model.Template) (model.Template, error) {
	return Fuse(a, b, c)
}

// FingerTemplate derives the noise-free template of a named finger.
func FingerTemplate(finger string) model.Template {
	out := make(model.Template, 0, model.TemplateSize)
	seed := sha256.Sum256([]byte(finger))
	var counter [8]byte
	for i := uint64(0); len(out) < model.TemplateSize; i++ {
		binary.BigEndian.PutUint64(counter[:], i)
		block := sha256.Sum256(append(seed[:], counter[:]...))
		out = append(out, block[:]...)
	}
	return out[:model.TemplateSize]
}

func Score(a, b model.Template) int {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	diff := 0
	for i := range a {
		diff += bits.OnesCount8(a[i] ^ b[i])
	}

	mismatchPct := float64(diff) * 100 / float64(len(a)*8)
	score := int(100 - 2*mismatchPct)
	if score < 0 {
		return 0
	}
	return score
}

// ErrShapeMismatch is wrapped in model.ErrFusionFailed when templates differ in length.
var ErrShapeMismatch = errors.New("templates differ in length")

func Fuse(a, b, c model.Template) (model.Template, error) {
	if len(a) == 0 || len(a) != len(b) || len(a) != len(c) {
		return nil, fmt.Errorf("%w: code %d: %w", model.ErrFusionFailed, CodeMergeFailed, ErrShapeMismatch)
	}

	out := make(model.Template, len(a))
	for i := range a {
		out[i] = (a[i] & b[i]) | (a[i] & c[i]) | (b[i] & c[i])
	}
	return out, nil
}

// renderImage draws a deterministic ridge-like pattern from the template.
func renderImage(template model.Template) []byte {
	img := make([]byte, ImageWidth*ImageHeight)
	cx, cy := ImageWidth/2, ImageHeight/2
	for y := 0; y < ImageHeight; y++ {
		for x := 0; x < ImageWidth; x++ {
			dx, dy := x-cx, y-cy
			r := (dx*dx)/3 + (dy*dy)/5
			phase := int(template[(r/40)%len(template)])
			if ((r+phase)/24)%2 == 0 {
				img[y*ImageWidth+x] = 40
			} else {
				img[y*ImageWidth+x] = 215
			}
		}
	}
	return img
}
