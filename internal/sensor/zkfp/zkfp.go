// Package zkfp drives ZKTeco readers through the vendor libzkfp SDK.
//
// The cgo binding is only compiled with the zkfp build tag. Without it New
// returns ErrNotCompiled so the service can fall back to another driver.
package zkfp

import (
	"errors"

	"github.com/dtroode/fingerprint-server/internal/model"
)

// SDK return codes.
const (
	CodeOK      = 0
	CodeCapture = -8
)

const (
	imageWidth   = 300
	imageHeight  = 400
	templateSize = model.TemplateSize
)

// ErrNotCompiled is returned by New when the binary was built without the zkfp tag.
var ErrNotCompiled = errors.New("zkfp: driver not compiled in, rebuild with -tags zkfp")

// classify maps an SDK return code to the sensor error contract.
func classify(code int) error {
	switch code {
	case CodeOK:
		return nil
	case CodeCapture:
		return model.ErrNoClearScan
	default:
		return &model.CaptureFatalError{Code: code}
	}
}
