//go:build !zkfp

package zkfp

import "github.com/dtroode/fingerprint-server/internal/model"

// New reports ErrNotCompiled in builds without the zkfp tag.
func New() (model.Sensor, error) {
	return nil, ErrNotCompiled
}
