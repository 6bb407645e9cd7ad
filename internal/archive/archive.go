// Package archive writes the raw scans of each enrollment to object storage
// as PGM images next to a CBOR manifest.
package archive

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"net/url"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/spakin/netpbm"

	"github.com/dtroode/fingerprint-server/internal/logger"
	"github.com/dtroode/fingerprint-server/internal/model"
)

const (
	pgmContentType  = "image/x-portable-graymap"
	cborContentType = "application/cbor"
	manifestName    = "manifest.cbor"
)

// Manifest describes the objects of one archived enrollment.
type Manifest struct {
	EnrollmentID string      `cbor:"enrollment_id"`
	Identity     string      `cbor:"identity"`
	CreatedAt    time.Time   `cbor:"created_at"`
	Scans        []ScanEntry `cbor:"scans"`
}

type ScanEntry struct {
	Key    string `cbor:"key"`
	Width  int    `cbor:"width"`
	Height int    `cbor:"height"`
	Size   int    `cbor:"size"`
	SHA256 string `cbor:"sha256"`
}

var _ model.Archiver = (*Archiver)(nil)

type Archiver struct {
	storage model.Storage
	logger  *logger.Logger
	encMode cbor.EncMode
}

func New(storage model.Storage, logger *logger.Logger) (*Archiver, error) {
	encMode, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to build cbor encoder: %w", err)
	}

	return &Archiver{
		storage: storage,
		logger:  logger,
		encMode: encMode,
	}, nil
}

// Prefix is the object key prefix of an enrollment.
func Prefix(identity string, enrollmentID uuid.UUID) string {
	return fmt.Sprintf("enrollments/%s/%s/", url.PathEscape(identity), enrollmentID)
}

// Archive uploads every scan, then the manifest. Objects uploaded before a
// failure are removed so a manifest never points at a partial set.
func (a *Archiver) Archive(ctx context.Context, archive model.ScanArchive) error {
	prefix := Prefix(archive.Identity, archive.EnrollmentID)
	manifest := Manifest{
		EnrollmentID: archive.EnrollmentID.String(),
		Identity:     archive.Identity,
		CreatedAt:    archive.CreatedAt.UTC(),
		Scans:        make([]ScanEntry, 0, len(archive.Scans)),
	}

	var uploaded []string
	cleanup := func() {
		for _, key := range uploaded {
			if err := a.storage.Delete(ctx, key); err != nil {
				a.logger.Warn("Archive: failed to remove partial upload", "key", key, "error", err)
			}
		}
	}

	for i, scan := range archive.Scans {
		body, err := EncodePGM(scan)
		if err != nil {
			cleanup()
			return fmt.Errorf("failed to encode scan %d: %w", i+1, err)
		}

		key := fmt.Sprintf("%sscan-%d.pgm", prefix, i+1)
		if err := a.storage.Upload(ctx, key, bytes.NewReader(body), int64(len(body)), pgmContentType); err != nil {
			cleanup()
			return fmt.Errorf("failed to archive scan %d: %w", i+1, err)
		}
		uploaded = append(uploaded, key)

		sum := sha256.Sum256(body)
		manifest.Scans = append(manifest.Scans, ScanEntry{
			Key:    key,
			Width:  scan.ImageWidth,
			Height: scan.ImageHeight,
			Size:   len(body),
			SHA256: hex.EncodeToString(sum[:]),
		})
	}

	encoded, err := a.encMode.Marshal(manifest)
	if err != nil {
		cleanup()
		return fmt.Errorf("failed to encode manifest: %w", err)
	}

	if err := a.storage.Upload(ctx, prefix+manifestName, bytes.NewReader(encoded), int64(len(encoded)), cborContentType); err != nil {
		cleanup()
		return fmt.Errorf("failed to archive manifest: %w", err)
	}

	a.logger.Info("Archive: enrollment scans stored", "identity", archive.Identity, "prefix", prefix, "scans", len(manifest.Scans))
	return nil
}

// LoadManifest reads back the manifest of an archived enrollment.
func (a *Archiver) LoadManifest(ctx context.Context, identity string, enrollmentID uuid.UUID) (Manifest, error) {
	rc, err := a.storage.Download(ctx, Prefix(identity, enrollmentID)+manifestName)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to download manifest: %w", err)
	}
	defer rc.Close()

	var manifest Manifest
	if err := cbor.NewDecoder(rc).Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return manifest, nil
}

var errImageSize = errors.New("image buffer does not match its dimensions")

// EncodePGM renders the 8-bit grayscale image of a sample as binary PGM.
func EncodePGM(sample model.Sample) ([]byte, error) {
	w, h := sample.ImageWidth, sample.ImageHeight
	if w <= 0 || h <= 0 || len(sample.Image) != w*h {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", errImageSize, w, h, len(sample.Image))
	}

	img := &image.Gray{
		Pix:    sample.Image,
		Stride: w,
		Rect:   image.Rect(0, 0, w, h),
	}

	var buf bytes.Buffer
	if err := netpbm.Encode(&buf, img, &netpbm.EncodeOptions{
		Format:   netpbm.PGM,
		MaxValue: 255,
		Comments: []string{"fingerprint scan"},
	}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
