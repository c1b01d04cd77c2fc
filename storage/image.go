package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

const (
	// MaxImageDimension bounds the longest side of a stored product image.
	MaxImageDimension = 1280
	// JPEGQuality is the re-encode quality for stored images.
	JPEGQuality = 82
)

// TranscodeJPEG re-encodes an uploaded image as a web-efficient JPEG,
// scaling it down when the longest side exceeds maxDim. Aspect ratio is
// preserved; images already within bounds are only re-encoded.
func TranscodeJPEG(r io.Reader, maxDim, quality int) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
